// Package rank turns cluster assignments and profiles into an ordered
// aid-priority list.
package rank

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/helpintl/aid-cluster/internal/model"
)

// Weights is the linear combination of standardized indicators that forms
// the composite vulnerability score. Positive weights push a record up the
// priority list, negative weights pull it down.
// Weights are configuration input, never hardcoded in the engine.
type Weights map[string]float64

// Thresholds splits the score range into priority tiers.
type Thresholds struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// Rank scores every record and returns the priority list ordered by
// descending vulnerability; ties resolve by ascending record name.
// Noise-labeled records are tiered REVIEW instead of being scored into a
// priority bucket automatically.
func Rank(a model.ClusterAssignment, m *model.FeatureMatrix, profiles map[int]model.ClusterProfile, weights Weights, tiers Thresholds) ([]model.PriorityEntry, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if a.Len() != m.Len() {
		return nil, model.DataShapeError{Reason: "assignment does not cover the matrix records"}
	}
	if len(weights) == 0 {
		return nil, model.ConfigurationError{Param: "vulnerability_weights", Value: weights, Reason: "no weights given"}
	}
	if tiers.High < tiers.Low {
		return nil, model.ConfigurationError{Param: "tier_thresholds", Value: tiers, Reason: "upper threshold below lower threshold"}
	}

	columns := make(map[string]int, len(weights))
	for indicator := range weights {
		idx, ok := m.Column(indicator)
		if !ok {
			return nil, model.ConfigurationError{
				Param:  "vulnerability_weights",
				Value:  indicator,
				Reason: "unknown indicator",
			}
		}
		columns[indicator] = idx
	}

	clusterScores := make(map[int]float64, len(profiles))
	for label, profile := range profiles {
		s := 0.0
		for indicator, w := range weights {
			s += w * profile.Mean[indicator]
		}
		clusterScores[label] = s
	}

	entries := make([]model.PriorityEntry, 0, m.Len())
	review := 0
	for i, name := range m.Names {
		label := a.Labels[i]

		score := 0.0
		for indicator, w := range weights {
			score += w * m.Rows[i][columns[indicator]]
		}

		entry := model.PriorityEntry{
			Name:    name,
			Cluster: label,
			Score:   score,
		}
		if label == model.Noise {
			entry.Tier = model.Review
			review++
		} else {
			entry.ClusterScore = clusterScores[label]
			entry.Tier = tier(score, tiers)
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})

	if review > 0 {
		log.Info().
			Int("records", review).
			Msg("records flagged for individual review")
	}

	return entries, nil
}

func tier(score float64, tiers Thresholds) model.Tier {
	switch {
	case score > tiers.High:
		return model.High
	case score < tiers.Low:
		return model.Low
	default:
		return model.Medium
	}
}
