package cluster

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	vmath "github.com/helpintl/aid-cluster/internal/math"
	"github.com/helpintl/aid-cluster/internal/model"
)

// KScore is the quality record of one candidate cluster count.
// Inertia visualises the elbow, the silhouette drives automatic selection.
type KScore struct {
	K          int     `json:"k"`
	Inertia    float64 `json:"inertia"`
	Silhouette float64 `json:"silhouette"`
}

// Search fits the centroid model for every k in [kMin, kMax] and scores each
// candidate. Fits run as independent tasks and are collected back in
// canonical k order, so results stay deterministic.
// Convergence warnings are tolerated; the affected candidate is still scored.
func Search(m *model.FeatureMatrix, kMin, kMax int, seed int64) ([]KScore, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if kMin < 1 {
		return nil, model.ConfigurationError{Param: "k_min", Value: kMin, Reason: "must be positive"}
	}
	if kMax < kMin {
		return nil, model.ConfigurationError{Param: "k_max", Value: kMax, Reason: "must not be smaller than k_min"}
	}
	if kMax > m.Len() {
		return nil, model.ConfigurationError{Param: "k_max", Value: kMax, Reason: "more clusters than records"}
	}

	dist := vmath.Pairwise(m.Rows)
	scores := make([]KScore, kMax-kMin+1)

	var g errgroup.Group
	for k := kMin; k <= kMax; k++ {
		k := k
		g.Go(func() error {
			km := NewKMeans(k, seed)
			assignment, err := km.Fit(m)
			var warn model.ConvergenceWarning
			if err != nil && !errors.As(err, &warn) {
				return err
			}
			score := KScore{K: k, Inertia: km.Inertia()}
			if k >= 2 {
				score.Silhouette = Silhouette(assignment, dist)
			}
			scores[k-kMin] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("k_min", kMin).
		Int("k_max", kMax).
		Int("candidates", len(scores)).
		Msg("completed cluster count search")

	return scores, nil
}

// SelectK picks the candidate maximising the mean silhouette over all
// candidates with k >= 2. Ties resolve to the smaller k.
func SelectK(scores []KScore) int {
	best := 0
	bestScore := 0.0
	for _, s := range scores {
		if s.K < 2 {
			continue
		}
		if best == 0 || s.Silhouette > bestScore {
			best = s.K
			bestScore = s.Silhouette
		}
	}
	return best
}
