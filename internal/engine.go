// Package aid wires the clustering variants, the evaluator and the ranker
// into one deterministic batch pipeline over a feature matrix.
package aid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/helpintl/aid-cluster/internal/cluster"
	"github.com/helpintl/aid-cluster/internal/eval"
	"github.com/helpintl/aid-cluster/internal/model"
	"github.com/helpintl/aid-cluster/internal/rank"
	"github.com/helpintl/aid-cluster/internal/storage"
)

const (
	// DefaultAgreementThreshold is the adjusted-rand line below which the
	// centroid and hierarchical assignments are reported as inconsistent.
	DefaultAgreementThreshold = 0.5
	// projectionDims is the component count used for visual validation.
	projectionDims = 2
)

// Config is the configuration surface of the engine.
type Config struct {
	KMin                 int             `json:"k_min"`
	KMax                 int             `json:"k_max"`
	K                    int             `json:"k"`
	LinkageCutK          int             `json:"linkage_cut_k"`
	Eps                  float64         `json:"eps"`
	MinSamples           int             `json:"min_samples"`
	RandomSeed           int64           `json:"random_seed"`
	Features             []string        `json:"features"`
	VulnerabilityWeights rank.Weights    `json:"vulnerability_weights"`
	TierThresholds       rank.Thresholds `json:"tier_thresholds"`
	AgreementThreshold   float64         `json:"agreement_threshold"`
}

// Report is the immutable outcome of one engine run.
type Report struct {
	ID                string                       `json:"id"`
	K                 int                          `json:"k"`
	KScores           []cluster.KScore             `json:"k_scores"`
	Centroid          model.ClusterAssignment      `json:"centroid"`
	Hierarchical      model.ClusterAssignment      `json:"hierarchical"`
	Density           model.ClusterAssignment      `json:"density"`
	Agreement         float64                      `json:"agreement"`
	Profiles          map[int]model.ClusterProfile `json:"profiles"`
	Projection        *eval.Projection             `json:"projection"`
	Priorities        []model.PriorityEntry        `json:"priorities"`
	Warnings          []string                     `json:"warnings"`
}

// Engine runs the full analysis pipeline.
// Fitted model state is persisted through the injected store and memoized in
// an explicit cache keyed by matrix fingerprint and parameters.
type Engine struct {
	store storage.Persistence
	cache *cluster.Cache
}

// NewEngine creates an engine on top of the given persistence.
// A nil store disables snapshots.
func NewEngine(store storage.Persistence) *Engine {
	if store == nil {
		store = storage.NewVoidStorage()
	}
	return &Engine{
		store: store,
		cache: cluster.NewCache(),
	}
}

// Invalidate drops all memoized assignments.
func (e *Engine) Invalidate() {
	e.cache.Reset()
}

// Run executes the pipeline: cluster count search, the three clustering
// fits, profiling, cross-method agreement, projection and priority ranking.
// Re-running with identical inputs and seed reproduces the same report
// except for its run id.
func (e *Engine) Run(m *model.FeatureMatrix, cfg Config) (*Report, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:       uuid.New().String(),
		Warnings: make([]string, 0),
	}

	// optimal cluster count
	k := cfg.K
	if k == 0 {
		scores, err := cluster.Search(m, cfg.KMin, cfg.KMax, cfg.RandomSeed)
		if err != nil {
			return nil, fmt.Errorf("could not search cluster count: %w", err)
		}
		report.KScores = scores
		k = cluster.SelectK(scores)
		if k == 0 {
			return nil, model.ConfigurationError{Param: "k_max", Value: cfg.KMax, Reason: "no candidate with k >= 2"}
		}
	}
	report.K = k

	// centroid fit, memoized by fingerprint + parameters
	km := cluster.NewKMeans(k, cfg.RandomSeed)
	key := cluster.CacheKey(m, "kmeans", fmt.Sprintf("k=%d_seed=%d", k, cfg.RandomSeed))
	if cached, ok := e.cache.Get(key); ok {
		report.Centroid = cached
	} else {
		assignment, err := km.Fit(m)
		var warn model.ConvergenceWarning
		if err != nil {
			if !errors.As(err, &warn) {
				return nil, fmt.Errorf("could not fit centroid model: %w", err)
			}
			report.Warnings = append(report.Warnings, warn.Error())
		}
		report.Centroid = assignment
		e.cache.Put(key, assignment)
		if err := cluster.SaveKMeans(e.store, m, km); err != nil {
			log.Warn().Err(err).Msg("could not persist centroid model")
		}
	}

	// hierarchical fit
	cutK := cfg.LinkageCutK
	if cutK == 0 {
		cutK = k
	}
	hc := cluster.NewHierarchical(cutK)
	hierarchical, err := hc.Fit(m)
	if err != nil {
		return nil, fmt.Errorf("could not fit hierarchical model: %w", err)
	}
	report.Hierarchical = hierarchical
	if err := cluster.SaveTree(e.store, m, hc.Tree()); err != nil {
		log.Warn().Err(err).Msg("could not persist merge tree")
	}

	// density fit
	db := cluster.NewDBScan(cfg.Eps, cfg.MinSamples)
	density, err := db.Fit(m)
	if err != nil {
		return nil, fmt.Errorf("could not fit density model: %w", err)
	}
	report.Density = density
	if err := cluster.SaveDBScan(e.store, m, db); err != nil {
		log.Warn().Err(err).Msg("could not persist density model")
	}

	// cross-method consistency
	agreement, err := eval.Agreement(report.Centroid, report.Hierarchical)
	if err != nil {
		return nil, fmt.Errorf("could not score agreement: %w", err)
	}
	report.Agreement = agreement
	threshold := cfg.AgreementThreshold
	if threshold == 0 {
		threshold = DefaultAgreementThreshold
	}
	if agreement < threshold {
		warning := fmt.Sprintf("centroid and hierarchical assignments disagree: agreement %.3f below %.2f", agreement, threshold)
		report.Warnings = append(report.Warnings, warning)
		log.Warn().
			Float64("agreement", agreement).
			Float64("threshold", threshold).
			Int("k", k).
			Msg("unstable cluster count")
	}

	// profiles and projection
	profiles, err := eval.Profiles(report.Centroid, m)
	if err != nil {
		return nil, fmt.Errorf("could not profile clusters: %w", err)
	}
	report.Profiles = profiles

	projection, err := eval.Project(m, projectionDims)
	if err != nil {
		return nil, fmt.Errorf("could not project matrix: %w", err)
	}
	report.Projection = projection

	// priority ranking on the centroid labels, with the density outliers
	// carried over as noise so they surface for individual review
	priorities, err := rank.Rank(overlayNoise(report.Centroid, report.Density), m, profiles, cfg.VulnerabilityWeights, cfg.TierThresholds)
	if err != nil {
		return nil, fmt.Errorf("could not rank records: %w", err)
	}
	report.Priorities = priorities

	logRun(report)

	return report, nil
}

// overlayNoise keeps the primary labels but marks every record the density
// clusterer rejected as noise.
func overlayNoise(primary, density model.ClusterAssignment) model.ClusterAssignment {
	labels := append([]int(nil), primary.Labels...)
	for i, l := range density.Labels {
		if l == model.Noise {
			labels[i] = model.Noise
		}
	}
	return model.NewClusterAssignment(primary.Names, labels)
}

func logRun(report *Report) {
	log.Info().
		Str("id", report.ID).
		Int("k", report.K).
		Float64("agreement", report.Agreement).
		Int("noise", report.Density.NoiseCount()).
		Int("warnings", len(report.Warnings)).
		Msg("completed clustering run")
}
