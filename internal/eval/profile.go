package eval

import (
	"github.com/helpintl/aid-cluster/internal/buffer"
	"github.com/helpintl/aid-cluster/internal/model"
)

// Profiles computes the statistical signature of every non-noise cluster:
// mean and standard deviation of each standardized indicator over the
// member records, plus the member count.
// Profiles are derived entirely from the assignment and its source matrix
// and are recomputed whenever either changes.
func Profiles(a model.ClusterAssignment, m *model.FeatureMatrix) (map[int]model.ClusterProfile, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if a.Len() != m.Len() {
		return nil, model.DataShapeError{Reason: "assignment does not cover the matrix records"}
	}

	collectors := make(map[int]*buffer.StatsCollector)
	for i, label := range a.Labels {
		if label == model.Noise {
			continue
		}
		sc, ok := collectors[label]
		if !ok {
			sc = buffer.NewStatsCollector(m.Dim())
			collectors[label] = sc
		}
		sc.Push(m.Rows[i]...)
	}

	profiles := make(map[int]model.ClusterProfile, len(collectors))
	for label, sc := range collectors {
		mean := make(map[string]float64, m.Dim())
		stddev := make(map[string]float64, m.Dim())
		for j, stats := range sc.Stats() {
			mean[m.Columns[j]] = stats.Avg()
			stddev[m.Columns[j]] = stats.StDev()
		}
		profiles[label] = model.ClusterProfile{
			Cluster: label,
			Size:    sc.Size(),
			Mean:    mean,
			StdDev:  stddev,
		}
	}
	return profiles, nil
}
