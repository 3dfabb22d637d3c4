package cluster

import (
	vmath "github.com/helpintl/aid-cluster/internal/math"
	"github.com/helpintl/aid-cluster/internal/metrics"
	"github.com/helpintl/aid-cluster/internal/model"
)

// unclassified is the internal sentinel for not yet visited points.
// It never leaks into an assignment.
const unclassified = -2

// DBScan is the density clusterer. A point is a core point if at least
// minSamples points (itself included) lie within eps euclidean distance;
// clusters are the transitive density-connections of core points,
// everything unreachable is labeled as noise.
type DBScan struct {
	eps        float64
	minSamples int

	cores      [][]float64
	coreLabels []int
}

// NewDBScan creates a density clusterer for the given neighborhood parameters.
func NewDBScan(eps float64, minSamples int) *DBScan {
	return &DBScan{
		eps:        eps,
		minSamples: minSamples,
	}
}

// Fit groups the records by density-connectivity.
// Clusters are numbered in the order their first core point is discovered,
// iterating records in their given sequence order.
func (db *DBScan) Fit(m *model.FeatureMatrix) (model.ClusterAssignment, error) {
	if db.eps <= 0 {
		return model.ClusterAssignment{}, model.ConfigurationError{Param: "eps", Value: db.eps, Reason: "must be positive"}
	}
	if db.minSamples <= 0 {
		return model.ClusterAssignment{}, model.ConfigurationError{Param: "min_samples", Value: db.minSamples, Reason: "must be positive"}
	}
	if err := m.Validate(); err != nil {
		return model.ClusterAssignment{}, err
	}

	n := m.Len()
	dist := vmath.Pairwise(m.Rows)
	neighbors := func(i int) []int {
		var nn []int
		for j := 0; j < n; j++ {
			if dist[i][j] <= db.eps {
				nn = append(nn, j)
			}
		}
		return nn
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unclassified
	}

	db.cores = nil
	db.coreLabels = nil

	cid := 0
	for i := 0; i < n; i++ {
		if labels[i] != unclassified {
			continue
		}

		nn := neighbors(i)
		if len(nn) < db.minSamples {
			labels[i] = model.Noise
			continue
		}

		// new cluster seeded by the first undiscovered core point
		labels[i] = cid
		db.cores = append(db.cores, m.Rows[i])
		db.coreLabels = append(db.coreLabels, cid)

		seed := make([]int, 0, len(nn))
		for _, j := range nn {
			if j != i {
				seed = append(seed, j)
			}
		}

		for len(seed) > 0 {
			q := seed[0]
			seed = seed[1:]

			if labels[q] == model.Noise {
				// border point reclaimed by a reachable core
				labels[q] = cid
			}
			if labels[q] != unclassified {
				continue
			}
			labels[q] = cid

			qn := neighbors(q)
			if len(qn) >= db.minSamples {
				db.cores = append(db.cores, m.Rows[q])
				db.coreLabels = append(db.coreLabels, cid)
				seed = append(seed, qn...)
			}
		}
		cid++
	}

	metrics.Observer.IncrementFit("dbscan")

	return model.NewClusterAssignment(m.Names, labels), nil
}

// Predict assigns an unseen vector to the cluster of the nearest fitted core
// point within eps, or noise when no core point is in range.
func (db *DBScan) Predict(v []float64) (int, error) {
	if len(db.cores) == 0 {
		return model.Noise, model.ConfigurationError{Param: "model", Value: nil, Reason: "no fitted core points"}
	}
	if len(v) != len(db.cores[0]) {
		return model.Noise, model.ConfigurationError{
			Param:  "vector",
			Value:  len(v),
			Reason: "dimensionality does not match the fitted model",
		}
	}
	label := model.Noise
	best := db.eps
	for i, core := range db.cores {
		if d := vmath.Euclidean(v, core); d <= best {
			best = d
			label = db.coreLabels[i]
		}
	}
	return label, nil
}
