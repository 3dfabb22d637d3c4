package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"

	vmath "github.com/helpintl/aid-cluster/internal/math"
	"github.com/helpintl/aid-cluster/internal/metrics"
	"github.com/helpintl/aid-cluster/internal/model"
)

const (
	// DefaultIterations caps the assignment loop of a single centroid fit.
	DefaultIterations = 300
	// DefaultRestarts is the number of seeded re-initialisations per fit.
	DefaultRestarts = 10
)

// KMeans is the centroid clusterer.
// Initialisation is seeded k-means++, so that repeated fits with the same
// seed and k produce identical assignments.
type KMeans struct {
	k          int
	seed       int64
	iterations int
	restarts   int

	centroids [][]float64
	inertia   float64
}

// NewKMeans creates a centroid clusterer for the given cluster count and seed.
func NewKMeans(k int, seed int64) *KMeans {
	return &KMeans{
		k:          k,
		seed:       seed,
		iterations: DefaultIterations,
		restarts:   DefaultRestarts,
	}
}

// WithIterations overrides the iteration cap.
func (km *KMeans) WithIterations(iterations int) *KMeans {
	km.iterations = iterations
	return km
}

// WithRestarts overrides the number of re-initialisations.
func (km *KMeans) WithRestarts(restarts int) *KMeans {
	km.restarts = restarts
	return km
}

// Inertia returns the total within-cluster squared distance of the last fit.
func (km *KMeans) Inertia() float64 {
	return km.inertia
}

// Centroids returns the fitted cluster centres, indexed by label.
func (km *KMeans) Centroids() [][]float64 {
	return km.centroids
}

// Fit runs the centroid algorithm to convergence and returns the assignment.
// Cluster ids are relabeled by descending cluster size.
// A ConvergenceWarning is returned next to a still valid assignment when the
// best restart hit the iteration cap.
func (km *KMeans) Fit(m *model.FeatureMatrix) (model.ClusterAssignment, error) {
	if err := m.Validate(); err != nil {
		return model.ClusterAssignment{}, err
	}
	if km.k < 1 {
		return model.ClusterAssignment{}, model.ConfigurationError{Param: "k", Value: km.k, Reason: "must be positive"}
	}
	if m.Len() < km.k {
		return model.ClusterAssignment{}, model.ConfigurationError{
			Param:  "k",
			Value:  km.k,
			Reason: "fewer records than clusters",
		}
	}

	best := lloydRun{inertia: math.MaxFloat64}
	for r := 0; r < km.restarts; r++ {
		// sub-seeds are derived deterministically, so restarts stay reproducible
		rng := rand.New(rand.NewSource(km.seed + int64(r)))
		run := km.lloyd(m.Rows, rng)
		if run.inertia < best.inertia {
			best = run
		}
	}

	labels, centroids := relabelBySize(best.labels, best.centroids, km.k)
	km.centroids = centroids
	km.inertia = best.inertia

	metrics.Observer.IncrementFit("kmeans")

	if !best.converged {
		metrics.Observer.IncrementConvergenceCap()
		log.Warn().
			Int("k", km.k).
			Int("iterations", km.iterations).
			Msg("centroid fit hit the iteration cap")
		return model.NewClusterAssignment(m.Names, labels), model.ConvergenceWarning{K: km.k, Iterations: km.iterations}
	}
	return model.NewClusterAssignment(m.Names, labels), nil
}

// Predict assigns an unseen feature vector to the nearest fitted centroid.
func (km *KMeans) Predict(v []float64) (int, error) {
	if len(km.centroids) == 0 {
		return 0, model.ConfigurationError{Param: "model", Value: nil, Reason: "no fitted centroids"}
	}
	if len(v) != len(km.centroids[0]) {
		return 0, model.ConfigurationError{
			Param:  "vector",
			Value:  len(v),
			Reason: "dimensionality does not match the fitted model",
		}
	}
	dd := make([]float64, len(km.centroids))
	for i, c := range km.centroids {
		dd[i] = vmath.SquaredEuclidean(v, c)
	}
	return vmath.ArgMin(dd), nil
}

type lloydRun struct {
	labels    []int
	centroids [][]float64
	inertia   float64
	converged bool
}

func (km *KMeans) lloyd(rows [][]float64, rng *rand.Rand) lloydRun {
	centroids := plusPlusInit(rows, km.k, rng)
	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = -1
	}

	converged := false
	for it := 0; it < km.iterations; it++ {
		changed := 0
		for i, row := range rows {
			dd := make([]float64, len(centroids))
			for c, centroid := range centroids {
				dd[c] = vmath.SquaredEuclidean(row, centroid)
			}
			l := vmath.ArgMin(dd)
			if l != labels[i] {
				labels[i] = l
				changed++
			}
		}
		if changed == 0 {
			converged = true
			break
		}
		centroids = recompute(rows, labels, centroids)
	}

	inertia := 0.0
	for i, row := range rows {
		inertia += vmath.SquaredEuclidean(row, centroids[labels[i]])
	}

	return lloydRun{
		labels:    labels,
		centroids: centroids,
		inertia:   inertia,
		converged: converged,
	}
}

// plusPlusInit picks the initial centroids with the k-means++ policy:
// first centre uniformly, each next one weighted by squared distance
// to the nearest centre already chosen.
func plusPlusInit(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(rows))
	centroids = append(centroids, append([]float64(nil), rows[first]...))

	dd := make([]float64, len(rows))
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			d := math.MaxFloat64
			for _, c := range centroids {
				if sq := vmath.SquaredEuclidean(row, c); sq < d {
					d = sq
				}
			}
			dd[i] = d
			total += d
		}
		next := first
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dd {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		} else {
			// all remaining points coincide with a centre
			next = rng.Intn(len(rows))
		}
		centroids = append(centroids, append([]float64(nil), rows[next]...))
	}
	return centroids
}

func recompute(rows [][]float64, labels []int, previous [][]float64) [][]float64 {
	k := len(previous)
	dim := len(rows[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := 0; c < k; c++ {
		sums[c] = make([]float64, dim)
	}
	for i, row := range rows {
		l := labels[i]
		counts[l]++
		for j, v := range row {
			sums[l][j] += v
		}
	}
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			// an emptied cluster keeps its previous centre
			centroids[c] = previous[c]
			continue
		}
		centroid := make([]float64, dim)
		for j := range centroid {
			centroid[j] = sums[c][j] / float64(counts[c])
		}
		centroids[c] = centroid
	}
	return centroids
}

// relabelBySize renumbers clusters by descending member count for cross-run
// comparability. Ties fall back to the original label order, so the mapping
// stays deterministic.
func relabelBySize(labels []int, centroids [][]float64, k int) ([]int, [][]float64) {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})

	mapping := make([]int, k)
	reordered := make([][]float64, k)
	for newLabel, oldLabel := range order {
		mapping[oldLabel] = newLabel
		reordered[newLabel] = centroids[oldLabel]
	}
	relabeled := make([]int, len(labels))
	for i, l := range labels {
		relabeled[i] = mapping[l]
	}
	return relabeled, reordered
}
