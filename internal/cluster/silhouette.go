package cluster

import (
	"math"

	"github.com/helpintl/aid-cluster/internal/model"
)

// Silhouette returns the mean silhouette coefficient of the assignment over
// the given pairwise distance matrix: per point the cohesion to its own
// cluster against the separation from the nearest other cluster, in [-1, 1].
// Noise points and degenerate cases (single cluster, singleton clusters)
// score zero, matching the usual convention.
func Silhouette(a model.ClusterAssignment, dist [][]float64) float64 {
	clusters := a.Clusters()
	if len(clusters) < 2 {
		return 0
	}

	members := make(map[int][]int)
	for i, l := range a.Labels {
		if l == model.Noise {
			continue
		}
		members[l] = append(members[l], i)
	}

	total := 0.0
	count := 0
	for i, l := range a.Labels {
		if l == model.Noise {
			continue
		}
		count++

		own := members[l]
		if len(own) < 2 {
			continue // singleton scores zero
		}

		cohesion := 0.0
		for _, j := range own {
			if j != i {
				cohesion += dist[i][j]
			}
		}
		cohesion /= float64(len(own) - 1)

		separation := math.MaxFloat64
		for _, other := range clusters {
			if other == l {
				continue
			}
			sum := 0.0
			for _, j := range members[other] {
				sum += dist[i][j]
			}
			if mean := sum / float64(len(members[other])); mean < separation {
				separation = mean
			}
		}

		if max := math.Max(cohesion, separation); max > 0 {
			total += (separation - cohesion) / max
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}
