package math

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/helpintl/aid-cluster/internal/concurrent"
)

// Euclidean returns the euclidean distance of the two vectors.
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// SquaredEuclidean returns the squared euclidean distance of the two vectors.
func SquaredEuclidean(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// Mean returns the element-wise mean of the given vectors.
func Mean(vv [][]float64) []float64 {
	if len(vv) == 0 {
		return nil
	}
	mean := make([]float64, len(vv[0]))
	for _, v := range vv {
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vv)), mean)
	return mean
}

// Pairwise computes the full symmetric distance matrix for the given rows.
// Rows are processed in parallel, results land in their canonical slots.
func Pairwise(rows [][]float64) [][]float64 {
	n := len(rows)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	concurrent.Parallel(n, 0, func(i int) {
		for j := 0; j < n; j++ {
			if j <= i {
				continue
			}
			dist[i][j] = Euclidean(rows[i], rows[j])
		}
	})
	// mirror the upper triangle
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			dist[i][j] = dist[j][i]
		}
	}
	return dist
}

// ArgMin returns the index of the smallest value.
func ArgMin(vv []float64) int {
	min := math.MaxFloat64
	idx := -1
	for i, v := range vv {
		if v < min {
			min = v
			idx = i
		}
	}
	return idx
}
