package eval

import (
	"github.com/helpintl/aid-cluster/internal/model"
)

// Agreement computes the adjusted rand index between two assignments of the
// same records: the chance-corrected agreement over co-clustered pairs.
// It validates that independently derived assignments describe the same
// structure; comparing an assignment to itself returns 1.
func Agreement(a, b model.ClusterAssignment) (float64, error) {
	if a.Len() != b.Len() {
		return 0, model.DataShapeError{Reason: "assignments cover different record counts"}
	}
	if a.Len() == 0 {
		return 0, model.DataShapeError{Reason: "no records"}
	}
	if a.Len() == 1 {
		return 1, nil
	}

	n := a.Len()
	contingency := make(map[[2]int]int)
	rows := make(map[int]int)
	cols := make(map[int]int)
	for i := 0; i < n; i++ {
		la, lb := a.Labels[i], b.Labels[i]
		contingency[[2]int{la, lb}]++
		rows[la]++
		cols[lb]++
	}

	index := 0.0
	for _, c := range contingency {
		index += comb2(c)
	}
	sumRows := 0.0
	for _, c := range rows {
		sumRows += comb2(c)
	}
	sumCols := 0.0
	for _, c := range cols {
		sumCols += comb2(c)
	}

	pairs := comb2(n)
	expected := sumRows * sumCols / pairs
	max := (sumRows + sumCols) / 2

	if max == expected {
		// both partitions are degenerate (all singletons or one cluster)
		return 1, nil
	}
	return (index - expected) / (max - expected), nil
}

func comb2(n int) float64 {
	return float64(n) * float64(n-1) / 2
}
