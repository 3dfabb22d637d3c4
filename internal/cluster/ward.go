package cluster

import (
	vmath "github.com/helpintl/aid-cluster/internal/math"
	"github.com/helpintl/aid-cluster/internal/metrics"
	"github.com/helpintl/aid-cluster/internal/model"
)

// Merge is one agglomeration step of the hierarchical clusterer.
// A and B are the cluster ids being merged: leaves are 0..n-1, the cluster
// created by merge with Order o gets id n+o.
type Merge struct {
	Order int     `json:"order"`
	A     int     `json:"a"`
	B     int     `json:"b"`
	Cost  float64 `json:"cost"`
}

// MergeTree encodes the full agglomeration order from singletons to one root.
type MergeTree struct {
	Leaves int      `json:"leaves"`
	Names  []string `json:"names"`
	Merges []Merge  `json:"merges"`
}

// Hierarchical is the ward-linkage agglomerative clusterer.
type Hierarchical struct {
	k    int
	tree *MergeTree
}

// NewHierarchical creates a hierarchical clusterer cutting at the given count.
func NewHierarchical(k int) *Hierarchical {
	return &Hierarchical{k: k}
}

// Tree returns the merge tree of the last fit.
func (h *Hierarchical) Tree() *MergeTree {
	return h.tree
}

// Fit builds the merge tree and cuts it at the configured cluster count.
func (h *Hierarchical) Fit(m *model.FeatureMatrix) (model.ClusterAssignment, error) {
	tree, err := BuildTree(m)
	if err != nil {
		return model.ClusterAssignment{}, err
	}
	h.tree = tree
	return tree.Cut(h.k)
}

type wardCluster struct {
	id       int
	size     int
	centroid []float64
}

// BuildTree agglomerates the records with ward linkage: at each step the two
// clusters whose merger yields the minimum increase in total within-cluster
// variance are joined, until one cluster remains.
// Ties break by the ascending id pair of the clusters involved,
// so that cuts stay reproducible.
func BuildTree(m *model.FeatureMatrix) (*MergeTree, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	n := m.Len()
	active := make([]*wardCluster, 0, n)
	for i, row := range m.Rows {
		active = append(active, &wardCluster{
			id:       i,
			size:     1,
			centroid: append([]float64(nil), row...),
		})
	}

	merges := make([]Merge, 0, n-1)
	for step := 0; len(active) > 1; step++ {
		bi, bj := -1, -1
		best := 0.0
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				cost := wardCost(active[i], active[j])
				lo, hi := pairOf(active[i].id, active[j].id)
				if bi < 0 || cost < best {
					bi, bj, best = i, j, cost
					continue
				}
				if cost == best {
					blo, bhi := pairOf(active[bi].id, active[bj].id)
					if lo < blo || (lo == blo && hi < bhi) {
						bi, bj = i, j
					}
				}
			}
		}

		a, b := active[bi], active[bj]
		lo, hi := pairOf(a.id, b.id)
		merged := &wardCluster{
			id:       n + step,
			size:     a.size + b.size,
			centroid: weightedCentroid(a, b),
		}
		merges = append(merges, Merge{Order: step, A: lo, B: hi, Cost: best})

		// drop the higher slice index first to keep bi valid
		active = append(active[:bj], active[bj+1:]...)
		active = append(active[:bi], active[bi+1:]...)
		active = append(active, merged)
	}

	metrics.Observer.IncrementFit("ward")

	return &MergeTree{
		Leaves: n,
		Names:  append([]string(nil), m.Names...),
		Merges: merges,
	}, nil
}

// Cut undoes the last k-1 merges and labels the resulting clusters in order
// of their first member record.
func (t *MergeTree) Cut(k int) (model.ClusterAssignment, error) {
	if k < 1 {
		return model.ClusterAssignment{}, model.ConfigurationError{Param: "k", Value: k, Reason: "must be positive"}
	}
	if k > t.Leaves {
		return model.ClusterAssignment{}, model.ConfigurationError{
			Param:  "k",
			Value:  k,
			Reason: "more clusters than records",
		}
	}

	parent := make([]int, t.Leaves+len(t.Merges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	// applying the first n-k merges leaves exactly k clusters
	for step := 0; step < t.Leaves-k; step++ {
		m := t.Merges[step]
		root := t.Leaves + m.Order
		parent[find(m.A)] = root
		parent[find(m.B)] = root
	}

	labels := make([]int, t.Leaves)
	next := 0
	seen := make(map[int]int)
	for i := 0; i < t.Leaves; i++ {
		root := find(i)
		label, ok := seen[root]
		if !ok {
			label = next
			seen[root] = label
			next++
		}
		labels[i] = label
	}
	return model.NewClusterAssignment(t.Names, labels), nil
}

// wardCost is the increase in total within-cluster variance caused by
// merging the two clusters.
func wardCost(a, b *wardCluster) float64 {
	na, nb := float64(a.size), float64(b.size)
	return na * nb / (na + nb) * vmath.SquaredEuclidean(a.centroid, b.centroid)
}

func weightedCentroid(a, b *wardCluster) []float64 {
	na, nb := float64(a.size), float64(b.size)
	centroid := make([]float64, len(a.centroid))
	for i := range centroid {
		centroid[i] = (na*a.centroid[i] + nb*b.centroid[i]) / (na + nb)
	}
	return centroid
}

func pairOf(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
