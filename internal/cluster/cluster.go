// Package cluster implements the unsupervised clustering variants of the
// engine: centroid (k-means), hierarchical (ward linkage) and density (dbscan).
// All variants expose the same capability, so that evaluation and ranking
// stay agnostic to which algorithm produced an assignment.
package cluster

import (
	"github.com/helpintl/aid-cluster/internal/model"
)

// Clusterer is the single capability shared by all clustering variants.
// A fit call produces a fresh immutable assignment; the fitted internal
// state stays private to the implementation.
type Clusterer interface {
	Fit(m *model.FeatureMatrix) (model.ClusterAssignment, error)
}
