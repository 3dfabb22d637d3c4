package cluster

import (
	"github.com/helpintl/aid-cluster/internal/model"
	"github.com/helpintl/aid-cluster/internal/storage"
)

// KMeansSnapshot is the serializable state of a fitted centroid model.
// Reloading reproduces identical Predict behaviour for unseen vectors.
type KMeansSnapshot struct {
	K         int         `json:"k"`
	Seed      int64       `json:"seed"`
	Centroids [][]float64 `json:"centroids"`
	Inertia   float64     `json:"inertia"`
}

// Snapshot exports the fitted state of the centroid model.
func (km *KMeans) Snapshot() KMeansSnapshot {
	return KMeansSnapshot{
		K:         km.k,
		Seed:      km.seed,
		Centroids: km.centroids,
		Inertia:   km.inertia,
	}
}

// FromSnapshot restores a centroid model from persisted state.
func FromSnapshot(s KMeansSnapshot) *KMeans {
	km := NewKMeans(s.K, s.Seed)
	km.centroids = s.Centroids
	km.inertia = s.Inertia
	return km
}

// DBScanSnapshot is the serializable state of a fitted density model.
type DBScanSnapshot struct {
	Eps        float64     `json:"eps"`
	MinSamples int         `json:"min_samples"`
	Cores      [][]float64 `json:"cores"`
	CoreLabels []int       `json:"core_labels"`
}

// Snapshot exports the fitted state of the density model.
func (db *DBScan) Snapshot() DBScanSnapshot {
	return DBScanSnapshot{
		Eps:        db.eps,
		MinSamples: db.minSamples,
		Cores:      db.cores,
		CoreLabels: db.coreLabels,
	}
}

// FromDBScanSnapshot restores a density model from persisted state.
func FromDBScanSnapshot(s DBScanSnapshot) *DBScan {
	db := NewDBScan(s.Eps, s.MinSamples)
	db.cores = s.Cores
	db.coreLabels = s.CoreLabels
	return db
}

// SaveKMeans persists the fitted centroid model under the matrix fingerprint.
func SaveKMeans(store storage.Persistence, m *model.FeatureMatrix, km *KMeans) error {
	return store.Store(storage.Key{Hash: m.Fingerprint(), Name: "kmeans", Label: "model"}, km.Snapshot())
}

// LoadKMeans restores a previously persisted centroid model.
func LoadKMeans(store storage.Persistence, m *model.FeatureMatrix) (*KMeans, error) {
	var s KMeansSnapshot
	if err := store.Load(storage.Key{Hash: m.Fingerprint(), Name: "kmeans", Label: "model"}, &s); err != nil {
		return nil, err
	}
	return FromSnapshot(s), nil
}

// SaveTree persists the merge tree under the matrix fingerprint.
func SaveTree(store storage.Persistence, m *model.FeatureMatrix, tree *MergeTree) error {
	return store.Store(storage.Key{Hash: m.Fingerprint(), Name: "ward", Label: "tree"}, tree)
}

// LoadTree restores a previously persisted merge tree.
func LoadTree(store storage.Persistence, m *model.FeatureMatrix) (*MergeTree, error) {
	tree := new(MergeTree)
	if err := store.Load(storage.Key{Hash: m.Fingerprint(), Name: "ward", Label: "tree"}, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// SaveDBScan persists the fitted density model under the matrix fingerprint.
func SaveDBScan(store storage.Persistence, m *model.FeatureMatrix, db *DBScan) error {
	return store.Store(storage.Key{Hash: m.Fingerprint(), Name: "dbscan", Label: "model"}, db.Snapshot())
}

// LoadDBScan restores a previously persisted density model.
func LoadDBScan(store storage.Persistence, m *model.FeatureMatrix) (*DBScan, error) {
	var s DBScanSnapshot
	if err := store.Load(storage.Key{Hash: m.Fingerprint(), Name: "dbscan", Label: "model"}, &s); err != nil {
		return nil, err
	}
	return FromDBScanSnapshot(s), nil
}
