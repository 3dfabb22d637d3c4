package cluster

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpintl/aid-cluster/internal/model"
	"github.com/helpintl/aid-cluster/internal/storage/file/json"
)

// triples builds six two-dimensional points forming two separated triples.
func triples() *model.FeatureMatrix {
	m, err := model.NewFeatureMatrix(
		[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
		[]string{"x", "y"},
		[][]float64{
			{0, 0},
			{0.1, 0},
			{0, 0.1},
			{10, 10},
			{10.1, 10},
			{10, 10.1},
		},
	)
	if err != nil {
		panic(err)
	}
	return m
}

// blobs samples points around well separated centres.
func blobs(seed int64, perBlob int, centres [][]float64) *model.FeatureMatrix {
	rng := rand.New(rand.NewSource(seed))
	names := make([]string, 0, perBlob*len(centres))
	rows := make([][]float64, 0, perBlob*len(centres))
	for b, centre := range centres {
		for i := 0; i < perBlob; i++ {
			row := make([]float64, len(centre))
			for j, c := range centre {
				row[j] = c + rng.NormFloat64()*0.3
			}
			names = append(names, fmt.Sprintf("p_%d_%d", b, i))
			rows = append(rows, row)
		}
	}
	columns := make([]string, len(centres[0]))
	for j := range columns {
		columns[j] = fmt.Sprintf("f%d", j)
	}
	m, err := model.NewFeatureMatrix(names, columns, rows)
	if err != nil {
		panic(err)
	}
	return m
}

func TestKMeans_SeparatesTriples(t *testing.T) {
	m := triples()

	km := NewKMeans(2, 42)
	assignment, err := km.Fit(m)
	require.NoError(t, err)

	labels := assignment.Map()
	assert.Equal(t, labels["a1"], labels["a2"])
	assert.Equal(t, labels["a1"], labels["a3"])
	assert.Equal(t, labels["b1"], labels["b2"])
	assert.Equal(t, labels["b1"], labels["b3"])
	assert.NotEqual(t, labels["a1"], labels["b1"])
}

func TestKMeans_Idempotent(t *testing.T) {
	m := blobs(11, 20, [][]float64{{0, 0, 0}, {5, 5, 5}, {-5, 5, 0}})

	first, err := NewKMeans(3, 42).Fit(m)
	require.NoError(t, err)
	second, err := NewKMeans(3, 42).Fit(m)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
}

func TestKMeans_RelabelBySize(t *testing.T) {
	// two separated groups of different size
	m, err := model.NewFeatureMatrix(
		[]string{"a1", "a2", "b1", "b2", "b3", "b4"},
		[]string{"x"},
		[][]float64{{0}, {0.1}, {10}, {10.1}, {10.2}, {10.3}},
	)
	require.NoError(t, err)

	assignment, err := NewKMeans(2, 42).Fit(m)
	require.NoError(t, err)

	sizes := assignment.Sizes()
	assert.Equal(t, 4, sizes[0])
	assert.Equal(t, 2, sizes[1])
	// the larger group carries label 0
	assert.Equal(t, 0, assignment.Map()["b1"])
}

func TestKMeans_TooFewRecords(t *testing.T) {
	m, err := model.NewFeatureMatrix(
		[]string{"a", "b"},
		[]string{"x"},
		[][]float64{{0}, {1}},
	)
	require.NoError(t, err)

	_, err = NewKMeans(3, 42).Fit(m)
	var cfgErr model.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "k", cfgErr.Param)
}

func TestKMeans_ConvergenceWarning(t *testing.T) {
	m := blobs(7, 30, [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}})

	// a single iteration cannot stabilise overlapping blobs
	assignment, err := NewKMeans(4, 42).WithIterations(1).WithRestarts(1).Fit(m)
	var warn model.ConvergenceWarning
	assert.True(t, errors.As(err, &warn))
	assert.Equal(t, 4, warn.K)
	// the result is still a full assignment
	assert.Equal(t, m.Len(), assignment.Len())
}

func TestKMeans_PredictMatchesFit(t *testing.T) {
	m := triples()

	km := NewKMeans(2, 42)
	assignment, err := km.Fit(m)
	require.NoError(t, err)

	for i, row := range m.Rows {
		label, err := km.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, assignment.Labels[i], label)
	}

	_, err = km.Predict([]float64{1, 2, 3})
	var cfgErr model.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestKMeans_SnapshotRoundTrip(t *testing.T) {
	m := triples()

	km := NewKMeans(2, 42)
	_, err := km.Fit(m)
	require.NoError(t, err)

	store := json.NewLocalStorage()
	require.NoError(t, SaveKMeans(store, m, km))

	restored, err := LoadKMeans(store, m)
	require.NoError(t, err)
	assert.Equal(t, km.Centroids(), restored.Centroids())

	for _, row := range [][]float64{{0.05, 0.05}, {9.9, 10.2}} {
		want, err := km.Predict(row)
		require.NoError(t, err)
		got, err := restored.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
