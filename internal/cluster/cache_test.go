package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpintl/aid-cluster/internal/model"
)

func TestCache_PutGetInvalidate(t *testing.T) {
	m := triples()
	cache := NewCache()

	key := CacheKey(m, "kmeans", "k=2_seed=42")
	_, ok := cache.Get(key)
	assert.False(t, ok)

	assignment, err := NewKMeans(2, 42).Fit(m)
	require.NoError(t, err)
	cache.Put(key, assignment)

	got, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Equal(t, assignment, got)

	cache.Invalidate(key)
	_, ok = cache.Get(key)
	assert.False(t, ok)
}

func TestCache_KeySeparatesParams(t *testing.T) {
	m := triples()
	assert.NotEqual(t,
		CacheKey(m, "kmeans", "k=2_seed=42"),
		CacheKey(m, "kmeans", "k=3_seed=42"))
	assert.NotEqual(t,
		CacheKey(m, "kmeans", "k=2_seed=42"),
		CacheKey(m, "dbscan", "k=2_seed=42"))
}

func TestCache_KeyTracksMatrix(t *testing.T) {
	a := triples()
	b := blobs(1, 2, [][]float64{{0, 0}, {3, 3}})
	assert.NotEqual(t,
		CacheKey(a, "kmeans", "k=2_seed=42"),
		CacheKey(b, "kmeans", "k=2_seed=42"))
}

func TestCache_Reset(t *testing.T) {
	cache := NewCache()
	cache.Put("a", model.ClusterAssignment{Names: []string{"x"}, Labels: []int{0}})
	cache.Put("b", model.ClusterAssignment{Names: []string{"y"}, Labels: []int{0}})

	cache.Reset()

	_, ok := cache.Get("a")
	assert.False(t, ok)
	_, ok = cache.Get("b")
	assert.False(t, ok)
}
