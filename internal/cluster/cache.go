package cluster

import (
	"fmt"
	"sync"

	"github.com/helpintl/aid-cluster/internal/metrics"
	"github.com/helpintl/aid-cluster/internal/model"
)

// Cache memoizes fitted assignments behind an explicit key of
// feature-matrix fingerprint plus algorithm parameters.
// Invalidation is explicit; there is no ambient package state.
type Cache struct {
	mutex   sync.RWMutex
	entries map[string]model.ClusterAssignment
}

// NewCache creates an empty model cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]model.ClusterAssignment),
	}
}

// CacheKey builds the cache key for a matrix and a parameter signature.
func CacheKey(m *model.FeatureMatrix, algorithm string, params string) string {
	return fmt.Sprintf("%s_%d_%s", algorithm, m.Fingerprint(), params)
}

// Get returns the memoized assignment for the key, if any.
func (c *Cache) Get(key string) (model.ClusterAssignment, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	a, ok := c.entries[key]
	metrics.Observer.IncrementCache(ok)
	return a, ok
}

// Put memoizes an assignment under the given key.
func (c *Cache) Put(key string, a model.ClusterAssignment) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = a
}

// Invalidate drops the entry for the given key.
func (c *Cache) Invalidate(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
}

// Reset drops all entries.
func (c *Cache) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]model.ClusterAssignment)
}
