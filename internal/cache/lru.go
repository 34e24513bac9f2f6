// Package cache provides the dispatcher's capability result cache.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache is a thread-safe LRU of capability outputs keyed by the
// dispatcher's operation/corpus digest.
type ResultCache struct {
	cache *lru.Cache[string, string]
}

// NewResultCache creates a cache holding at most maxItems outputs.
func NewResultCache(maxItems int) (*ResultCache, error) {
	c, err := lru.New[string, string](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: c}, nil
}

// Get returns the cached output for key.
func (c *ResultCache) Get(key string) (string, bool) {
	return c.cache.Get(key)
}

// Add stores an output, evicting the least recently used entry when full.
func (c *ResultCache) Add(key, value string) {
	c.cache.Add(key, value)
}

// Len returns the current number of items in the cache.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *ResultCache) Purge() {
	c.cache.Purge()
}
