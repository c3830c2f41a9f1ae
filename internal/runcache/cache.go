// Package runcache provides a per-run memoizing lookup cache placed in front
// of the data provider. A cache lives for exactly one simulation run and must
// never be shared across concurrent runs.
package runcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a value from the data provider on a cache miss.
type FetchFunc func(ctx context.Context) (any, error)

// Cache memoizes fetched values by full key string. Concurrent requests for
// the same uncached key share a single in-flight fetch. Errors are not
// cached; a failed key is fetched again on the next request.
type Cache struct {
	mu     sync.RWMutex
	values map[string]any
	group  singleflight.Group
}

// New creates an empty per-run cache.
func New() *Cache {
	return &Cache{values: make(map[string]any)}
}

// GetOrFetch returns the cached value for key, fetching and memoizing it on
// first use. The fetch runs at most once per key regardless of how many
// agents request it concurrently.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.RLock()
	value, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have populated the
		// key between the read lock and Do.
		c.mu.RLock()
		cached, ok := c.values[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.values[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Contains reports whether key is already memoized.
func (c *Cache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

// Len returns the number of memoized keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
