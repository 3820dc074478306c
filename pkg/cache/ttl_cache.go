// Package cache provides a thread-safe cache with per-entry time-based expiration.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value  V
	stored time.Time
}

// TTLCache is a thread-safe cache whose entries expire ttl after they were stored.
type TTLCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
	ttl  time.Duration
	now  func() time.Time
}

// New creates a new TTLCache with the given TTL duration.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]entry[V]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves a value from the cache.
// Returns the zero value and ok=false if the key doesn't exist or its entry expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || c.expiredLocked(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache, restarting its TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		c.data = make(map[K]entry[V])
	}
	c.data[key] = entry[V]{value: value, stored: c.now()}
}

// Delete removes a key from the cache.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Prune drops every expired entry and returns how many were removed.
func (c *TTLCache[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.data {
		if c.expiredLocked(e) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// expiredLocked MUST be called with at least a read lock held.
func (c *TTLCache[K, V]) expiredLocked(e entry[V]) bool {
	return c.now().Sub(e.stored) >= c.ttl
}

// Invalidate clears all cached data.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]entry[V])
}

// Len returns the number of items currently in the cache.
// This does not check expiration - it returns the count even if expired.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
