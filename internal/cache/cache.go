// Package cache provides a TTL-bound memoization layer for upstream
// lookups (event resolution, market data, player averages).
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sgp-builder/internal/metrics"
)

// DefaultTTL bounds how long upstream lookups are reused.
const DefaultTTL = 15 * time.Minute

// Clock supplies the current time. Injectable so tests control expiry.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// entry pairs a cached value with the time it was stored. Expiry is
// checked against the injected clock on read, not by go-cache's janitor,
// so a fake clock fully controls TTL behavior in tests.
type entry struct {
	value    any
	storedAt time.Time
}

// ResultCache memoizes expensive computations by string key. Entries are
// evicted lazily on the read that finds them stale; there is no
// background sweep. Concurrent callers hitting the same expired key may
// both recompute — duplicate upstream calls are tolerated.
type ResultCache struct {
	store *gocache.Cache
	ttl   time.Duration
	clock Clock

	mu     sync.RWMutex
	hits   uint64
	misses uint64
}

// New creates a ResultCache with the given TTL, or DefaultTTL when ttl
// is not positive. A nil clock means the system clock.
func New(ttl time.Duration, clock Clock) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ResultCache{
		store: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		clock: clock,
	}
}

// GetOrCompute returns the cached value for key when it is still within
// the cache TTL, otherwise invokes compute, stores the fresh value and
// returns it. Errors from compute are returned without being cached.
func (c *ResultCache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	return c.GetOrComputeTTL(key, c.ttl, compute)
}

// GetOrComputeTTL is GetOrCompute with a per-call TTL override.
func (c *ResultCache) GetOrComputeTTL(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	now := c.clock.Now()

	if raw, found := c.store.Get(key); found {
		e := raw.(entry)
		if now.Sub(e.storedAt) <= ttl {
			c.recordHit()
			return e.value, nil
		}
		// Stale entry: evict now, recompute below.
		c.store.Delete(key)
	}

	c.recordMiss()
	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.store.Set(key, entry{value: value, storedAt: now}, gocache.NoExpiration)
	metrics.CachedEntries.Set(float64(c.store.ItemCount()))
	return value, nil
}

// Flush drops every entry and resets the hit counters.
func (c *ResultCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Flush()
	c.hits = 0
	c.misses = 0
	metrics.CachedEntries.Set(0)
}

// Stats returns hit and miss counts since the last flush.
func (c *ResultCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// ItemCount returns the number of stored entries, stale ones included.
func (c *ResultCache) ItemCount() int {
	return c.store.ItemCount()
}

func (c *ResultCache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	metrics.CacheHitsTotal.Inc()
}

func (c *ResultCache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	metrics.CacheMissesTotal.Inc()
}
