package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pricewise/backend/internal/domain"
)

// cacheEntry pairs a stored result set with its expiration instant.
type cacheEntry struct {
	products   []domain.MatchedProduct
	expiration time.Time
}

// ResultCache is a thread-safe in-memory memoization of raw comparison
// result sets. Each key write is a single atomic replace under the lock,
// so readers never observe a partially written entry. TTL and the clock
// are injectable, so tests control expiry deterministically instead of
// sleeping against the wall clock.
type ResultCache struct {
	data  map[string]cacheEntry
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// Option customizes a ResultCache.
type Option func(*ResultCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		c.now = now
	}
}

// DefaultTTL is the memoization window for identical searches.
const DefaultTTL = 5 * time.Minute

// NewResultCache creates a result cache with the given TTL (DefaultTTL
// when non-positive) and starts a background sweep of expired entries.
func NewResultCache(ttl time.Duration, opts ...Option) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := &ResultCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns the cached result set for key, or ErrCacheMiss when absent
// or expired. The returned slice is the cached one; callers must treat
// its records as immutable.
func (c *ResultCache) Get(ctx context.Context, key string) ([]domain.MatchedProduct, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	if c.now().After(entry.expiration) {
		return nil, domain.ErrCacheMiss
	}
	return entry.products, nil
}

// Set replaces the entry for key with a fresh result set and timestamp.
func (c *ResultCache) Set(ctx context.Context, key string, products []domain.MatchedProduct) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheEntry{
		products:   products,
		expiration: c.now().Add(c.ttl),
	}
	return nil
}

// Delete removes the entry for key.
func (c *ResultCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of entries (for debugging/monitoring).
func (c *ResultCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheEntry)
}

// cleanupExpired removes expired entries periodically so abandoned
// search keys do not accumulate.
func (c *ResultCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := c.now()
		for key, entry := range c.data {
			if now.After(entry.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
