package services

import (
	"sync"
	"time"

	"homefinance/internal/models"
)

const (
	// DefaultPatternCacheTTL bounds how stale a cached detection result may
	// be. TTL expiry guarantees eventual consistency with the underlying
	// transactions within this window.
	DefaultPatternCacheTTL = 30 * time.Second
)

type patternCacheEntry struct {
	value     []models.RecurringPattern
	expiresAt time.Time
}

// PatternCache is a process-wide, short-TTL memoization of detection results
// keyed by canonicalized filter parameters. Entries are evicted lazily on the
// next lookup past expiry. Reset replaces the backing map wholesale so an
// in-flight computation storing into the old map cannot resurrect a stale
// entry.
type PatternCache struct {
	mu      sync.RWMutex
	entries map[string]patternCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewPatternCache creates a pattern cache with the given TTL and wall-clock time
func NewPatternCache(ttl time.Duration) *PatternCache {
	return NewPatternCacheWithClock(ttl, time.Now)
}

// NewPatternCacheWithClock creates a pattern cache with an injected clock so
// TTL expiry is deterministically testable
func NewPatternCacheWithClock(ttl time.Duration, now func() time.Time) *PatternCache {
	if ttl <= 0 {
		ttl = DefaultPatternCacheTTL
	}
	return &PatternCache{
		entries: make(map[string]patternCacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached value for key if present and unexpired. Expired
// entries are evicted on lookup.
func (c *PatternCache) Get(key string) ([]models.RecurringPattern, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have stored a
		// fresh entry for this key in the meantime.
		if current, stillThere := c.entries[key]; stillThere && !c.now().Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores value under key with a fresh TTL. Writes are atomic per key;
// last writer wins.
func (c *PatternCache) Set(key string, value []models.RecurringPattern) {
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	c.entries[key] = patternCacheEntry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Reset clears the cache synchronously by replacing the backing map
func (c *PatternCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]patternCacheEntry)
	c.mu.Unlock()
}

// Len returns the number of entries currently held, including any not yet
// lazily evicted
func (c *PatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
