package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// TTLCache memoizes call results keyed by canonicalized argument tuples.
// Expiry is explicit: entries older than the ttl are misses, and a
// background loop drops them so long-lived caches don't grow unbounded.
type TTLCache struct {
	mu   sync.RWMutex
	data map[string]*entry
	ttl  time.Duration
}

type entry struct {
	value any
	at    time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *TTLCache {
	c := &TTLCache{
		data: make(map[string]*entry),
		ttl:  ttl,
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a cached value if present and not expired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Since(e.at) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key, resetting its expiry clock.
func (c *TTLCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &entry{value: value, at: time.Now()}
}

// Purge removes all entries regardless of age.
func (c *TTLCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*entry)
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// cleanupLoop periodically removes expired entries.
func (c *TTLCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *TTLCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.data {
		if now.Sub(e.at) > c.ttl {
			delete(c.data, key)
		}
	}
}

// Key canonicalizes a stock-name set plus trailing arguments into a
// cache key: names are deduplicated and sorted so that call order and
// repeats don't split cache entries.
func Key(names []string, extra ...string) string {
	seen := make(map[string]struct{}, len(names))
	uniq := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}
	sort.Strings(uniq)

	parts := append(uniq, extra...)
	return strings.Join(parts, "|")
}
