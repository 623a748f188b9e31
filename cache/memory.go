package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  string
	stored time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCache creates an in-memory cache whose entries expire after
// ttlSeconds. Zero or negative means entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) expired(e entry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.stored) > c.ttl
}

// Get retrieves a value. Expired entries are removed and reported as a miss.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.expired(e, c.now()) {
		c.mu.Lock()
		// Another Set may have refreshed the entry meanwhile
		if cur, ok := c.entries[key]; ok && cur.stored.Equal(e.stored) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, stored: c.now()}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Entries returns a copy of all live entries.
func (c *InMemoryCache) Entries() (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	result := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if c.expired(e, now) {
			continue
		}
		result[key] = e.value
	}
	return result, nil
}

// Verify InMemoryCache implements Enumerable
var _ Enumerable = (*InMemoryCache)(nil)
