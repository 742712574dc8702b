package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is the in-process fallback used when no redis address is
// configured. Entries expire lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	// now is injectable for tests
	now func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// NewMemoryCache creates an in-process TTL cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a live entry into target; expired entries are dropped.
func (c *MemoryCache) Get(ctx context.Context, key string, target any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.data, target); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value under key for the cache TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Close discards all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
