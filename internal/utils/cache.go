package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of live session controllers held by
// the shared process cache.
const DefaultCacheSize = 512

type ttlEntry struct {
	data      interface{}
	expiresAt time.Time
}

// TTLCache layers per-entry expiry on top of a fixed-size LRU: the LRU
// bounds memory, the TTL bounds staleness. Expired entries are dropped
// lazily on read.
type TTLCache struct {
	entries *lru.Cache[string, ttlEntry]
}

// NewTTLCache builds a cache holding at most size entries.
// size must be positive.
func NewTTLCache(size int) *TTLCache {
	entries, err := lru.New[string, ttlEntry](size)
	if err != nil {
		panic(err)
	}
	return &TTLCache{entries: entries}
}

var (
	cacheInstance *TTLCache
	cacheOnce     sync.Once
)

// GetCache returns the shared process cache.
func GetCache() *TTLCache {
	cacheOnce.Do(func() {
		cacheInstance = NewTTLCache(DefaultCacheSize)
	})
	return cacheInstance
}

// Set stores data under key for the given TTL.
func (c *TTLCache) Set(key string, data interface{}, ttl time.Duration) {
	c.entries.Add(key, ttlEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached value, or nil when absent or expired.
func (c *TTLCache) Get(key string) interface{} {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil
	}
	return entry.data
}

// Delete removes one key.
func (c *TTLCache) Delete(key string) {
	c.entries.Remove(key)
}

// Len reports the number of entries currently held, expired or not.
func (c *TTLCache) Len() int {
	return c.entries.Len()
}
