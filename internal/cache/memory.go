package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps encoded source payloads in process memory for the
// lifetime of a run. Entries are copied on the way in and out, so a caller
// decoding or patching a payload never alters what later cases read.
type MemoryCache struct {
	payloads *gocache.Cache
}

// NewMemoryCache creates a payload cache whose entries expire after
// defaultTTL unless Set names another ttl. A janitor purges expired
// payloads every cleanupInterval; zero disables it.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{payloads: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns a copy of the payload stored under key
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.payloads.Get(key)
	if !found {
		return nil, false
	}
	payload, ok := val.([]byte)
	if !ok {
		c.payloads.Delete(key)
		return nil, false
	}
	return clone(payload), true
}

// Set stores a copy of payload under key. A zero ttl uses the default expiry.
func (c *MemoryCache) Set(key string, payload []byte, ttl time.Duration) error {
	c.payloads.Set(key, clone(payload), ttl)
	return nil
}

// Delete drops the payload stored under key
func (c *MemoryCache) Delete(key string) error {
	c.payloads.Delete(key)
	return nil
}

// Clear drops every payload
func (c *MemoryCache) Clear() error {
	c.payloads.Flush()
	return nil
}

// Len returns the number of payloads held, including expired ones the
// janitor has not purged yet
func (c *MemoryCache) Len() int {
	return c.payloads.ItemCount()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
