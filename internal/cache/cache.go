package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/heirtrace/internal/model"
)

// Cache maps a key to a value with an expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates the cache key of a source lookup. Subject and location are
// case and whitespace insensitive.
func Key(source, subject, location string) string {
	parts := []string{source, normalizeKeyPart(subject), normalizeKeyPart(location)}
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "heirtrace:v1:" + hex.EncodeToString(hash[:])
}

func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// New builds the cache described by cfg: a memory layer in front of a disk
// layer, or a no-op cache when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
