package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/heirtrace/internal/model"
)

// Payloads stores source records as JSON in an underlying cache
type Payloads struct {
	cache Cache
	ttl   time.Duration
}

// NewPayloads wraps c. A zero ttl uses the cache's default expiry.
func NewPayloads(c Cache, ttl time.Duration) *Payloads {
	if c == nil {
		c = Nop{}
	}
	return &Payloads{cache: c, ttl: ttl}
}

// Load returns the cached record for key. Undecodable entries are evicted
// and reported as misses.
func (p *Payloads) Load(key string) (*model.SourceRecord, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var rec model.SourceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &rec, true
}

// Store caches rec under key
func (p *Payloads) Store(key string, rec *model.SourceRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.cache.Set(key, data, p.ttl); err != nil {
		return fmt.Errorf("store payload: %w", err)
	}
	return nil
}
