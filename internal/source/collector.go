package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/heirtrace/internal/cache"
	"github.com/ppiankov/heirtrace/internal/logger"
	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/worker"
)

// Outcome labels recorded per provider call
const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

// DefaultMaxParallel bounds concurrent provider calls
const DefaultMaxParallel = 4

// Collector queries providers concurrently and gathers their payloads.
// A failing provider becomes an error marker; collection itself never fails.
type Collector struct {
	providers   []Provider
	payloads    *cache.Payloads
	limiter     *worker.Limiter
	metrics     *metrics.Metrics
	maxParallel int
}

// Option configures a Collector
type Option func(*Collector)

// WithCache caches provider payloads in c
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(col *Collector) {
		col.payloads = cache.NewPayloads(c, ttl)
	}
}

// WithLimiter rate limits provider calls per source name
func WithLimiter(l *worker.Limiter) Option {
	return func(col *Collector) {
		col.limiter = l
	}
}

// WithMetrics records provider outcomes and cache lookups
func WithMetrics(m *metrics.Metrics) Option {
	return func(col *Collector) {
		col.metrics = m
	}
}

// WithMaxParallel bounds the number of concurrent provider calls
func WithMaxParallel(n int) Option {
	return func(col *Collector) {
		if n > 0 {
			col.maxParallel = n
		}
	}
}

// NewCollector creates a collector over providers
func NewCollector(providers []Provider, opts ...Option) *Collector {
	c := &Collector{
		providers:   providers,
		maxParallel: DefaultMaxParallel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns one result per provider that had something to say about
// q. Providers reporting ErrNotFound are left out.
func (c *Collector) Collect(ctx context.Context, q Query) map[string]model.SourceResult {
	var (
		mu      sync.Mutex
		results = make(map[string]model.SourceResult, len(c.providers))
	)

	var g errgroup.Group
	g.SetLimit(c.maxParallel)

	for _, p := range c.providers {
		g.Go(func() error {
			result, ok := c.lookup(ctx, p, q)
			if ok {
				mu.Lock()
				results[p.Name()] = result
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (c *Collector) lookup(ctx context.Context, p Provider, q Query) (model.SourceResult, bool) {
	name := p.Name()
	useCache := c.payloads != nil
	if cp, ok := p.(cacheable); ok && !cp.Cacheable() {
		useCache = false
	}

	key := cache.Key(name, q.Subject, q.Location)
	if useCache {
		rec, hit := c.payloads.Load(key)
		c.metrics.IncCacheLookup(hit)
		if hit {
			c.metrics.ObserveSource(name, OutcomeCached, 0)
			logger.Debug("source cache hit", "source", name)
			return model.Succeeded(rec), true
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, name); err != nil {
			c.metrics.ObserveSource(name, OutcomeError, 0)
			return model.Failed(err), true
		}
	}

	start := time.Now()
	rec, err := p.Lookup(ctx, q)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrNotFound):
		c.metrics.ObserveSource(name, OutcomeNotFound, elapsed)
		logger.Debug("source has no payload", "source", name, "subject", q.Subject)
		return model.SourceResult{}, false
	case err != nil:
		c.metrics.ObserveSource(name, OutcomeError, elapsed)
		logger.Warn("source lookup failed", "source", name, "error", err)
		return model.Failed(err), true
	case rec == nil:
		c.metrics.ObserveSource(name, OutcomeError, elapsed)
		return model.Failed(errors.New("empty payload")), true
	}

	c.metrics.ObserveSource(name, OutcomeOK, elapsed)
	if useCache {
		if err := c.payloads.Store(key, rec); err != nil {
			logger.Warn("source cache store failed", "source", name, "error", err)
		}
	}
	return model.Succeeded(rec), true
}
