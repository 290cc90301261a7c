// Package pipeline resolves a case end to end: it collects source payloads,
// consolidates them, builds the pedigree, assembles and scores heir
// candidates and renders the report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/heirtrace/internal/aggregate"
	"github.com/ppiankov/heirtrace/internal/cache"
	"github.com/ppiankov/heirtrace/internal/graph"
	"github.com/ppiankov/heirtrace/internal/llm"
	"github.com/ppiankov/heirtrace/internal/logger"
	"github.com/ppiankov/heirtrace/internal/match"
	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/score"
	"github.com/ppiankov/heirtrace/internal/source"
	"github.com/ppiankov/heirtrace/internal/worker"
)

// ErrNoSubject is returned for a case without a subject name
var ErrNoSubject = errors.New("case has no subject")

// Pipeline orchestrates case resolution
type Pipeline struct {
	config     *model.Config
	matcher    *match.Matcher
	aggregator *aggregate.Aggregator
	scorer     *score.Scorer
	cache      cache.Cache
	limiter    *worker.Limiter
	summarizer *llm.Summarizer // Optional narrative (nil if disabled)
	renderer   *Renderer
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMetrics records pipeline metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithSummarizer overrides the summarizer built from the LLM config
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) {
		p.summarizer = s
	}
}

// WithCache overrides the payload cache built from the cache config
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithClock sets the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	scorer, err := score.NewScorer(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}

	matcher := match.NewMatcher(
		match.WithThresholds(cfg.Matching.NameThreshold, cfg.Matching.AddressThreshold),
		match.WithMaxDuplicateBatch(cfg.Matching.MaxDuplicateBatch),
	)

	p := &Pipeline{
		config:   cfg,
		matcher:  matcher,
		scorer:   scorer,
		limiter:  worker.NewLimiter(cfg.Sources.RequestsPerSecond, cfg.Sources.BurstSize),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cache == nil {
		p.cache = cache.New(cfg.Cache)
	}
	if p.summarizer == nil && cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("failed to initialize LLM provider", "error", err)
		} else {
			p.summarizer = s.WithLimiter(p.limiter)
		}
	}
	p.aggregator = aggregate.New(aggregate.WithMatcher(matcher), aggregate.WithMetrics(p.metrics))

	return p, nil
}

// Scorer returns the pipeline's scorer
func (p *Pipeline) Scorer() *score.Scorer {
	return p.scorer
}

// Matcher returns the pipeline's identity matcher
func (p *Pipeline) Matcher() *match.Matcher {
	return p.matcher
}

// ResolveFile loads a case file and resolves it
func (p *Pipeline) ResolveFile(ctx context.Context, path string) (*model.Report, error) {
	c, err := LoadCase(path)
	if err != nil {
		p.metrics.IncCase("error")
		return nil, err
	}
	return p.Resolve(ctx, c)
}

// Resolve runs the complete case resolution. Source failures and data
// quality problems are reported as signals; only a malformed case or
// pedigree produces an error.
func (p *Pipeline) Resolve(ctx context.Context, c *model.Case) (*model.Report, error) {
	start := time.Now()
	report, err := p.resolve(ctx, c)
	p.metrics.ObserveResolve(time.Since(start))
	if err != nil {
		p.metrics.IncCase("error")
		return nil, err
	}
	p.metrics.IncCase("ok")
	return report, nil
}

func (p *Pipeline) resolve(ctx context.Context, c *model.Case) (*model.Report, error) {
	if c == nil || strings.TrimSpace(c.Subject) == "" {
		return nil, ErrNoSubject
	}

	// 1. Collect source payloads
	results := p.collector(c).Collect(ctx, source.Query{Subject: c.Subject, Location: c.Location})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	// 2. Consolidate
	bundle := p.aggregator.Aggregate(results)
	identity := aggregate.Subject(bundle)
	if identity.DisplayName == "" {
		identity = aggregate.NewIdentity(c.Subject, 0)
	}

	// 3. Pedigree
	var (
		g     *graph.Graph
		links []graph.HeirLink
	)
	if c.HasPedigree() {
		var err error
		g, err = graph.FromCase(c)
		if err != nil {
			return nil, fmt.Errorf("build pedigree: %w", err)
		}
		if p.config.Graph.MaxGenerations > 0 {
			g.MaxGenerations = p.config.Graph.MaxGenerations
		}
		links, err = g.IdentifyHeirs(c.DeceasedID)
		if err != nil {
			return nil, fmt.Errorf("identify heirs: %w", err)
		}
	}

	// 4. Assemble candidates
	asm := newAssembler(p.matcher, g, c.DeceasedID)
	if g != nil {
		asm.addLinks(links)
	}
	asm.addRelatives(aggregate.Relatives(bundle))
	asm.addManual(c.Heirs)
	asm.resolveDegrees()

	// 5. Shares, scores and ranking
	heirs := score.CalculateIntestateShares(asm.candidates)
	heirs = p.scorer.RankHeirs(heirs, true)

	report := &model.Report{
		Subject:     c.Subject,
		Location:    c.Location,
		GeneratedAt: p.now().UTC(),
		Identity:    identity,
		Bundle:      bundle,
		Heirs:       heirs,
		Breakdowns:  p.scorer.Breakdowns(heirs),
		Signals: score.Diagnose(score.CaseFacts{
			Heirs:           heirs,
			SourceErrors:    bundle.Errors,
			DegreeConflicts: asm.conflicts,
			DedupeSkipped:   asm.dedupeSkipped,
		}),
		Disclaimer: model.Disclaimer,
	}
	if report.Signals == nil {
		report.Signals = []model.Signal{}
	}
	if g != nil {
		snap := g.Snapshot()
		report.Graph = &snap
	}
	if c.Outlook != nil {
		o := score.OutlookFromHeirs(*c.Outlook, heirs)
		report.Outlook = &model.OutlookResult{Input: o, Probability: score.CaseSuccessProbability(o)}
	}

	primary := 0
	for _, h := range heirs {
		if h.HeirClass == model.HeirClassPrimary {
			primary++
		}
	}
	p.metrics.AddHeirs(string(model.HeirClassPrimary), primary)
	p.metrics.AddHeirs(string(model.HeirClassContingent), len(heirs)-primary)

	// 6. Narrative, after scoring; never affects scores
	if p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.GenerateSummary(ctx, *report)
		switch {
		case err != nil:
			p.metrics.IncNarrative("error")
			logger.Warn("LLM narrative failed", "subject", c.Subject, "error", err)
		case narrative != nil:
			report.LLM = narrative
			status := "ok"
			if !narrative.Enabled || narrative.SummaryMD == "" {
				status = "degraded"
			}
			p.metrics.IncNarrative(status)
		}
	}

	logger.Info("case resolved",
		"subject", c.Subject,
		"sources", len(bundle.Sources),
		"heirs", len(heirs),
		"primary", primary,
	)
	return report, nil
}

// collector builds the source collector for a case: inline payloads first,
// then pre-fetched payloads for configured sources the case does not inline
func (p *Pipeline) collector(c *model.Case) *source.Collector {
	providers := source.CaseProviders(c)
	if p.config.Sources.Dir != "" {
		var names []string
		for _, name := range p.config.Sources.Names {
			if _, inline := c.Sources[name]; !inline {
				names = append(names, name)
			}
		}
		providers = append(providers, source.DirProviders(p.config.Sources.Dir, names)...)
	}

	return source.NewCollector(providers,
		source.WithCache(p.cache, 0),
		source.WithLimiter(p.limiter),
		source.WithMetrics(p.metrics),
		source.WithMaxParallel(p.config.Sources.MaxParallel),
	)
}

// RenderReport renders the report to the requested outputs and prints a
// summary to stderr
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	return p.renderer.RenderAll(report, jsonPath, mdPath, verbose)
}
