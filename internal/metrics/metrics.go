// Package metrics holds the Prometheus instruments of the resolution
// pipeline. All methods are safe on a nil *Metrics, so callers that do not
// care about metrics can pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for source collection, aggregation and scoring
type Metrics struct {
	// Source lookups by source and outcome (ok, error, cached)
	SourceOutcome *prometheus.CounterVec

	// Source lookup latency by source
	SourceLatency *prometheus.HistogramVec

	// Entries dropped as duplicates by field (address, phone, relative, name, email)
	Deduplicated *prometheus.CounterVec

	// Cache lookups by result (hit, miss)
	CacheLookups *prometheus.CounterVec

	// Resolved cases by status (ok, error)
	CasesResolved *prometheus.CounterVec

	// Heir candidates by class (primary, contingent)
	HeirCandidates *prometheus.CounterVec

	// Full case resolution latency
	ResolveLatency prometheus.Histogram

	// Narrative requests by status (ok, error, rejected)
	NarrativeRequests *prometheus.CounterVec
}

// New creates the instruments and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourceOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_source_lookups_total",
			Help: "Source lookups by source and outcome",
		}, []string{"source", "outcome"}),

		SourceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heirtrace_source_lookup_duration_seconds",
			Help:    "Duration of source lookups by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		Deduplicated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_deduplicated_entries_total",
			Help: "Bundle entries merged into an existing entry, by field",
		}, []string{"field"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_cache_lookups_total",
			Help: "Payload cache lookups by result",
		}, []string{"result"}),

		CasesResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_cases_resolved_total",
			Help: "Resolved cases by status",
		}, []string{"status"}),

		HeirCandidates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_heir_candidates_total",
			Help: "Heir candidates produced by class",
		}, []string{"class"}),

		ResolveLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "heirtrace_resolve_duration_seconds",
			Help:    "Duration of full case resolution including source collection",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),

		NarrativeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirtrace_narrative_requests_total",
			Help: "LLM narrative requests by status",
		}, []string{"status"}),
	}
}

// ObserveSource records the outcome and duration of a source lookup
func (m *Metrics) ObserveSource(source, outcome string, d time.Duration) {
	if m != nil {
		m.SourceOutcome.WithLabelValues(source, outcome).Inc()
		m.SourceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// AddDeduplicated counts entries merged away for a field
func (m *Metrics) AddDeduplicated(field string, n int) {
	if m != nil && n > 0 {
		m.Deduplicated.WithLabelValues(field).Add(float64(n))
	}
}

// IncCacheLookup records a cache hit or miss
func (m *Metrics) IncCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// IncCase records a resolved case
func (m *Metrics) IncCase(status string) {
	if m != nil {
		m.CasesResolved.WithLabelValues(status).Inc()
	}
}

// AddHeirs counts heir candidates of a class
func (m *Metrics) AddHeirs(class string, n int) {
	if m != nil && n > 0 {
		m.HeirCandidates.WithLabelValues(class).Add(float64(n))
	}
}

// ObserveResolve records a full resolution duration
func (m *Metrics) ObserveResolve(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

// IncNarrative records a narrative request outcome
func (m *Metrics) IncNarrative(status string) {
	if m != nil {
		m.NarrativeRequests.WithLabelValues(status).Inc()
	}
}
