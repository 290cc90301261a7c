// Package aggregate merges per-source payloads about a subject into one
// consolidated bundle and derives candidate identities from it.
//
// Aggregation never fails: a source that errored is recorded in the bundle
// and the remaining sources are still merged.
package aggregate

import (
	"sort"
	"strings"

	"github.com/ppiankov/heirtrace/internal/match"
	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
)

// Aggregator merges source payloads using a matcher for address dedup
type Aggregator struct {
	matcher *match.Matcher
	metrics *metrics.Metrics
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithMatcher sets the matcher used to deduplicate addresses
func WithMatcher(m *match.Matcher) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.matcher = m
		}
	}
}

// WithMetrics records dedup counts on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// New creates an aggregator with the default matcher
func New(opts ...Option) *Aggregator {
	a := &Aggregator{matcher: match.NewMatcher()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate merges payloads with a default aggregator
func Aggregate(payloads map[string]model.SourceResult) model.ConsolidatedBundle {
	return New().Aggregate(payloads)
}

// Aggregate merges payloads in sorted source order. Every entry is tagged
// with its source and the default confidence of its field type unless the
// source supplied one. Addresses are deduplicated with the address matcher,
// phone numbers by their digits, names and relatives by case-insensitive
// exact name. A duplicate adds its source to the kept entry's provenance.
func (a *Aggregator) Aggregate(payloads map[string]model.SourceResult) model.ConsolidatedBundle {
	b := model.ConsolidatedBundle{
		Names:        []model.NameEntry{},
		Relatives:    []model.RelativeEntry{},
		Addresses:    []model.AddressEntry{},
		PhoneNumbers: []model.PhoneEntry{},
		Emails:       []model.EmailEntry{},
		Ages:         []model.AgeEntry{},
		VitalRecords: []model.VitalRecord{},
		Sources:      []string{},
	}

	sources := make([]string, 0, len(payloads))
	for name := range payloads {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	m := newMerger(a.matcher)
	for _, source := range sources {
		res := payloads[source]
		if !res.OK() {
			if b.Errors == nil {
				b.Errors = make(map[string]string)
			}
			msg := res.Error
			if msg == "" {
				msg = "empty payload"
			}
			b.Errors[source] = msg
			continue
		}
		b.Sources = append(b.Sources, source)
		m.add(&b, source, res.Record)
	}
	m.dropSubjectRelatives(&b)

	for field, n := range m.dropped {
		a.metrics.AddDeduplicated(field, n)
	}
	return b
}

// merger holds the dedup indexes of one aggregation run
type merger struct {
	matcher   *match.Matcher
	names     map[string]int // lowercased name -> index in Names
	relatives map[string]int // lowercased name -> index in Relatives
	phones    map[string]int // digits -> index in PhoneNumbers
	emails    map[string]int // lowercased email -> index in Emails
	dropped   map[string]int
}

func newMerger(m *match.Matcher) *merger {
	return &merger{
		matcher:   m,
		names:     make(map[string]int),
		relatives: make(map[string]int),
		phones:    make(map[string]int),
		emails:    make(map[string]int),
		dropped:   make(map[string]int),
	}
}

func (m *merger) add(b *model.ConsolidatedBundle, source string, rec *model.SourceRecord) {
	if name := strings.TrimSpace(rec.Name); name != "" {
		key := strings.ToLower(name)
		if idx, ok := m.names[key]; ok {
			b.Names[idx].Provenance = model.AppendUnique(b.Names[idx].Provenance, source)
			m.dropped["name"]++
		} else {
			m.names[key] = len(b.Names)
			b.Names = append(b.Names, model.NameEntry{
				Name:       name,
				Source:     source,
				Provenance: []string{source},
				Confidence: model.NameConfidence,
			})
		}
	}

	for _, rel := range rec.Relatives {
		m.addRelative(b, source, rel)
	}

	for _, addr := range rec.Addresses {
		m.addAddress(b, source, addr)
	}

	for _, phone := range rec.PhoneNumbers {
		digits := match.DigitsOnly(phone)
		if digits == "" {
			continue
		}
		if idx, ok := m.phones[digits]; ok {
			b.PhoneNumbers[idx].Provenance = model.AppendUnique(b.PhoneNumbers[idx].Provenance, source)
			m.dropped["phone"]++
			continue
		}
		m.phones[digits] = len(b.PhoneNumbers)
		b.PhoneNumbers = append(b.PhoneNumbers, model.PhoneEntry{
			Number:     strings.TrimSpace(phone),
			Source:     source,
			Provenance: []string{source},
			Confidence: model.PhoneConfidence,
		})
	}

	for _, email := range rec.Emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			continue
		}
		if _, ok := m.emails[key]; ok {
			m.dropped["email"]++
			continue
		}
		m.emails[key] = len(b.Emails)
		b.Emails = append(b.Emails, model.EmailEntry{Email: strings.TrimSpace(email), Source: source})
	}

	if age := strings.TrimSpace(rec.AgeRange); age != "" {
		b.Ages = append(b.Ages, model.AgeEntry{Range: age, Source: source})
	}

	if rec.Dates != nil || len(rec.CemeteryInfo) > 0 {
		vr := model.VitalRecord{Source: source, CemeteryInfo: append([]string(nil), rec.CemeteryInfo...)}
		if rec.Dates != nil {
			vr.Dates = *rec.Dates
		}
		b.VitalRecords = append(b.VitalRecords, vr)
	}
}

// addRelative dedups relatives by case-insensitive exact name. Similar but
// different names are kept apart so distinct relatives are never merged.
func (m *merger) addRelative(b *model.ConsolidatedBundle, source string, rel model.RelativeRecord) {
	name := strings.TrimSpace(rel.Name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if idx, ok := m.relatives[key]; ok {
		kept := &b.Relatives[idx]
		kept.Provenance = model.AppendUnique(kept.Provenance, source)
		if kept.Relationship == "" {
			kept.Relationship = strings.TrimSpace(rel.Relationship)
		}
		m.dropped["relative"]++
		return
	}

	m.relatives[key] = len(b.Relatives)
	b.Relatives = append(b.Relatives, model.RelativeEntry{
		Name:         name,
		Relationship: strings.TrimSpace(rel.Relationship),
		Source:       source,
		Provenance:   []string{source},
		Confidence:   confidenceOr(rel.Confidence, model.RelativeConfidence),
	})
}

// addAddress keeps the first of any set of matching addresses
func (m *merger) addAddress(b *model.ConsolidatedBundle, source string, addr model.AddressRecord) {
	text := strings.TrimSpace(addr.Address)
	if text == "" {
		return
	}
	for i := range b.Addresses {
		kept := &b.Addresses[i]
		if ok, _ := m.matcher.MatchAddresses(text, kept.Address); ok {
			kept.Provenance = model.AppendUnique(kept.Provenance, source)
			if kept.Years == "" {
				kept.Years = addr.Years
			}
			m.dropped["address"]++
			return
		}
	}
	b.Addresses = append(b.Addresses, model.AddressEntry{
		Address:    text,
		Years:      addr.Years,
		Source:     source,
		Provenance: []string{source},
		Confidence: confidenceOr(addr.Confidence, model.AddressConfidence),
	})
}

// dropSubjectRelatives removes relatives that are the subject under one of
// its reported names
func (m *merger) dropSubjectRelatives(b *model.ConsolidatedBundle) {
	if len(m.names) == 0 {
		return
	}
	kept := b.Relatives[:0]
	for _, rel := range b.Relatives {
		if _, isSubject := m.names[strings.ToLower(rel.Name)]; isSubject {
			m.dropped["relative"]++
			continue
		}
		kept = append(kept, rel)
	}
	b.Relatives = kept
}

func confidenceOr(c *float64, def float64) float64 {
	if c == nil || *c < 0 || *c > 1 {
		return def
	}
	return *c
}
