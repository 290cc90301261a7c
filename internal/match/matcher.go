// Package match decides whether harvested names, addresses and phone numbers
// describe the same person or place, and groups duplicate records.
//
// All functions are pure; a Matcher may be shared across goroutines.
package match

// Default thresholds
const (
	DefaultNameThreshold     = 0.90
	DefaultAddressThreshold  = 0.85
	DefaultMaxDuplicateBatch = 5000
)

// Matcher holds thresholds and the similarity strategy used for fuzzy comparison
type Matcher struct {
	NameThreshold     float64
	AddressThreshold  float64
	MaxDuplicateBatch int
	similarity        Strategy
}

// Option configures a Matcher
type Option func(*Matcher)

// WithThresholds overrides the name and address thresholds. Values outside
// (0,1] are ignored.
func WithThresholds(name, address float64) Option {
	return func(m *Matcher) {
		if name > 0 && name <= 1 {
			m.NameThreshold = name
		}
		if address > 0 && address <= 1 {
			m.AddressThreshold = address
		}
	}
}

// WithStrategy replaces the similarity strategy
func WithStrategy(s Strategy) Option {
	return func(m *Matcher) {
		if s != nil {
			m.similarity = s
		}
	}
}

// WithMaxDuplicateBatch bounds the input size of FindDuplicatesChecked
func WithMaxDuplicateBatch(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.MaxDuplicateBatch = n
		}
	}
}

// NewMatcher creates a matcher with default thresholds and the default ensemble
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		NameThreshold:     DefaultNameThreshold,
		AddressThreshold:  DefaultAddressThreshold,
		MaxDuplicateBatch: DefaultMaxDuplicateBatch,
		similarity:        DefaultEnsemble(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StringSimilarity compares two strings with the configured strategy
func (m *Matcher) StringSimilarity(a, b string) float64 {
	return compare(m.similarity, a, b)
}
