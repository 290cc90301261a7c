package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Strategy scores the similarity of two strings in [0,1]
type Strategy interface {
	Name() string
	Similarity(a, b string) float64
}

// LevenshteinRatio is 1 - editDistance/maxLength
type LevenshteinRatio struct{}

// Name returns the strategy name
func (LevenshteinRatio) Name() string { return "levenshtein_ratio" }

// Similarity returns the normalized edit-distance similarity
func (LevenshteinRatio) Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// TokenSortRatio compares strings after sorting their whitespace tokens,
// so word order does not matter ("smith john" vs "john smith").
type TokenSortRatio struct{}

// Name returns the strategy name
func (TokenSortRatio) Name() string { return "token_sort_ratio" }

// Similarity returns the edit-distance ratio of the token-sorted strings
func (TokenSortRatio) Similarity(a, b string) float64 {
	return LevenshteinRatio{}.Similarity(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// JaroWinkler favours strings sharing a common prefix
type JaroWinkler struct {
	BoostThreshold float64
	PrefixSize     int
}

// Name returns the strategy name
func (JaroWinkler) Name() string { return "jaro_winkler" }

// Similarity returns the Jaro-Winkler similarity
func (j JaroWinkler) Similarity(a, b string) float64 {
	boost := j.BoostThreshold
	if boost == 0 {
		boost = 0.7
	}
	prefix := j.PrefixSize
	if prefix == 0 {
		prefix = 4
	}
	return smetrics.JaroWinkler(a, b, boost, prefix)
}

// Ensemble takes the best score of its registered strategies
type Ensemble struct {
	strategies []Strategy
}

// NewEnsemble creates an ensemble over the given strategies
func NewEnsemble(strategies ...Strategy) *Ensemble {
	return &Ensemble{strategies: strategies}
}

// DefaultEnsemble returns the edit-distance, token-sort and Jaro-Winkler ensemble
func DefaultEnsemble() *Ensemble {
	return NewEnsemble(LevenshteinRatio{}, TokenSortRatio{}, JaroWinkler{})
}

// Register adds a strategy, replacing any strategy with the same name
func (e *Ensemble) Register(s Strategy) {
	for i, existing := range e.strategies {
		if existing.Name() == s.Name() {
			e.strategies[i] = s
			return
		}
	}
	e.strategies = append(e.strategies, s)
}

// Strategies returns the registered strategy names
func (e *Ensemble) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Name returns the strategy name
func (e *Ensemble) Name() string { return "ensemble" }

// Similarity returns the maximum similarity over all strategies
func (e *Ensemble) Similarity(a, b string) float64 {
	best := 0.0
	for _, s := range e.strategies {
		if score := clamp01(s.Similarity(a, b)); score > best {
			best = score
		}
	}
	return best
}

// compare lowercases and trims both inputs, short-circuits empty and equal
// strings, then defers to the strategy.
func compare(s Strategy, a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return clamp01(s.Similarity(a, b))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
