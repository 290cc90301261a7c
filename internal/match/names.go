package match

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reNamePunct = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

	nameSuffixes = map[string]bool{
		"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
		"esq": true, "phd": true, "md": true,
	}
	nameTitles = map[string]bool{
		"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true,
	}
)

// personName is a name split into components, all normalized
type personName struct {
	First  string
	Middle string
	Last   string
}

// MatchNames reports whether two person names refer to the same person.
// Names are normalized first; an exact normalized match scores 1.0. Otherwise
// first, middle and last names are compared component-wise, with the last
// name weighted 1.2 and the middle name 0.8.
func (m *Matcher) MatchNames(a, b string) (bool, float64) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false, 0
	}

	normA := NormalizeName(a)
	normB := NormalizeName(b)
	if normA == "" || normB == "" {
		return false, 0
	}
	if normA == normB {
		return true, 1.0
	}

	parsedA, okA := parseName(a)
	parsedB, okB := parseName(b)

	var scores []float64
	if okA && okB {
		if parsedA.First != "" && parsedB.First != "" {
			scores = append(scores, m.StringSimilarity(parsedA.First, parsedB.First))
		}
		if parsedA.Last != "" && parsedB.Last != "" {
			scores = append(scores, m.StringSimilarity(parsedA.Last, parsedB.Last)*1.2)
		}
		if parsedA.Middle != "" && parsedB.Middle != "" {
			scores = append(scores, m.StringSimilarity(parsedA.Middle, parsedB.Middle)*0.8)
		}
	}

	if len(scores) > 0 {
		score := clamp01(mean(scores))
		return score >= m.NameThreshold, score
	}

	score := m.StringSimilarity(normA, normB)
	return score >= m.NameThreshold, score
}

// NormalizeName collapses whitespace, strips punctuation except internal
// hyphens, lowercases and drops generational suffixes.
func NormalizeName(name string) string {
	return strings.Join(nameTokens(name), " ")
}

// NameTokens returns the normalized tokens of a name in order
func NameTokens(name string) []string {
	return nameTokens(name)
}

func nameTokens(name string) []string {
	cleaned := reNamePunct.ReplaceAllString(strings.ToLower(name), "")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f == "" || nameSuffixes[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// parseName splits a raw name into first/middle/last. "Last, First Middle"
// is recognised. Titles are dropped. Returns false when nothing is left.
func parseName(raw string) (personName, bool) {
	var tokens []string
	if before, after, found := strings.Cut(raw, ","); found && len(nameTokens(after)) > 0 && len(nameTokens(before)) > 0 {
		rest := stripTitles(nameTokens(after))
		last := stripTitles(nameTokens(before))
		tokens = append(rest, last...)
	} else {
		tokens = stripTitles(nameTokens(raw))
	}

	switch len(tokens) {
	case 0:
		return personName{}, false
	case 1:
		return personName{First: tokens[0]}, true
	case 2:
		return personName{First: tokens[0], Last: tokens[1]}, true
	default:
		return personName{
			First:  tokens[0],
			Middle: strings.Join(tokens[1:len(tokens)-1], " "),
			Last:   tokens[len(tokens)-1],
		}, true
	}
}

// SplitName returns the first and last name of a raw name, if parseable,
// in the casing of the input
func SplitName(raw string) (first, last string) {
	parsed, ok := parseName(raw)
	if !ok {
		return "", ""
	}
	return originalCase(raw, parsed.First), originalCase(raw, parsed.Last)
}

// originalCase returns the word of raw that normalizes to token
func originalCase(raw, token string) string {
	if token == "" {
		return ""
	}
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	for _, w := range words {
		if strings.Join(nameTokens(w), " ") == token {
			return strings.Trim(w, ".")
		}
	}
	return token
}

func stripTitles(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if nameTitles[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
