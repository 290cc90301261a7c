package match

import (
	"regexp"
	"strings"
)

var (
	reAddrPunct = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	reZip       = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\s*$`)
	reHouseNum  = regexp.MustCompile(`^\d+[a-z]?$`)

	addressAbbreviations = []struct {
		re   *regexp.Regexp
		abbr string
	}{
		{regexp.MustCompile(`\bstreet\b`), "st"},
		{regexp.MustCompile(`\bavenue\b`), "ave"},
		{regexp.MustCompile(`\broad\b`), "rd"},
		{regexp.MustCompile(`\bdrive\b`), "dr"},
		{regexp.MustCompile(`\blane\b`), "ln"},
		{regexp.MustCompile(`\bboulevard\b`), "blvd"},
		{regexp.MustCompile(`\bcourt\b`), "ct"},
		{regexp.MustCompile(`\bcircle\b`), "cir"},
		{regexp.MustCompile(`\bplace\b`), "pl"},
		{regexp.MustCompile(`\bnorth\b`), "n"},
		{regexp.MustCompile(`\bsouth\b`), "s"},
		{regexp.MustCompile(`\beast\b`), "e"},
		{regexp.MustCompile(`\bwest\b`), "w"},
	}

	streetTypes = map[string]bool{
		"st": true, "ave": true, "rd": true, "dr": true, "ln": true, "blvd": true,
		"ct": true, "cir": true, "pl": true, "way": true, "pkwy": true, "hwy": true,
		"ter": true, "trl": true, "sq": true,
	}

	usStates = map[string]string{
		"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar", "california": "ca",
		"colorado": "co", "connecticut": "ct", "delaware": "de", "florida": "fl", "georgia": "ga",
		"hawaii": "hi", "idaho": "id", "illinois": "il", "indiana": "in", "iowa": "ia",
		"kansas": "ks", "kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
		"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms",
		"missouri": "mo", "montana": "mt", "nebraska": "ne", "nevada": "nv", "ohio": "oh",
		"oklahoma": "ok", "oregon": "or", "pennsylvania": "pa", "tennessee": "tn", "texas": "tx",
		"utah": "ut", "vermont": "vt", "virginia": "va", "washington": "wa", "wisconsin": "wi",
		"wyoming": "wy",
	}
	stateAbbrs = func() map[string]bool {
		m := map[string]bool{
			"nh": true, "nj": true, "nm": true, "ny": true, "nc": true, "nd": true,
			"ri": true, "sc": true, "sd": true, "wv": true, "dc": true,
		}
		for _, abbr := range usStates {
			m[abbr] = true
		}
		return m
	}()
)

// parsedAddress holds the components of a US street address
type parsedAddress struct {
	Number string
	Street string
	City   string
	State  string
	Zip    string
}

func (p parsedAddress) empty() bool {
	return p.Number == "" && p.Street == "" && p.City == "" && p.State == "" && p.Zip == ""
}

// MatchAddresses reports whether two postal addresses are the same place.
// Differing house numbers are a hard veto. Otherwise street (weight 1.5),
// city, state (exact) and zip (exact 1.0, different 0.5) are averaged.
func (m *Matcher) MatchAddresses(a, b string) (bool, float64) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false, 0
	}

	normA := NormalizeAddress(a)
	normB := NormalizeAddress(b)
	if normA == "" || normB == "" {
		return false, 0
	}
	if normA == normB {
		return true, 1.0
	}

	parsedA, okA := parseAddress(a)
	parsedB, okB := parseAddress(b)
	if okA && okB {
		if parsedA.Number != "" && parsedB.Number != "" && parsedA.Number != parsedB.Number {
			return false, 0
		}

		var scores []float64
		if parsedA.Street != "" && parsedB.Street != "" {
			scores = append(scores, m.StringSimilarity(parsedA.Street, parsedB.Street)*1.5)
		}
		if parsedA.City != "" && parsedB.City != "" {
			scores = append(scores, m.StringSimilarity(parsedA.City, parsedB.City))
		}
		if parsedA.State != "" && parsedB.State != "" {
			scores = append(scores, exactScore(parsedA.State, parsedB.State, 0))
		}
		if parsedA.Zip != "" && parsedB.Zip != "" {
			scores = append(scores, exactScore(parsedA.Zip, parsedB.Zip, 0.5))
		}

		if len(scores) > 0 {
			score := clamp01(mean(scores))
			return score >= m.AddressThreshold, score
		}
	}

	score := m.StringSimilarity(normA, normB)
	return score >= m.AddressThreshold, score
}

func exactScore(a, b string, mismatch float64) float64 {
	if a == b {
		return 1
	}
	return mismatch
}

// NormalizeAddress lowercases, abbreviates street types and directions and
// strips punctuation.
func NormalizeAddress(address string) string {
	addr := strings.ToLower(address)
	for _, r := range addressAbbreviations {
		addr = r.re.ReplaceAllString(addr, r.abbr)
	}
	addr = reAddrPunct.ReplaceAllString(addr, " ")
	return strings.Join(strings.Fields(addr), " ")
}

// parseAddress extracts house number, street, city, state and zip.
// Comma separated segments are used when present; otherwise the street ends
// at the first street-type token.
func parseAddress(raw string) (parsedAddress, bool) {
	var p parsedAddress

	raw = strings.TrimSpace(raw)
	if loc := reZip.FindStringSubmatchIndex(raw); loc != nil {
		p.Zip = raw[loc[2]:loc[3]]
		raw = strings.TrimSpace(raw[:loc[0]])
	}

	var segments [][]string
	for _, seg := range strings.Split(raw, ",") {
		if tokens := strings.Fields(NormalizeAddress(seg)); len(tokens) > 0 {
			segments = append(segments, tokens)
		}
	}
	if len(segments) == 0 {
		return p, !p.empty()
	}

	// State is the trailing token of the last segment
	last := segments[len(segments)-1]
	if state, n := trailingState(last); state != "" && !streetTypeTail(segments, n) {
		p.State = state
		last = last[:len(last)-n]
		if len(last) == 0 {
			segments = segments[:len(segments)-1]
		} else {
			segments[len(segments)-1] = last
		}
	}
	if len(segments) == 0 {
		return p, !p.empty()
	}

	street := segments[0]
	if reHouseNum.MatchString(street[0]) {
		p.Number = street[0]
		street = street[1:]
	}

	if len(segments) > 1 {
		p.Street = strings.Join(street, " ")
		var city []string
		for _, seg := range segments[1:] {
			city = append(city, seg...)
		}
		p.City = strings.Join(city, " ")
	} else {
		cut := len(street)
		for i, tok := range street {
			if streetTypes[tok] && i > 0 {
				cut = i + 1
				break
			}
		}
		// A trailing direction belongs to the street ("main st n")
		if cut < len(street) && isDirection(street[cut]) {
			cut++
		}
		p.Street = strings.Join(street[:cut], " ")
		p.City = strings.Join(street[cut:], " ")
	}

	if p.Number == "" && p.Street == "" {
		return p, false
	}
	return p, true
}

// trailingState returns the state abbreviation at the end of tokens and the
// number of tokens it spans. Two-word names are tried first so "w virginia"
// is not read as "virginia".
func trailingState(tokens []string) (string, int) {
	if len(tokens) == 0 {
		return "", 0
	}
	lastTok := tokens[len(tokens)-1]
	if len(tokens) >= 2 {
		pair := tokens[len(tokens)-2] + " " + lastTok
		if abbr, ok := twoWordStates[pair]; ok {
			return abbr, 2
		}
	}
	if len(lastTok) == 2 && stateAbbrs[lastTok] {
		return lastTok, 1
	}
	if abbr, ok := usStates[lastTok]; ok {
		return abbr, 1
	}
	return "", 0
}

// streetTypeTail reports whether a trailing state abbreviation that is also a
// street type ("ct") ends the street of a comma-free address, as in
// "123 main ct". It is a state only when an earlier street type closes the
// street first ("123 main st hartford ct").
func streetTypeTail(segments [][]string, n int) bool {
	if len(segments) != 1 || n != 1 {
		return false
	}
	tokens := segments[0]
	if !streetTypes[tokens[len(tokens)-1]] {
		return false
	}
	for i, tok := range tokens[:len(tokens)-1] {
		if i > 0 && streetTypes[tok] {
			return false
		}
	}
	return true
}

var twoWordStates = map[string]string{
	"new hampshire": "nh", "new jersey": "nj", "new mexico": "nm", "new york": "ny",
	"n carolina": "nc", "n dakota": "nd", "rhode island": "ri", "s carolina": "sc",
	"s dakota": "sd", "w virginia": "wv",
}

func isDirection(tok string) bool {
	switch tok {
	case "n", "s", "e", "w", "ne", "nw", "se", "sw":
		return true
	}
	return false
}
