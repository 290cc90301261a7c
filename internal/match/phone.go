package match

import "strings"

// MatchPhoneNumbers reports whether two phone numbers have identical digits.
// There is no fuzzy middle ground: the score is 1.0 or 0.0.
func (m *Matcher) MatchPhoneNumbers(a, b string) (bool, float64) {
	da := DigitsOnly(a)
	db := DigitsOnly(b)
	if da == "" || db == "" || da != db {
		return false, 0
	}
	return true, 1.0
}

// DigitsOnly strips everything but ASCII digits
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
