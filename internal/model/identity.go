package model

// CandidateIdentity is a deduplicated person-like record built by the aggregator
// from one or more source payloads. Only Provenance grows after creation.
type CandidateIdentity struct {
	ID                   string         `json:"id"`
	DisplayName          string         `json:"display_name"`
	NormalizedNameTokens []string       `json:"normalized_name_tokens"`
	Relationship         string         `json:"relationship,omitempty"` // Label reported by the source (relatives only)
	Addresses            []SourcedValue `json:"addresses,omitempty"`
	PhoneNumbers         []SourcedValue `json:"phone_numbers,omitempty"` // Digit-only values
	Emails               []string       `json:"emails,omitempty"`
	Provenance           []string       `json:"provenance"`
	BaseConfidence       float64        `json:"base_confidence"` // 0-1, source assigned
}

// SourcedValue is a normalized value together with the sources that reported it
type SourcedValue struct {
	Value      string   `json:"value"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// AddProvenance appends source if it is not already recorded
func (c *CandidateIdentity) AddProvenance(source string) {
	c.Provenance = AppendUnique(c.Provenance, source)
}

// AppendUnique appends s to list unless it is empty or already present
func AppendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
