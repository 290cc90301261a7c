package model

import "sort"

// Case is one research case: a deceased owner, the source payloads gathered
// about them, any known pedigree and manually entered heir records.
type Case struct {
	Subject       string                `json:"subject" yaml:"subject"`
	Location      string                `json:"location,omitempty" yaml:"location,omitempty"`
	DeceasedID    string                `json:"deceased_id,omitempty" yaml:"deceased_id,omitempty"`
	Sources       map[string]CaseSource `json:"sources,omitempty" yaml:"sources,omitempty"`
	Persons       []PersonRecord        `json:"persons,omitempty" yaml:"persons,omitempty"`
	Relationships []RelationshipRecord  `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Heirs         []Record              `json:"heirs,omitempty" yaml:"heirs,omitempty"`
	Outlook       *CaseOutlook          `json:"outlook,omitempty" yaml:"outlook,omitempty"`
}

// CaseSource is an inline source payload. A non-empty Error marks a source
// that failed to return data.
type CaseSource struct {
	SourceRecord `yaml:",inline"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// PersonRecord is a node of the case pedigree
type PersonRecord struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	BirthDate string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty" yaml:"death_date,omitempty"`
	Deceased  bool   `json:"deceased,omitempty" yaml:"deceased,omitempty"`
}

// RelationshipRecord is an edge of the case pedigree
type RelationshipRecord struct {
	From       string   `json:"from" yaml:"from"`
	To         string   `json:"to" yaml:"to"`
	Type       string   `json:"type" yaml:"type"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// SourceResults converts the inline sources into aggregator input
func (c *Case) SourceResults() map[string]SourceResult {
	out := make(map[string]SourceResult, len(c.Sources))
	for name, src := range c.Sources {
		if src.Error != "" {
			out[name] = SourceResult{Error: src.Error}
			continue
		}
		rec := src.SourceRecord
		out[name] = Succeeded(&rec)
	}
	return out
}

// SourceNames returns the inline source names in sorted order
func (c *Case) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPedigree reports whether the case carries graph data
func (c *Case) HasPedigree() bool {
	return c.DeceasedID != "" && len(c.Relationships) > 0
}
