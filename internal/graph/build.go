package graph

import (
	"fmt"

	"github.com/ppiankov/heirtrace/internal/model"
)

// FromCase builds the pedigree graph of a case. Relationship records without
// a confidence default to 1.0; "child" records are stored as reversed parent
// edges.
func FromCase(c *model.Case) (*Graph, error) {
	g := New()
	for _, p := range c.Persons {
		attrs := map[string]string{"name": p.Name}
		if p.BirthDate != "" {
			attrs["birth_date"] = p.BirthDate
		}
		if p.DeathDate != "" {
			attrs["death_date"] = p.DeathDate
		}
		if p.Deceased {
			attrs["deceased"] = "true"
		}
		g.AddPerson(p.ID, attrs)
	}

	for i, r := range c.Relationships {
		typ, reversed, err := ParseRelationType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("relationship %d (%s -> %s): %w", i, r.From, r.To, err)
		}
		from, to := r.From, r.To
		if reversed {
			from, to = to, from
		}
		confidence := 1.0
		if r.Confidence != nil {
			confidence = *r.Confidence
		}
		if err := g.AddRelationship(from, to, typ, confidence); err != nil {
			return nil, fmt.Errorf("relationship %d: %w", i, err)
		}
	}
	return g, nil
}
