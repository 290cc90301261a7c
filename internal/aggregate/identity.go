package aggregate

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/heirtrace/internal/match"
	"github.com/ppiankov/heirtrace/internal/model"
)

// identityNamespace scopes identity ids so the same normalized name always
// yields the same id
var identityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("heirtrace:identity"))

// IdentityID returns the deterministic id of a person name
func IdentityID(name string) string {
	norm := match.NormalizeName(name)
	if norm == "" {
		norm = strings.ToLower(strings.TrimSpace(name))
	}
	return uuid.NewSHA1(identityNamespace, []byte(norm)).String()
}

// NewIdentity creates an identity for a name with no sourced data yet
func NewIdentity(name string, confidence float64) model.CandidateIdentity {
	name = strings.TrimSpace(name)
	return model.CandidateIdentity{
		ID:                   IdentityID(name),
		DisplayName:          name,
		NormalizedNameTokens: match.NameTokens(name),
		Provenance:           []string{},
		BaseConfidence:       confidence,
	}
}

// Subject consolidates the bundle into the identity of the subject. The
// first reported name becomes the display name; addresses, phone numbers
// and emails are attached with their provenance.
func Subject(b model.ConsolidatedBundle) model.CandidateIdentity {
	if len(b.Names) == 0 {
		return model.CandidateIdentity{Provenance: []string{}}
	}

	id := NewIdentity(b.Names[0].Name, b.Names[0].Confidence)
	for _, n := range b.Names {
		for _, src := range n.Provenance {
			id.AddProvenance(src)
		}
		if n.Confidence > id.BaseConfidence {
			id.BaseConfidence = n.Confidence
		}
	}

	for _, a := range b.Addresses {
		id.Addresses = append(id.Addresses, model.SourcedValue{
			Value:      a.Address,
			Sources:    append([]string(nil), a.Provenance...),
			Confidence: a.Confidence,
		})
	}
	for _, p := range b.PhoneNumbers {
		id.PhoneNumbers = append(id.PhoneNumbers, model.SourcedValue{
			Value:      match.DigitsOnly(p.Number),
			Sources:    append([]string(nil), p.Provenance...),
			Confidence: p.Confidence,
		})
	}
	for _, e := range b.Emails {
		id.Emails = model.AppendUnique(id.Emails, e.Email)
	}
	return id
}

// Relatives returns one identity per consolidated relative, in bundle order
func Relatives(b model.ConsolidatedBundle) []model.CandidateIdentity {
	out := make([]model.CandidateIdentity, 0, len(b.Relatives))
	for _, r := range b.Relatives {
		id := NewIdentity(r.Name, r.Confidence)
		id.Relationship = r.Relationship
		for _, src := range r.Provenance {
			id.AddProvenance(src)
		}
		out = append(out, id)
	}
	return out
}
