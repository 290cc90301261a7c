// Package score computes explainable heir confidence scores, intestate
// shares and case diagnostics. Every function is pure and deterministic.
package score

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/heirtrace/internal/model"
)

// Scorer combines the six factor scores with a validated weight vector
type Scorer struct {
	weights model.ScoreWeights
}

// NewScorer creates a scorer, rejecting weights that do not sum to 1.0
func NewScorer(weights model.ScoreWeights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// NewDefaultScorer creates a scorer with the default weights
func NewDefaultScorer() *Scorer {
	return &Scorer{weights: model.DefaultWeights()}
}

// Weights returns the weight vector in use
func (s *Scorer) Weights() model.ScoreWeights {
	return s.weights
}

// Score returns the six factor scores of a candidate, each 0-100
func (s *Scorer) Score(h model.HeirCandidate) model.FactorScores {
	return model.FactorScores{
		RelationshipProximity: relationshipProximity(h).score,
		DataVerification:      dataVerification(h).score,
		ContactInformation:    contactInformation(h).score,
		Documentation:         documentation(h).score,
		NameMatchQuality:      nameMatchQuality(h).score,
		LegalFactors:          legalFactors(h).score,
	}
}

// CalculateHeirScore returns the weighted confidence score, 0-100, rounded
// to two decimals
func (s *Scorer) CalculateHeirScore(h model.HeirCandidate) float64 {
	return s.total(s.Score(h))
}

func (s *Scorer) total(fs model.FactorScores) float64 {
	total := 0.0
	for _, f := range model.Factors {
		total += fs.Get(f) * s.weights.Weight(f)
	}
	return round2(clamp(total, 0, 100))
}

// Apply scores h in place, filling FactorScores and ConfidenceScore
func (s *Scorer) Apply(h *model.HeirCandidate) {
	h.FactorScores = s.Score(*h)
	h.ConfidenceScore = s.total(h.FactorScores)
}

// factorResult is a factor score with the formula and inputs that produced it
type factorResult struct {
	score   float64
	formula string
}

// relationshipProximity scores the closeness of the relationship (0-100)
func relationshipProximity(h model.HeirCandidate) factorResult {
	if score, ok := LabelScore(h.Relationship); ok {
		return factorResult{
			score:   score,
			formula: fmt.Sprintf("keyword(%q) = %.0f", h.Relationship, score),
		}
	}

	if d := h.RelationshipDegree; d > 0 {
		var score float64
		switch d {
		case 1:
			score = 100
		case 2:
			score = 85
		case 3:
			score = 70
		case 4:
			score = 55
		default:
			score = math.Max(30, float64(100-15*d))
		}
		return factorResult{
			score:   score,
			formula: fmt.Sprintf("degree_table(%d) = %.0f", d, score),
		}
	}

	return factorResult{score: 30, formula: "unknown relationship = 30"}
}

// dataVerification scores verification status and cross-referencing (0-100)
func dataVerification(h model.HeirCandidate) factorResult {
	var base float64
	status := strings.ToLower(string(h.VerificationStatus))
	switch {
	case status == string(model.VerificationVerified):
		base = 100
	case status == string(model.VerificationPartial):
		base = 60
	case strings.Contains(status, string(model.VerificationUnverified)):
		base = 20
	default:
		base = 30
	}

	raw := base
	dated := 0.0
	if h.VerifiedDate != nil {
		dated = 10
	}
	sources := math.Min(float64(len(h.DataSources))*10, 40)
	relVerified := 0.0
	if h.RelationshipVerified {
		relVerified = 20
	}
	docs := 0.0
	if h.DocumentationExists {
		docs = 20
	}
	raw += dated + sources + relVerified + docs

	return factorResult{
		score: math.Min(raw/2, 100),
		formula: fmt.Sprintf("min((status %.0f + dated %.0f + sources %.0f + relationship_verified %.0f + documentation %.0f) / 2, 100)",
			base, dated, sources, relVerified, docs),
	}
}

// contactInformation scores the availability of contact details (0-100)
func contactInformation(h model.HeirCandidate) factorResult {
	var score float64
	var parts []string
	add := func(points float64, what string) {
		score += points
		parts = append(parts, fmt.Sprintf("%s %.0f", what, points))
	}

	if strings.TrimSpace(h.Phone) != "" {
		add(30, "phone")
		if h.ContactVerified {
			add(20, "verified")
		}
	}
	if strings.TrimSpace(h.Email) != "" {
		add(25, "email")
	}
	if strings.TrimSpace(h.Address) != "" {
		add(25, "address")
	}
	if h.ContactAttempts > 0 {
		add(10, "attempted")
	}
	if responded(h.ContactStatus) {
		add(30, "responded")
	}

	if len(parts) == 0 {
		return factorResult{score: 0, formula: "no contact information = 0"}
	}
	return factorResult{
		score:   math.Min(score, 100),
		formula: fmt.Sprintf("min(%s, 100)", strings.Join(parts, " + ")),
	}
}

// responded reports whether a contact status says the heir responded or is
// interested. A negation ("not interested") does not count.
func responded(status string) bool {
	tokens := words(status)
	if tokens["not"] || tokens["no"] {
		return false
	}
	return tokens["responded"] || tokens["interested"]
}

// documentation scores supporting documentation and discovery method (0-100)
func documentation(h model.HeirCandidate) factorResult {
	score := 40.0
	parts := []string{"base 40"}

	if h.DocumentationExists {
		score += 30
		parts = append(parts, "documentation 30")
	}
	if len(h.DataSources) > 0 {
		score += 20
		parts = append(parts, "sources 20")
	}

	method := words(h.DiscoveredBy)
	switch {
	case method["manual"] || method["verified"]:
		score += 20
		parts = append(parts, "manual 20")
	case method["pdf"] || method["document"] || method["documents"]:
		score += 15
		parts = append(parts, "document 15")
	case method["ai"] || method["llm"]:
		score += 10
		parts = append(parts, "ai 10")
	}

	return factorResult{
		score:   math.Min(score, 100),
		formula: fmt.Sprintf("min(%s, 100)", strings.Join(parts, " + ")),
	}
}

// nameMatchQuality scores how well the name was matched (0-100)
func nameMatchQuality(h model.HeirCandidate) factorResult {
	if h.NameMatchScore != nil {
		score := clamp(*h.NameMatchScore, 0, 100)
		return factorResult{score: score, formula: fmt.Sprintf("precomputed match = %.2f", score)}
	}
	if utf8.RuneCountInString(strings.TrimSpace(h.Name)) < 3 {
		return factorResult{score: 20, formula: "name missing or too short = 20"}
	}
	if h.FirstName != "" && h.LastName != "" {
		return factorResult{score: 80, formula: "first and last name parsed = 80"}
	}
	return factorResult{score: 60, formula: "name present = 60"}
}

// legalFactors scores legal standing (0-100)
func legalFactors(h model.HeirCandidate) factorResult {
	score := 50.0
	parts := []string{"base 50"}

	if h.LegalHeir {
		score += 30
		parts = append(parts, "legal_heir 30")
	}
	if h.IntestateShare > 0 {
		score += 20
		parts = append(parts, "share 20")
	}
	if h.PersonID != "" {
		score += 10
		parts = append(parts, "person_linked 10")
	}

	return factorResult{
		score:   math.Min(score, 100),
		formula: fmt.Sprintf("min(%s, 100)", strings.Join(parts, " + ")),
	}
}

func words(s string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
