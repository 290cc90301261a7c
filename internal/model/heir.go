package model

import "time"

// HeirClass marks whether a candidate belongs to the priority class of a case
type HeirClass string

const (
	HeirClassPrimary    HeirClass = "primary"
	HeirClassContingent HeirClass = "contingent"
)

// VerificationStatus tracks how far a candidate has been verified
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPartial    VerificationStatus = "partial"
	VerificationVerified   VerificationStatus = "verified"
	VerificationInvalid    VerificationStatus = "invalid"
)

// DegreeSource records where a relationship degree came from
type DegreeSource string

const (
	DegreeFromGraph DegreeSource = "graph" // Computed from pedigree edges
	DegreeFromLabel DegreeSource = "label" // Heuristic from the relationship label
	DegreeUnknown   DegreeSource = "none"
)

// HeirCandidate is a person inferred as possibly entitled to inherit.
// RelationshipDegree 0 means the degree is unknown; such candidates never
// join a priority class.
type HeirCandidate struct {
	IdentityRef        string             `json:"identity_ref"`
	PersonID           string             `json:"person_id,omitempty"` // Linked graph/person record
	Name               string             `json:"name"`
	FirstName          string             `json:"first_name,omitempty"`
	LastName           string             `json:"last_name,omitempty"`
	Relationship       string             `json:"relationship_label"`
	RelationshipDegree int                `json:"relationship_degree"`
	DegreeSource       DegreeSource       `json:"degree_source"`
	Probability        float64            `json:"base_probability,omitempty"` // Graph cascade probability
	FactorScores       FactorScores       `json:"factor_scores"`
	ConfidenceScore    float64            `json:"confidence_score"`
	IntestateShare     float64            `json:"intestate_share"`
	HeirClass          HeirClass          `json:"heir_class"`
	VerificationStatus VerificationStatus `json:"verification_status"`

	// Scoring inputs
	VerifiedDate         *time.Time `json:"verified_date,omitempty"`
	DataSources          []string   `json:"data_sources,omitempty"`
	RelationshipVerified bool       `json:"relationship_verified"`
	DocumentationExists  bool       `json:"documentation_exists"`
	Phone                string     `json:"phone,omitempty"`
	Email                string     `json:"email,omitempty"`
	Address              string     `json:"address,omitempty"`
	ContactVerified      bool       `json:"contact_verified"`
	ContactAttempts      int        `json:"contact_attempts"`
	ContactStatus        string     `json:"contact_status,omitempty"`
	DiscoveredBy         string     `json:"discovered_by,omitempty"`
	NameMatchScore       *float64   `json:"name_match_score,omitempty"` // 0-100
	LegalHeir            bool       `json:"legal_heir"`
}

// FactorScores holds the six named sub-scores, each 0-100
type FactorScores struct {
	RelationshipProximity float64 `json:"relationship_proximity"`
	DataVerification      float64 `json:"data_verification"`
	ContactInformation    float64 `json:"contact_information"`
	Documentation         float64 `json:"documentation"`
	NameMatchQuality      float64 `json:"name_match_quality"`
	LegalFactors          float64 `json:"legal_factors"`
}

// Get returns the sub-score for a factor
func (s FactorScores) Get(f Factor) float64 {
	switch f {
	case FactorRelationshipProximity:
		return s.RelationshipProximity
	case FactorDataVerification:
		return s.DataVerification
	case FactorContactInformation:
		return s.ContactInformation
	case FactorDocumentation:
		return s.Documentation
	case FactorNameMatchQuality:
		return s.NameMatchQuality
	case FactorLegalFactors:
		return s.LegalFactors
	default:
		return 0
	}
}

// ScoreBreakdown explains how a confidence score was assembled
type ScoreBreakdown struct {
	IdentityRef string            `json:"identity_ref"`
	Name        string            `json:"name"`
	Factors     []FactorBreakdown `json:"factors"`
	Total       float64           `json:"total_score"`
}

// FactorBreakdown is one line of a ScoreBreakdown
type FactorBreakdown struct {
	Factor   Factor  `json:"factor"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted_score"`
	Formula  string  `json:"formula"`
}

// CaseOutlook summarises a case for the success probability estimate
type CaseOutlook struct {
	HeirCount            int     `json:"heir_count"`
	AverageConfidence    float64 `json:"average_confidence"`    // 0-100
	ResearchCompleteness float64 `json:"research_completeness"` // 0-100
	OverageAmount        float64 `json:"overage_amount"`
	Complexity           string  `json:"complexity,omitempty"` // simple, moderate, complex
}
