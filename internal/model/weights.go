package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when a weight vector does not sum to 1.0
var ErrInvalidWeights = errors.New("invalid score weights")

const weightTolerance = 1e-9

// Factor names one of the six scoring factors
type Factor string

const (
	FactorRelationshipProximity Factor = "relationship_proximity"
	FactorDataVerification      Factor = "data_verification"
	FactorContactInformation    Factor = "contact_information"
	FactorDocumentation         Factor = "documentation"
	FactorNameMatchQuality      Factor = "name_match_quality"
	FactorLegalFactors          Factor = "legal_factors"
)

// Factors lists the scoring factors in report order
var Factors = []Factor{
	FactorRelationshipProximity,
	FactorDataVerification,
	FactorContactInformation,
	FactorDocumentation,
	FactorNameMatchQuality,
	FactorLegalFactors,
}

// ScoreWeights holds the weight of each factor. The weights must sum to 1.0.
type ScoreWeights struct {
	RelationshipProximity float64 `json:"relationship_proximity" yaml:"relationship_proximity" mapstructure:"relationship_proximity"`
	DataVerification      float64 `json:"data_verification" yaml:"data_verification" mapstructure:"data_verification"`
	ContactInformation    float64 `json:"contact_information" yaml:"contact_information" mapstructure:"contact_information"`
	Documentation         float64 `json:"documentation" yaml:"documentation" mapstructure:"documentation"`
	NameMatchQuality      float64 `json:"name_match_quality" yaml:"name_match_quality" mapstructure:"name_match_quality"`
	LegalFactors          float64 `json:"legal_factors" yaml:"legal_factors" mapstructure:"legal_factors"`
}

// DefaultWeights returns the standard weight vector
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		RelationshipProximity: 0.30,
		DataVerification:      0.25,
		ContactInformation:    0.15,
		Documentation:         0.15,
		NameMatchQuality:      0.10,
		LegalFactors:          0.05,
	}
}

// Weight returns the weight of a single factor
func (w ScoreWeights) Weight(f Factor) float64 {
	switch f {
	case FactorRelationshipProximity:
		return w.RelationshipProximity
	case FactorDataVerification:
		return w.DataVerification
	case FactorContactInformation:
		return w.ContactInformation
	case FactorDocumentation:
		return w.Documentation
	case FactorNameMatchQuality:
		return w.NameMatchQuality
	case FactorLegalFactors:
		return w.LegalFactors
	default:
		return 0
	}
}

// Sum returns the total of all weights
func (w ScoreWeights) Sum() float64 {
	total := 0.0
	for _, f := range Factors {
		total += w.Weight(f)
	}
	return total
}

// Validate checks that no weight is negative and that the vector sums to 1.0
func (w ScoreWeights) Validate() error {
	for _, f := range Factors {
		if w.Weight(f) < 0 {
			return fmt.Errorf("%w: %s is negative (%.4f)", ErrInvalidWeights, f, w.Weight(f))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}
