package score

import "github.com/ppiankov/heirtrace/internal/model"

// Breakdown explains a candidate's score factor by factor
func (s *Scorer) Breakdown(h model.HeirCandidate) model.ScoreBreakdown {
	results := map[model.Factor]factorResult{
		model.FactorRelationshipProximity: relationshipProximity(h),
		model.FactorDataVerification:      dataVerification(h),
		model.FactorContactInformation:    contactInformation(h),
		model.FactorDocumentation:         documentation(h),
		model.FactorNameMatchQuality:      nameMatchQuality(h),
		model.FactorLegalFactors:          legalFactors(h),
	}

	b := model.ScoreBreakdown{
		IdentityRef: h.IdentityRef,
		Name:        h.Name,
		Factors:     make([]model.FactorBreakdown, 0, len(model.Factors)),
	}
	for _, f := range model.Factors {
		r := results[f]
		w := s.weights.Weight(f)
		b.Factors = append(b.Factors, model.FactorBreakdown{
			Factor:   f,
			Score:    r.score,
			Weight:   w,
			Weighted: round2(r.score * w),
			Formula:  r.formula,
		})
	}
	b.Total = s.CalculateHeirScore(h)
	return b
}

// Breakdowns explains every candidate in order
func (s *Scorer) Breakdowns(heirs []model.HeirCandidate) []model.ScoreBreakdown {
	out := make([]model.ScoreBreakdown, len(heirs))
	for i, h := range heirs {
		out[i] = s.Breakdown(h)
	}
	return out
}
