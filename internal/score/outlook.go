package score

import (
	"strings"

	"github.com/ppiankov/heirtrace/internal/model"
)

// CaseSuccessProbability estimates how likely a case is to succeed (0-100).
// A case with no heirs scores 10. Otherwise: 30 for having heirs, plus 30%
// of the average heir confidence, 25% of research completeness, up to 15 for
// the overage amount and up to 10 for low complexity.
func CaseSuccessProbability(o model.CaseOutlook) float64 {
	if o.HeirCount <= 0 {
		return 10
	}

	score := 30.0
	score += clamp(o.AverageConfidence, 0, 100) * 0.30
	score += clamp(o.ResearchCompleteness, 0, 100) * 0.25

	switch {
	case o.OverageAmount > 50000:
		score += 15
	case o.OverageAmount > 10000:
		score += 10
	case o.OverageAmount > 0:
		score += 5
	}

	switch strings.ToLower(strings.TrimSpace(o.Complexity)) {
	case "simple":
		score += 10
	case "moderate":
		score += 5
	}

	return round2(clamp(score, 0, 100))
}

// OutlookFromHeirs fills the heir count and average confidence of o from a
// scored candidate list
func OutlookFromHeirs(o model.CaseOutlook, heirs []model.HeirCandidate) model.CaseOutlook {
	o.HeirCount = len(heirs)
	o.AverageConfidence = 0
	if len(heirs) > 0 {
		sum := 0.0
		for _, h := range heirs {
			sum += h.ConfidenceScore
		}
		o.AverageConfidence = round2(sum / float64(len(heirs)))
	}
	return o
}
