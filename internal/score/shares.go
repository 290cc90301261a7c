package score

import "github.com/ppiankov/heirtrace/internal/model"

// CalculateIntestateShares assigns intestate shares. Candidates at the
// smallest known degree form the priority class and split 100% equally,
// each share rounded to two decimals; everyone else is contingent with a
// zero share. Candidates with degree 0 (unknown) are never in the priority
// class. The input is not modified.
//
// Rounding may leave a residue of up to n*0.005 against 100.
func CalculateIntestateShares(heirs []model.HeirCandidate) []model.HeirCandidate {
	out := append([]model.HeirCandidate(nil), heirs...)

	closest := PriorityDegree(out)
	primaries := 0
	for _, h := range out {
		if closest > 0 && h.RelationshipDegree == closest {
			primaries++
		}
	}

	for i := range out {
		if primaries > 0 && out[i].RelationshipDegree == closest {
			out[i].IntestateShare = round2(100.0 / float64(primaries))
			out[i].HeirClass = model.HeirClassPrimary
			continue
		}
		out[i].IntestateShare = 0
		out[i].HeirClass = model.HeirClassContingent
	}
	return out
}

// PriorityDegree returns the smallest positive degree among heirs, or 0
func PriorityDegree(heirs []model.HeirCandidate) int {
	closest := 0
	for _, h := range heirs {
		if h.RelationshipDegree > 0 && (closest == 0 || h.RelationshipDegree < closest) {
			closest = h.RelationshipDegree
		}
	}
	return closest
}

// ShareTotal sums the shares of all candidates
func ShareTotal(heirs []model.HeirCandidate) float64 {
	total := 0.0
	for _, h := range heirs {
		total += h.IntestateShare
	}
	return round2(total)
}
