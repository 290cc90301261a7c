package score

import (
	"sort"

	"github.com/ppiankov/heirtrace/internal/model"
)

// RankHeirs returns heirs sorted by confidence score, highest first. Equal
// scores keep their input order. With recalculate set every candidate is
// rescored first. The input is not modified.
func (s *Scorer) RankHeirs(heirs []model.HeirCandidate, recalculate bool) []model.HeirCandidate {
	out := append([]model.HeirCandidate(nil), heirs...)
	if recalculate {
		for i := range out {
			s.Apply(&out[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out
}
