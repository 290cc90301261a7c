package pipeline

import (
	"strings"

	"github.com/ppiankov/heirtrace/internal/aggregate"
	"github.com/ppiankov/heirtrace/internal/graph"
	"github.com/ppiankov/heirtrace/internal/logger"
	"github.com/ppiankov/heirtrace/internal/match"
	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/score"
)

// pedigreeSource is the data source recorded for graph-derived candidates
const pedigreeSource = "pedigree"

// assembler collects heir candidates from the pedigree, source relatives
// and manual heir records, merging those that describe the same person.
type assembler struct {
	matcher    *match.Matcher
	graph      *graph.Graph // nil when the case has no pedigree
	deceasedID string

	candidates    []model.HeirCandidate
	byPerson      map[string]int
	conflicts     []score.DegreeConflict
	dedupeSkipped int // manual records left undeduplicated by the batch bound
}

func newAssembler(m *match.Matcher, g *graph.Graph, deceasedID string) *assembler {
	return &assembler{
		matcher:    m,
		graph:      g,
		deceasedID: deceasedID,
		byPerson:   make(map[string]int),
	}
}

// addLinks adds the heirs found by the succession cascade
func (a *assembler) addLinks(links []graph.HeirLink) {
	for _, link := range links {
		person, _ := a.graph.Person(link.PersonID)
		name := person.Name()
		ref := link.PersonID
		if name != "" {
			ref = aggregate.IdentityID(name)
		}
		a.byPerson[link.PersonID] = len(a.candidates)
		a.candidates = append(a.candidates, model.HeirCandidate{
			IdentityRef:        ref,
			PersonID:           link.PersonID,
			Name:               name,
			Relationship:       string(link.Tier),
			RelationshipDegree: link.Degree,
			DegreeSource:       model.DegreeFromGraph,
			Probability:        link.Probability,
			DataSources:        []string{pedigreeSource},
			VerificationStatus: model.VerificationUnverified,
		})
	}
}

// addRelatives adds relatives reported by sources. A relative whose name
// matches a pedigree person takes that person's degree.
func (a *assembler) addRelatives(relatives []model.CandidateIdentity) {
	for _, rel := range relatives {
		h := model.HeirCandidate{
			IdentityRef:        rel.ID,
			Name:               rel.DisplayName,
			Relationship:       rel.Relationship,
			DataSources:        append([]string(nil), rel.Provenance...),
			VerificationStatus: model.VerificationUnverified,
		}

		if person, similarity, ok := a.matchPerson(rel.DisplayName); ok {
			if person.Deceased() {
				logger.Debug("skipping deceased relative", "name", rel.DisplayName, "person", person.ID)
				continue
			}
			h.PersonID = person.ID
			nameScore := similarity * 100
			h.NameMatchScore = &nameScore
		}
		a.add(h)
	}
}

// addManual adds researcher-entered heir records. Duplicate records are
// folded together before conversion.
func (a *assembler) addManual(records []model.Record) {
	deduped, err := dedupeRecords(a.matcher, records)
	if err != nil {
		logger.Warn("manual heir records not deduplicated", "records", len(records), "error", err)
		a.dedupeSkipped = len(records)
		deduped = records
	}
	for _, rec := range deduped {
		h := model.HeirFromRecord(rec)
		if h.Name == "" && h.PersonID == "" {
			continue
		}
		if h.IdentityRef == "" {
			h.IdentityRef = aggregate.IdentityID(h.Name)
		}
		if h.PersonID == "" {
			if person, _, ok := a.matchPerson(h.Name); ok {
				h.PersonID = person.ID
			}
		}
		if h.Name == "" && a.graph != nil {
			if person, ok := a.graph.Person(h.PersonID); ok {
				h.Name = person.Name()
			}
		}
		a.add(h)
	}
}

// recordIndexKey tags record copies with their input position
const recordIndexKey = "_index"

// dedupeRecords merges duplicate groups found by name and keeps the rest
// in input order. A merged group takes the position of its first record.
// Batches above the matcher's MaxDuplicateBatch return match.ErrBatchTooLarge.
func dedupeRecords(m *match.Matcher, records []model.Record) ([]model.Record, error) {
	tagged := make([]model.Record, len(records))
	for i, rec := range records {
		tagged[i] = rec.Clone()
		tagged[i][recordIndexKey] = i
	}

	groups, err := m.FindDuplicatesChecked(tagged, "name", match.MatchByName)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return records, nil
	}

	merged := make(map[int]model.Record)
	absorbed := make(map[int]bool)
	for _, group := range groups {
		originals := make([]model.Record, len(group))
		for j, rec := range group {
			idx := rec[recordIndexKey].(int)
			originals[j] = records[idx]
			absorbed[idx] = true
		}
		merged[group[0][recordIndexKey].(int)] = match.MergeDuplicateRecords(originals)
	}

	out := make([]model.Record, 0, len(records))
	for i, rec := range records {
		if mr, ok := merged[i]; ok {
			out = append(out, mr)
			continue
		}
		if !absorbed[i] {
			out = append(out, rec)
		}
	}
	return out, nil
}

// matchPerson finds the pedigree person, living or not, best matching name
func (a *assembler) matchPerson(name string) (graph.Person, float64, bool) {
	if a.graph == nil || strings.TrimSpace(name) == "" {
		return graph.Person{}, 0, false
	}

	var (
		best      graph.Person
		bestScore float64
		found     bool
	)
	for _, p := range a.graph.Persons() {
		if p.ID == a.deceasedID || p.Name() == "" {
			continue
		}
		if ok, s := a.matcher.MatchNames(name, p.Name()); ok && s > bestScore {
			best, bestScore, found = p, s, true
		}
	}
	return best, bestScore, found
}

// add merges h into an existing candidate for the same pedigree person or
// name, or appends it
func (a *assembler) add(h model.HeirCandidate) {
	if h.PersonID != "" {
		if i, ok := a.byPerson[h.PersonID]; ok {
			mergeCandidate(&a.candidates[i], h)
			return
		}
	}
	for i := range a.candidates {
		if ok, _ := a.matcher.MatchNames(a.candidates[i].Name, h.Name); ok {
			mergeCandidate(&a.candidates[i], h)
			if h.PersonID != "" && a.candidates[i].PersonID == "" {
				a.candidates[i].PersonID = h.PersonID
				a.byPerson[h.PersonID] = i
			}
			return
		}
	}

	if h.PersonID != "" {
		a.byPerson[h.PersonID] = len(a.candidates)
	}
	a.candidates = append(a.candidates, h)
}

// mergeCandidate copies the research fields of src onto dst where dst has
// none. Labels from sources or researchers replace cascade tier names.
func mergeCandidate(dst *model.HeirCandidate, src model.HeirCandidate) {
	if src.Relationship != "" && (dst.Relationship == "" || (dst.DegreeSource == model.DegreeFromGraph && isTierLabel(dst.Relationship))) {
		dst.Relationship = src.Relationship
	}
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.RelationshipDegree == 0 && src.RelationshipDegree > 0 {
		dst.RelationshipDegree = src.RelationshipDegree
		dst.DegreeSource = src.DegreeSource
	}
	for _, ds := range src.DataSources {
		dst.DataSources = model.AppendUnique(dst.DataSources, ds)
	}
	if src.NameMatchScore != nil && (dst.NameMatchScore == nil || *src.NameMatchScore > *dst.NameMatchScore) {
		dst.NameMatchScore = src.NameMatchScore
	}
	if src.VerificationStatus != "" && src.VerificationStatus != model.VerificationUnverified {
		dst.VerificationStatus = src.VerificationStatus
	}
	if src.VerifiedDate != nil {
		dst.VerifiedDate = src.VerifiedDate
	}
	if src.FirstName != "" {
		dst.FirstName = src.FirstName
	}
	if src.LastName != "" {
		dst.LastName = src.LastName
	}
	dst.RelationshipVerified = dst.RelationshipVerified || src.RelationshipVerified
	dst.DocumentationExists = dst.DocumentationExists || src.DocumentationExists
	dst.ContactVerified = dst.ContactVerified || src.ContactVerified
	dst.LegalHeir = dst.LegalHeir || src.LegalHeir
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Address != "" {
		dst.Address = src.Address
	}
	if src.ContactAttempts > dst.ContactAttempts {
		dst.ContactAttempts = src.ContactAttempts
	}
	if src.ContactStatus != "" {
		dst.ContactStatus = src.ContactStatus
	}
	if src.DiscoveredBy != "" {
		dst.DiscoveredBy = src.DiscoveredBy
	}
}

func isTierLabel(label string) bool {
	switch graph.HeirTier(label) {
	case graph.TierChild, graph.TierGrandchild, graph.TierSibling, graph.TierNieceNephew:
		return true
	}
	return false
}

// resolveDegrees fills degrees and name parts. A pedigree degree overrides
// the label; disagreements are recorded as conflicts.
func (a *assembler) resolveDegrees() {
	for i := range a.candidates {
		h := &a.candidates[i]
		labelDegree := score.DegreeForLabel(h.Relationship)

		if a.graph != nil && h.PersonID != "" {
			if d, ok := a.graph.Degree(a.deceasedID, h.PersonID); ok {
				if labelDegree > 0 && labelDegree != d && !isTierLabel(h.Relationship) {
					a.conflicts = append(a.conflicts, score.DegreeConflict{
						IdentityRef: h.IdentityRef,
						Label:       h.Relationship,
						LabelDegree: labelDegree,
						GraphDegree: d,
					})
				}
				h.RelationshipDegree = d
				h.DegreeSource = model.DegreeFromGraph
			}
		}

		if h.DegreeSource != model.DegreeFromGraph {
			switch {
			case h.RelationshipDegree > 0:
				h.DegreeSource = model.DegreeFromLabel
			case labelDegree > 0:
				h.RelationshipDegree = labelDegree
				h.DegreeSource = model.DegreeFromLabel
			default:
				h.DegreeSource = model.DegreeUnknown
			}
		}

		if h.FirstName == "" && h.LastName == "" {
			h.FirstName, h.LastName = match.SplitName(h.Name)
		}
		if h.VerificationStatus == "" {
			h.VerificationStatus = model.VerificationUnverified
		}
	}
}
