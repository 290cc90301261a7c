package score

import (
	"fmt"
	"sort"

	"github.com/ppiankov/heirtrace/internal/model"
)

// DefaultLowConfidence is the score below which a primary heir is flagged
const DefaultLowConfidence = 50.0

// DegreeConflict records a candidate whose label disagrees with the pedigree
type DegreeConflict struct {
	IdentityRef string
	Label       string
	LabelDegree int
	GraphDegree int
}

// CaseFacts are the inputs to Diagnose
type CaseFacts struct {
	Heirs           []model.HeirCandidate
	SourceErrors    map[string]string
	DegreeConflicts []DegreeConflict
	DedupeSkipped   int     // manual records not deduplicated because of the batch bound
	LowConfidence   float64 // 0 uses DefaultLowConfidence
}

// Diagnose generates diagnostic signals for a scored case. Signals never
// change scores; they carry the data needed to audit the result.
func Diagnose(f CaseFacts) []model.Signal {
	var signals []model.Signal

	sources := make([]string, 0, len(f.SourceErrors))
	for name := range f.SourceErrors {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	for _, name := range sources {
		signals = append(signals, model.Signal{
			Type:        model.SignalSourceFailure,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("Source %s failed: %s", name, f.SourceErrors[name]),
			Data:        map[string]any{"source": name, "error": f.SourceErrors[name]},
		})
	}

	if len(f.Heirs) > 0 && PriorityDegree(f.Heirs) == 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalNoPriority,
			Severity:    model.SeverityCritical,
			Description: "No candidate has a known relationship degree; no shares assigned",
			Data:        map[string]any{"candidates": len(f.Heirs)},
		})
	}

	var spouses []string
	for _, h := range f.Heirs {
		if IsSpouseLabel(h.Relationship) {
			spouses = append(spouses, h.Name)
		}
	}
	if len(spouses) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalSpouseOmitted,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d spouse candidate(s) outside the succession cascade; review with counsel", len(spouses)),
			Data:        map[string]any{"spouses": spouses},
		})
	}

	threshold := f.LowConfidence
	if threshold <= 0 {
		threshold = DefaultLowConfidence
	}
	for _, h := range f.Heirs {
		if h.HeirClass != model.HeirClassPrimary || h.ConfidenceScore >= threshold {
			continue
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalLowConfidence,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("Primary heir %s scored %.2f (below %.0f)", h.Name, h.ConfidenceScore, threshold),
			Data: map[string]any{
				"identity_ref": h.IdentityRef,
				"score":        h.ConfidenceScore,
				"threshold":    threshold,
			},
		})
	}

	for _, c := range f.DegreeConflicts {
		signals = append(signals, model.Signal{
			Type:     model.SignalDegreeConflict,
			Severity: model.SeverityInfo,
			Description: fmt.Sprintf("Label %q suggests degree %d; pedigree gives %d (pedigree used)",
				c.Label, c.LabelDegree, c.GraphDegree),
			Data: map[string]any{
				"identity_ref": c.IdentityRef,
				"label_degree": c.LabelDegree,
				"graph_degree": c.GraphDegree,
			},
		})
	}

	if f.DedupeSkipped > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalDedupeSkipped,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d manual heir records exceed the duplicate batch limit; duplicates were not merged", f.DedupeSkipped),
			Data:        map[string]any{"records": f.DedupeSkipped},
		})
	}

	return signals
}
