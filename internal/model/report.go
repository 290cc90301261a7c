package model

import "time"

// Disclaimer is attached to every report
const Disclaimer = "Succession shares follow a simplified, jurisdiction-agnostic approximation of " +
	"intestate succession. They are research aids, not legal advice."

// Report is the complete result of resolving one case
type Report struct {
	Subject     string             `json:"subject"`
	Location    string             `json:"location,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Identity    CandidateIdentity  `json:"identity"` // Consolidated deceased owner
	Bundle      ConsolidatedBundle `json:"bundle"`
	Heirs       []HeirCandidate    `json:"heirs"` // Ranked by confidence score
	Breakdowns  []ScoreBreakdown   `json:"breakdowns"`
	Graph       *GraphSnapshot     `json:"graph,omitempty"`
	Signals     []Signal           `json:"signals"`
	Outlook     *OutlookResult     `json:"outlook,omitempty"`
	Disclaimer  string             `json:"disclaimer"`
	LLM         *NarrativeSummary  `json:"llm,omitempty"` // Never affects scores
}

// GraphSnapshot is a serialisable view of a pedigree graph
type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is a person in a GraphSnapshot
type GraphNode struct {
	ID    string            `json:"id"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// GraphEdge is a relationship in a GraphSnapshot
type GraphEdge struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Relationship string  `json:"relationship"`
	Confidence   float64 `json:"confidence"`
}

// OutlookResult is the estimated case success probability
type OutlookResult struct {
	Input       CaseOutlook `json:"input"`
	Probability float64     `json:"probability"` // 0-100
}

// Signal is a diagnostic observation about the case, with its inputs
type Signal struct {
	Type        SignalType     `json:"type"`
	Severity    SignalSeverity `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalSourceFailure  SignalType = "source_failure"  // A source returned an error
	SignalNoPriority     SignalType = "no_priority"     // No heir with a known degree
	SignalSpouseOmitted  SignalType = "spouse_omitted"  // Spouse present but not in cascade
	SignalLowConfidence  SignalType = "low_confidence"  // Primary heir below threshold
	SignalDegreeConflict SignalType = "degree_conflict" // Label disagrees with pedigree
	SignalDedupeSkipped  SignalType = "dedupe_skipped"  // Manual records above the duplicate batch bound
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// NarrativeSummary contains an optional LLM-written case narrative
type NarrativeSummary struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	StrictRefs bool     `json:"strict_refs"` // Only allowlisted heir references may be cited
	SummaryMD  string   `json:"summary_md,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}
