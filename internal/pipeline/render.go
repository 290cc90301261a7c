package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/heirtrace/internal/llm"
	"github.com/ppiankov/heirtrace/internal/model"
)

// Renderer writes reports as JSON and Markdown
type Renderer struct {
	includeFooter bool
	out           io.Writer // Progress and summary output
}

// NewRenderer creates a renderer printing summaries to stderr
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, out: os.Stderr}
}

// SetOutput redirects progress and summary output
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// RenderAll writes the JSON and Markdown reports (each optional), the LLM
// narrative next to the Markdown report and prints a summary
func (r *Renderer) RenderAll(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(r.out, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(r.out, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := writeFile(llmPath, []byte(llm.RenderSeparateMarkdown(report.LLM))); err != nil {
			_, _ = fmt.Fprintf(r.out, "Warning: failed to write LLM narrative: %v\n", err)
		} else if verbose {
			_, _ = fmt.Fprintf(r.out, "✓ Wrote LLM Narrative: %s\n", llmPath)
		}
	}

	r.RenderSummary(report)
	return nil
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Heir Report: %s\n\n", report.Subject)
	if report.Location != "" {
		fmt.Fprintf(&b, "- **Location**: %s\n", report.Location)
	}
	fmt.Fprintf(&b, "- **Generated**: %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if len(report.Bundle.Sources) > 0 {
		fmt.Fprintf(&b, "- **Sources**: %s\n", strings.Join(report.Bundle.Sources, ", "))
	}
	if report.Outlook != nil {
		fmt.Fprintf(&b, "- **Success Probability**: %.2f/100\n", report.Outlook.Probability)
	}
	b.WriteString("\n")

	b.WriteString("## Heir Candidates\n\n")
	if len(report.Heirs) == 0 {
		b.WriteString("_No heir candidates found._\n\n")
	} else {
		b.WriteString("| # | Name | Relationship | Degree | Class | Confidence | Share |\n")
		b.WriteString("|---|------|--------------|--------|-------|------------|-------|\n")
		for i, h := range report.Heirs {
			degree := "?"
			if h.RelationshipDegree > 0 {
				degree = fmt.Sprintf("%d (%s)", h.RelationshipDegree, h.DegreeSource)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %.2f | %.2f%% |\n",
				i+1, mdEscape(h.Name), mdEscape(h.Relationship), degree, h.HeirClass, h.ConfidenceScore, h.IntestateShare)
		}
		b.WriteString("\n")
	}

	if len(report.Breakdowns) > 0 {
		b.WriteString("## Score Breakdowns\n\n")
		for _, bd := range report.Breakdowns {
			fmt.Fprintf(&b, "### %s (%.2f)\n\n", bd.Name, bd.Total)
			b.WriteString("| Factor | Score | Weight | Weighted | Formula |\n")
			b.WriteString("|--------|-------|--------|----------|---------|\n")
			for _, f := range bd.Factors {
				fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %s |\n", f.Factor, f.Score, f.Weight, f.Weighted, mdEscape(f.Formula))
			}
			b.WriteString("\n")
		}
	}

	if len(report.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	if len(report.Bundle.Relatives) > 0 {
		b.WriteString("## Reported Relatives\n\n")
		for _, rel := range report.Bundle.Relatives {
			label := rel.Relationship
			if label == "" {
				label = "unspecified"
			}
			fmt.Fprintf(&b, "- %s (%s), sources: %s\n", rel.Name, label, strings.Join(rel.Provenance, ", "))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_%s_\n", report.Disclaimer)
	}
	return b.String()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// RenderSummary prints a short summary of the report
func (r *Renderer) RenderSummary(report *model.Report) {
	_, _ = fmt.Fprintf(r.out, "\n%s: %d heir candidate(s) from %d source(s)\n",
		report.Subject, len(report.Heirs), len(report.Bundle.Sources))
	for i, h := range report.Heirs {
		if i >= 5 {
			_, _ = fmt.Fprintf(r.out, "  ... and %d more\n", len(report.Heirs)-5)
			break
		}
		_, _ = fmt.Fprintf(r.out, "  %-28s %-12s %6.2f  %6.2f%%\n", h.Name, h.HeirClass, h.ConfidenceScore, h.IntestateShare)
	}
	for _, s := range report.Signals {
		if s.Severity != model.SeverityInfo {
			_, _ = fmt.Fprintf(r.out, "  ! %s\n", s.Description)
		}
	}
}
