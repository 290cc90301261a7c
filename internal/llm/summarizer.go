package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/worker"
)

// Summarizer adds an optional narrative to a resolved report. It runs after
// scoring and never changes scores or shares.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *worker.Limiter
}

// NewSummarizer creates a summarizer. A disabled config yields a summarizer
// whose GenerateSummary returns nil.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// WithLimiter rate limits provider calls, keyed by provider name
func (s *Summarizer) WithLimiter(l *worker.Limiter) *Summarizer {
	s.limiter = l
	return s
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary writes a narrative for report. Provider failures are
// reported as warnings on the summary, not as errors.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.NarrativeSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	summary := &model.NarrativeSummary{
		Provider:   s.provider.Name(),
		Model:      s.config.Model,
		StrictRefs: s.config.StrictRefs,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Provider %s is not available; narrative skipped", s.provider.Name()))
		return summary, nil
	}
	summary.Enabled = true

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("Narrative generation failed: %v", err))
			return summary, nil
		}
	}

	refs := AllowedRefs(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:      report,
		AllowedRefs: refs,
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Narrative generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d heir citations against %d allowed references", len(resp.CitedRefs), len(refs)),
	)
	return summary, nil
}

// RenderSeparateMarkdown renders a narrative as a standalone Markdown file
func RenderSeparateMarkdown(summary *model.NarrativeSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Narrative\n\n")
	b.WriteString("> **GENERATED CONTENT.** Scores, shares and heir classes were determined independently ")
	b.WriteString("by the scoring engine. This narrative cannot change them.\n\n")
	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict References**: %t\n\n", summary.StrictRefs)

	b.WriteString("## Narrative\n\n")
	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
