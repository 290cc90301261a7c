package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/heirtrace/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a case narrative restricted to the allowed heir references
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for a narrative summary
type SummarizeRequest struct {
	// Report is the resolved case to summarize
	Report model.Report

	// AllowedRefs is the strict allowlist of heir identity references the
	// model may cite. Any other reference is rejected.
	AllowedRefs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the model's narrative
type SummarizeResponse struct {
	// Summary is the generated narrative
	Summary string

	// CitedRefs are the heir references the narrative actually cites
	CitedRefs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (e.g. a local Ollama)
	BaseURL string

	// Proxy URL for API requests; empty uses HTTPS_PROXY/HTTP_PROXY
	Proxy string

	// Timeout for API requests
	Timeout int // seconds

	// StrictRefs enforces the heir reference allowlist
	StrictRefs bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "", // Disabled by default
		Timeout:    30,
		StrictRefs: true,
		MaxTokens:  800,
	}
}

// HeirRef formats an heir reference the way narratives must cite it
func HeirRef(identityRef string) string {
	return "[heir:" + identityRef + "]"
}

// BuildPrompt constructs the default narrative prompt
func BuildPrompt(report model.Report, allowedRefs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a heir research case. The scores and shares below were computed by a deterministic engine; you explain them, you never change them.

CRITICAL RULES:
1. You MUST ONLY refer to heirs using references from this allowed list:
%s

2. DO NOT invent relatives, dates or documents that are not listed.
3. If research is incomplete, state that explicitly.
4. Shares are a simplified approximation, not legal advice. Say so.

Case Summary:
- Subject: %s
- Candidate Heirs: %d
- Primary Heirs: %d
- Sources: %d reporting, %d failed
`, joinRefs(allowedRefs), report.Subject, len(report.Heirs), countPrimary(report.Heirs),
		len(report.Bundle.Sources), len(report.Bundle.Errors))

	if report.Outlook != nil {
		fmt.Fprintf(&b, "- Success Probability: %.0f/100\n", report.Outlook.Probability)
	}

	b.WriteString("\nTop Heirs:\n")
	for i, h := range report.Heirs {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- %s %s (%s): confidence %.1f, share %.2f%%\n",
			HeirRef(h.IdentityRef), h.Name, h.Relationship, h.ConfidenceScore, h.IntestateShare)
	}

	b.WriteString("\nKey Signals:\n")
	for i, signal := range report.Signals {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
	}

	b.WriteString("\nProvide a 3-4 sentence narrative of who is likely to inherit and what research remains.")

	return b.String()
}

func joinRefs(refs []string) string {
	if len(refs) == 0 {
		return "(No heir references available)"
	}
	var b strings.Builder
	for i, ref := range refs {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more heirs", len(refs)-20)
			break
		}
		fmt.Fprintf(&b, "\n- %s", HeirRef(ref))
	}
	return b.String()
}

func countPrimary(heirs []model.HeirCandidate) int {
	count := 0
	for _, h := range heirs {
		if h.HeirClass == model.HeirClassPrimary {
			count++
		}
	}
	return count
}

// AllowedRefs returns the identity references of a report's heirs
func AllowedRefs(report model.Report) []string {
	refs := make([]string, 0, len(report.Heirs))
	for _, h := range report.Heirs {
		if h.IdentityRef != "" {
			refs = append(refs, h.IdentityRef)
		}
	}
	return refs
}
