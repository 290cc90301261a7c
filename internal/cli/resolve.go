package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	sourcesDir  string
	noCache     bool
	noFooter    bool
	llmProvider string
	llmModel    string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <case>",
	Short: "Resolve the heir candidates of a single case file",
	Long: `Resolve reads a case file (JSON or YAML) and:
- Consolidates the source payloads about the deceased owner
- Builds the family graph and walks the succession cascade
- Matches reported relatives and manual heir records to graph persons
- Scores, ranks and explains every heir candidate

Example:
  heirtrace resolve case.yaml
  heirtrace resolve case.yaml --json report.json --md report.md
  heirtrace resolve case.yaml --sources-dir ./payloads --llm openai`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	resolveCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	addCaseFlags(resolveCmd)
	resolveCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "case resolution timeout")
}

// addCaseFlags registers the flags shared by resolve and batch
func addCaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourcesDir, "sources-dir", "", "directory of pre-fetched source payloads")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the source payload cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().StringVar(&llmProvider, "llm", "", "LLM provider for the narrative summary (openai)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// caseConfig loads the layered configuration and applies the case flags
// the user set explicitly
func caseConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("sources-dir") {
		cfg.Sources.Dir = sourcesDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if flags.Changed("llm") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return cfg, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	casePath := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := caseConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Resolving: %s\n", casePath)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithMetrics(instr))
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	report, err := p.ResolveFile(ctx, casePath)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	return p.RenderReport(report, outJSON, outMD, cfg.Output.Verbose)
}
