package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/heirtrace/internal/logger"
	"github.com/ppiankov/heirtrace/internal/logger/console"
	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile     string
	verbose     bool
	logLevel    string
	metricsFile string

	registry = prometheus.NewRegistry()
	instr    = metrics.New(registry)
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "heirtrace",
	Short: "Heirtrace - heir candidate inference from genealogy records",
	Long: `Heirtrace consolidates person records from genealogy and people-search
sources, builds a family graph around a deceased owner and ranks the
people most likely to be entitled to inherit.

Output is a research aid. It is not a legal determination of heirship.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRun:  initLogger,
	PersistentPostRun: writeMetrics,
}

// Execute runs the root command. Cancelling ctx aborts running cases.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("heirtrace %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.heirtrace/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.heirtrace")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Defaults are registered key by key so HEIRTRACE_* variables can override them
	if err := setDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	// HEIRTRACE_SOURCES_DIR overrides sources.dir, and so on
	viper.SetEnvPrefix("HEIRTRACE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.api_key", "HEIRTRACE_LLM_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.base_url", "HEIRTRACE_LLM_BASE_URL", "OPENAI_BASE_URL")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every field of cfg as a viper default
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	for key, value := range flatten("", tree) {
		viper.SetDefault(key, value)
	}
	return nil
}

func flatten(prefix string, tree map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// loadConfig layers defaults, config file, environment and flags into a Config
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func initLogger(cmd *cobra.Command, args []string) {
	level := viper.GetString("log.level")
	if verbose && logLevel == "" {
		level = "debug"
	}
	logger.Init(console.New(console.Params{Level: level, Output: os.Stderr}))
}

func writeMetrics(cmd *cobra.Command, args []string) {
	if metricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
		logger.Error("failed to write metrics", "path", metricsFile, "error", err)
		return
	}
	logger.Debug("metrics written", "path", metricsFile)
}
