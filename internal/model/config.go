package model

import "time"

// Config holds the complete heirtrace configuration
type Config struct {
	Matching    MatchingConfig    `yaml:"matching" mapstructure:"matching"`
	Weights     ScoreWeights      `yaml:"weights" mapstructure:"weights"`
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// MatchingConfig holds identity matcher thresholds (0-1)
type MatchingConfig struct {
	NameThreshold     float64 `yaml:"name_threshold" mapstructure:"name_threshold"`
	AddressThreshold  float64 `yaml:"address_threshold" mapstructure:"address_threshold"`
	MaxDuplicateBatch int     `yaml:"max_duplicate_batch" mapstructure:"max_duplicate_batch"`
}

// GraphConfig bounds pedigree traversal
type GraphConfig struct {
	MaxGenerations int `yaml:"max_generations" mapstructure:"max_generations"`
}

// CacheConfig configures the source payload cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SourcesConfig configures where pre-fetched source payloads are read from
type SourcesConfig struct {
	Dir               string   `yaml:"dir" mapstructure:"dir"`
	Names             []string `yaml:"names" mapstructure:"names"`
	RequestsPerSecond float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int      `yaml:"burst_size" mapstructure:"burst_size"`
	MaxParallel       int      `yaml:"max_parallel" mapstructure:"max_parallel"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional narrative summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables, "openai"
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Proxy     string `yaml:"proxy,omitempty" mapstructure:"proxy"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the console logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			NameThreshold:     0.90,
			AddressThreshold:  0.85,
			MaxDuplicateBatch: 5000,
		},
		Weights: DefaultWeights(),
		Graph: GraphConfig{
			MaxGenerations: 10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".heirtrace-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Sources: SourcesConfig{
			Names:             []string{"familytreenow", "findagrave"},
			RequestsPerSecond: 2,
			BurstSize:         5,
			MaxParallel:       4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 800,
			Timeout:   30,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
