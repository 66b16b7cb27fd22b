// Package config loads the pipeline configuration from file and
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the merge-and-enrich pipeline. Provider
// credentials are deliberately not part of it; they come from the provider
// env vars (GOOGLE_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) at client
// construction.
type Config struct {
	ReportDir    string   `mapstructure:"report_dir" yaml:"report_dir"`
	FragmentGlob string   `mapstructure:"fragment_glob" yaml:"fragment_glob"`
	MergedReport string   `mapstructure:"merged_report" yaml:"merged_report"`
	Models       []string `mapstructure:"models" yaml:"models"`
	TimeoutSec   int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	CooldownSec  int      `mapstructure:"cooldown_seconds" yaml:"cooldown_seconds"`
	Retries      int      `mapstructure:"retries" yaml:"retries"`
	MaxTokens    int      `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64  `mapstructure:"temperature" yaml:"temperature"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ReportDir:    "cypress/reports",
		FragmentGlob: "*_results.json",
		MergedReport: "cypress/reports/merged_results.json",
		Models: []string{
			"google/gemini-2.5-flash",
			"google/gemini-2.0-flash",
			"google/gemini-1.5-flash",
		},
		TimeoutSec:  60,
		CooldownSec: 2,
		Retries:     1,
		MaxTokens:   2048,
		Temperature: 0.1,
	}
}

// candidate config filenames searched in the working directory.
var candidates = []string{"verdict.yaml", "verdict.yml", ".verdict.yaml", ".verdict.yml"}

// Load reads configuration from path, or from the first candidate file in
// the working directory when path is empty. A missing file yields the
// defaults. VERDICT_* environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = discover()
	}

	v := viper.New()
	v.SetEnvPrefix("VERDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func discover() string {
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir must not be empty")
	}
	if c.TimeoutSec <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	for _, ref := range c.Models {
		provider, model, ok := strings.Cut(ref, "/")
		if !ok || provider == "" || model == "" {
			return fmt.Errorf("invalid model reference %q, use: provider/model", ref)
		}
	}
	return nil
}

// WriteDefault writes the default configuration to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
