// Package config provides unified configuration loading for omexrun.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config contains all omexrun configuration settings.
type Config struct {
	// Engine contains settings for the external simulation engine.
	Engine EngineConfig `yaml:"engine"`

	// Reports contains settings for report output.
	Reports ReportsConfig `yaml:"reports"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the external simulation engine process.
type EngineConfig struct {
	// Command is the engine command line; the first element is the
	// executable. Overridable with OMEXRUN_ENGINE (whitespace separated).
	Command []string `yaml:"command" env:"OMEXRUN_ENGINE" envSeparator:" "`

	// Timeout bounds a single simulation run. Zero disables the bound.
	Timeout time.Duration `yaml:"timeout" env:"OMEXRUN_ENGINE_TIMEOUT"`
}

// ReportsConfig configures report output.
type ReportsConfig struct {
	// Formats are the report formats to write: "csv", "arrow".
	// Overridable with OMEXRUN_REPORT_FORMATS (comma separated).
	Formats []string `yaml:"formats" env:"OMEXRUN_REPORT_FORMATS"`

	// Bundle zips the individual report files into reports.zip.
	Bundle *bool `yaml:"bundle" env:"OMEXRUN_BUNDLE_OUTPUTS"`

	// KeepIndividual keeps the per-report files after bundling.
	KeepIndividual *bool `yaml:"keep_individual" env:"OMEXRUN_KEEP_INDIVIDUAL_OUTPUTS"`
}

// LoggingConfig configures omexrun's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables task tracing to <outdir>/trace.jsonl.
	Level string `yaml:"level" env:"OMEXRUN_LOG_LEVEL"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	on := true
	return &Config{
		Engine: EngineConfig{
			Timeout: 10 * time.Minute,
		},
		Reports: ReportsConfig{
			Formats:        []string{"csv", "arrow"},
			Bundle:         &on,
			KeepIndividual: &on,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration in layers: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fileCfg, err := LoadFromFile(path)
			if err != nil {
				return nil, err
			}
			cfg = fileCfg
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file, on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.Timeout < 0 {
		return fmt.Errorf("engine timeout must be non-negative, got %v", c.Engine.Timeout)
	}

	if len(c.Reports.Formats) == 0 {
		return fmt.Errorf("at least one report format is required")
	}
	for _, f := range c.Reports.Formats {
		if f != "csv" && f != "arrow" {
			return fmt.Errorf("invalid report format: %s (valid: csv, arrow)", f)
		}
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// BundleOutputs reports whether individual reports should be bundled.
func (c *Config) BundleOutputs() bool {
	return c.Reports.Bundle == nil || *c.Reports.Bundle
}

// KeepIndividualOutputs reports whether per-report files survive bundling.
func (c *Config) KeepIndividualOutputs() bool {
	return c.Reports.KeepIndividual == nil || *c.Reports.KeepIndividual
}
