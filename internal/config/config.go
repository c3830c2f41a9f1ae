// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Connection
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Engine tuning
	AgentCount  int     `json:"agent_count,omitempty"`   // ensemble size for path optimization
	LevelCount  int     `json:"level_count,omitempty"`   // number of learning levels
	MaxPerLevel int     `json:"max_per_level,omitempty"` // certificate cap per level
	MinScore    float64 `json:"min_score,omitempty"`     // ranking score filter threshold (0.0-1.0)
	Seed        int64   `json:"seed,omitempty"`          // RNG seed; 0 means nondeterministic

	// Provider retry policy
	MaxAttempts int `json:"max_attempts,omitempty"` // retry attempts per provider call
	BackoffMS   int `json:"backoff_ms,omitempty"`   // linear backoff base in milliseconds

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.AgentCount < 0 {
		return fmt.Errorf("config error: 'agent_count' must be non-negative")
	}
	if c.LevelCount < 0 {
		return fmt.Errorf("config error: 'level_count' must be non-negative")
	}
	if c.MaxPerLevel < 0 {
		return fmt.Errorf("config error: 'max_per_level' must be non-negative")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("config error: 'min_score' must be within [0,1]")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.BackoffMS < 0 {
		return fmt.Errorf("config error: 'backoff_ms' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.AgentCount == 0 {
		result.AgentCount = defaults.AgentCount
	}
	if result.LevelCount == 0 {
		result.LevelCount = defaults.LevelCount
	}
	if result.MaxPerLevel == 0 {
		result.MaxPerLevel = defaults.MaxPerLevel
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.BackoffMS == 0 {
		result.BackoffMS = defaults.BackoffMS
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}

	// Float fields
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
