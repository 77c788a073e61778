// Package config loads runtime settings: defaults, then an optional YAML file,
// then environment overrides.
package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/grantcritic/internal/policy"
)

const (
	configPathEnv       = "GRANTCRITIC_CONFIG"
	logLevelEnv         = "GRANTCRITIC_LOG_LEVEL"
	historyDSNEnv       = "GRANTCRITIC_HISTORY_DSN"
	policyConstraintEnv = "GRANTCRITIC_POLICY_CONSTRAINT"

	// DefaultPolicyConstraint accepts any 1.x policy table.
	DefaultPolicyConstraint = ">= 1.0.0, < 2.0.0"
)

// Config holds settings shared by the CLI and the MCP server.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
	Policy  PolicyConfig  `yaml:"policy"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig sets the log level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HistoryConfig names the audit history database. Empty disables history.
type HistoryConfig struct {
	DSN string `yaml:"dsn"`
}

// PolicyConfig bounds which policy tables are trusted.
type PolicyConfig struct {
	MaxAge     time.Duration `yaml:"maxAge"`
	Constraint string        `yaml:"constraint"`
}

// OutputConfig sets the default report format.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An unreadable or invalid file is logged and ignored.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(historyDSNEnv); v != "" {
		c.History.DSN = v
	}
	if v := os.Getenv(policyConstraintEnv); v != "" {
		c.Policy.Constraint = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.History.DSN != "" {
		base.History.DSN = override.History.DSN
	}
	if override.Policy.MaxAge > 0 {
		base.Policy.MaxAge = override.Policy.MaxAge
	}
	if override.Policy.Constraint != "" {
		base.Policy.Constraint = override.Policy.Constraint
	}
	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Policy: PolicyConfig{
			MaxAge:     policy.DefaultMaxAge,
			Constraint: DefaultPolicyConstraint,
		},
		Output: OutputConfig{Format: "json"},
	}
}
