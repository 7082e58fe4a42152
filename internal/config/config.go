// ABOUTME: Configuration loading and parsing for the emcee bot runtime.
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete runtime configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Poll     PollConfig     `yaml:"poll"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PollConfig holds ready-poll emote and timing configuration.
type PollConfig struct {
	YesEmote   string `yaml:"yes_emote"`
	NoEmote    string `yaml:"no_emote"`
	StartEmote string `yaml:"start_emote"`
	CountEmote string `yaml:"count_emote"`
	GoEmote    string `yaml:"go_emote"`

	MaxSessions int `yaml:"max_sessions"`

	IdleTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	IdleTimeoutRaw string `yaml:"idle_timeout"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment
// variable values. If the environment variable is not set, it is replaced with
// an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Poll.MaxSessions < 0 {
		return fmt.Errorf("poll.max_sessions must not be negative")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Poll.IdleTimeoutRaw != "" {
		cfg.Poll.IdleTimeout, err = time.ParseDuration(cfg.Poll.IdleTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing idle_timeout %q: %w", cfg.Poll.IdleTimeoutRaw, err)
		}
	}

	return nil
}
