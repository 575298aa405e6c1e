// Package config holds sted's file and environment configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = ".sted.yaml"

// Config holds all sted configuration.
type Config struct {
	Editor  EditorConfig  `yaml:"editor"`
	Apply   ApplyConfig   `yaml:"apply"`
	Preview PreviewConfig `yaml:"preview"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// EditorConfig configures how recipes lay out the elements they insert.
type EditorConfig struct {
	// Separator joins list elements: a comma followed by blanks.
	Separator string `yaml:"separator"`
}

// ApplyConfig configures plan execution.
type ApplyConfig struct {
	// Parallelism bounds how many files are edited concurrently.
	Parallelism int `yaml:"parallelism"`
}

// PreviewConfig configures diff output.
type PreviewConfig struct {
	ContextLines int `yaml:"context_lines"`
}

// WatchConfig configures the re-apply loop.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Editor:  EditorConfig{Separator: ", "},
		Apply:   ApplyConfig{Parallelism: 4},
		Preview: PreviewConfig{ContextLines: 3},
		Watch:   WatchConfig{Debounce: "300ms"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies STED_* environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies STED_* environment variables on top of the
// loaded values. Malformed numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if sep := os.Getenv("STED_SEPARATOR"); sep != "" {
		c.Editor.Separator = sep
	}
	if raw := os.Getenv("STED_PARALLELISM"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.Apply.Parallelism = n
		}
	}
	if raw := os.Getenv("STED_CONTEXT_LINES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			c.Preview.ContextLines = n
		}
	}
	if d := os.Getenv("STED_DEBOUNCE"); d != "" {
		c.Watch.Debounce = d
	}
	if level := os.Getenv("STED_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// WatchDebounce returns the watch debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	sep := c.Editor.Separator
	if sep == "" || sep[0] != ',' || strings.Trim(sep[1:], " \t\r\n") != "" {
		return fmt.Errorf("invalid separator %q (must be a comma followed by blanks)", sep)
	}
	if c.Apply.Parallelism < 1 {
		return fmt.Errorf("apply parallelism must be at least 1, got %d", c.Apply.Parallelism)
	}
	if c.Preview.ContextLines < 0 {
		return fmt.Errorf("preview context lines must not be negative, got %d", c.Preview.ContextLines)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce: %w", err)
	}
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
}
