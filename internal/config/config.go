// Package config loads kiln's YAML configuration. A missing file means
// all defaults; a file that exists but cannot be read or parsed is an
// error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/version"
)

// KnownHelpers are the AUR helpers with built-in invocation support.
var KnownHelpers = []string{"paru", "yay", "pikaur", "aura", "trizen"}

// Tracing configures the optional OpenTelemetry exporter.
type Tracing struct {
	// Endpoint is an OTLP gRPC collector address; empty disables export.
	Endpoint string `mapstructure:"endpoint"`
	// Stdout dumps spans to stderr instead, for debugging.
	Stdout bool `mapstructure:"stdout"`
}

// Config holds the runtime settings.
type Config struct {
	// VersionThreshold is the default severity gate for user-defined
	// triggers; curated triggers carry their own.
	VersionThreshold string `mapstructure:"version_threshold"`
	// Helper is the AUR helper command; empty means auto-detect.
	Helper string `mapstructure:"helper"`
	// IncludeCheckrebuild adds checkrebuild findings to kiln rebuild.
	IncludeCheckrebuild bool `mapstructure:"include_checkrebuild"`
	// RetentionDays bounds the trigger event history; 0 keeps forever.
	RetentionDays int `mapstructure:"retention_days"`

	Tracing Tracing `mapstructure:"tracing"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		VersionThreshold: version.ThresholdMinor.String(),
		RetentionDays:    90,
	}
}

// Threshold parses the configured default threshold.
func (c Config) Threshold() (version.Threshold, error) {
	return version.ParseThreshold(c.VersionThreshold)
}

// Load reads the config file at path. A missing file yields Defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := Defaults()
	v.SetDefault("version_threshold", defaults.VersionThreshold)
	v.SetDefault("helper", defaults.Helper)
	v.SetDefault("include_checkrebuild", defaults.IncludeCheckrebuild)
	v.SetDefault("retention_days", defaults.RetentionDays)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug(log.CatConfig, "no config file, using defaults", "path", path)
			return defaults, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	log.Debug(log.CatConfig, "config loaded", "path", path,
		"threshold", cfg.VersionThreshold, "retention_days", cfg.RetentionDays)
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := version.ParseThreshold(c.VersionThreshold); err != nil {
		return err
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("invalid retention_days %d, expected non-negative integer", c.RetentionDays)
	}
	return nil
}

// DefaultTemplate is the commented config written by kiln config init.
const DefaultTemplate = `# kiln configuration
#
# Default version-change threshold for user-defined triggers.
# Curated triggers carry their own thresholds.
# One of: major, minor, patch, always
version_threshold: minor

# AUR helper command used by kiln rebuild. Leave empty to auto-detect
# (paru, yay, pikaur, aura, trizen, in that order). May be a full
# command line for custom helpers, e.g. "my-helper --rebuild".
helper: ""

# Include checkrebuild findings when running kiln rebuild.
include_checkrebuild: false

# Days of trigger event history to keep. 0 keeps everything.
retention_days: 90

# Optional OpenTelemetry tracing.
#tracing:
#  endpoint: "localhost:4317"
#  stdout: false
`

// WriteDefault writes the default config template to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
