// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads seatview configuration.
//
// Configuration comes from a single YAML file specified by:
//   - SEATVIEW_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery; one file, explicitly
// named, keeps configuration auditable. The file may contain
// environment-specific sections (development, staging, production)
// that override base values when the environment matches.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment identifies which server deployment the console points
// at.
type Environment string

const (
	// Development is a locally running server.
	Development Environment = "development"
	// Staging is the pre-production deployment.
	Staging Environment = "staging"
	// Production is the production deployment.
	Production Environment = "production"
)

// Config is the full seatview configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Server configures the Sideseat server connection.
	Server ServerConfig `yaml:"server"`

	// UI configures console behavior.
	UI UIConfig `yaml:"ui"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base values.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains the fields that can differ per environment.
type Overrides struct {
	Server *ServerConfig `yaml:"server,omitempty"`
	UI     *UIConfig     `yaml:"ui,omitempty"`
	Log    *LogConfig    `yaml:"log,omitempty"`
}

// ServerConfig configures the Sideseat server connection.
type ServerConfig struct {
	// URL is the server base URL, e.g. "http://localhost:3000".
	URL string `yaml:"url"`

	// CredentialFile is where the encrypted API key lives.
	// Default: ~/.config/seatview/credential.age
	CredentialFile string `yaml:"credential_file"`
}

// UIConfig configures console behavior.
type UIConfig struct {
	// DefaultRange is the time range selected at startup ("5m",
	// "30m", "1h", "6h", "24h", "7d"). Default: "1h".
	DefaultRange string `yaml:"default_range"`

	// Project preselects a project by ID, skipping the picker.
	Project string `yaml:"project"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// File receives JSON log records. Empty disables file logging;
	// warnings still reach the status bar.
	File string `yaml:"file"`

	// Level is the minimum level written to File ("debug", "info",
	// "warn", "error"). Default: "info".
	Level string `yaml:"level"`
}

// Default returns the base configuration applied before the file is
// read. The config file is still required; these just give every
// field a sensible zero-value.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			URL:            "http://localhost:3000",
			CredentialFile: filepath.Join(homeDir, ".config", "seatview", "credential.age"),
		},
		UI: UIConfig{
			DefaultRange: "1h",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file named by SEATVIEW_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv("SEATVIEW_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("SEATVIEW_CONFIG environment variable not set; " +
			"set it to the path of your seatview.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile reads the config file at path, applies the matching
// environment override section, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvironmentOverrides merges the section matching Environment
// over the base values.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}
	if overrides.Server != nil {
		mergeNonZero(&c.Server.URL, overrides.Server.URL)
		mergeNonZero(&c.Server.CredentialFile, overrides.Server.CredentialFile)
	}
	if overrides.UI != nil {
		mergeNonZero(&c.UI.DefaultRange, overrides.UI.DefaultRange)
		mergeNonZero(&c.UI.Project, overrides.UI.Project)
	}
	if overrides.Log != nil {
		mergeNonZero(&c.Log.File, overrides.Log.File)
		mergeNonZero(&c.Log.Level, overrides.Log.Level)
	}
}

// mergeNonZero sets *target to value unless value is empty.
func mergeNonZero(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// validate rejects configurations that cannot work.
func (c *Config) validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must be set")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
