// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for sleeptrack.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/sleeptrack-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sleeptrack configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Watch   WatchConfig   `toml:"watch"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig locates the night database.
type StorageConfig struct {
	// DatabasePath is the SQLite file (default ~/.sleeptrack/nights.db)
	DatabasePath string `toml:"database_path"`
}

// WatchConfig controls live reloading when the database changes on disk.
type WatchConfig struct {
	Enabled bool `toml:"enabled"`
	// DebounceMs groups bursts of file events into one refresh
	DebounceMs int `toml:"debounce_ms"`
	// MaxRefreshPerSec caps how often the list reloads
	MaxRefreshPerSec float64 `toml:"max_refresh_per_sec"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme   string `toml:"theme"`
	ShowIDs bool   `toml:"show_ids"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error
	Level string `toml:"level"`
	// File receives logs while the TUI owns the terminal
	// (default ~/.sleeptrack/sleeptrack.log)
	File string `toml:"file"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	dir := Dir()
	return &Config{
		Storage: StorageConfig{
			DatabasePath: filepath.Join(dir, "nights.db"),
		},
		Watch: WatchConfig{
			Enabled:          true,
			DebounceMs:       250,
			MaxRefreshPerSec: 4,
		},
		UI: UIConfig{
			Theme:   "auto",
			ShowIDs: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "sleeptrack.log"),
		},
	}
}

// Dir returns the sleeptrack base directory.
func Dir() string {
	if dir := os.Getenv("SLEEPTRACK_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sleeptrack"
	}
	return filepath.Join(home, ".sleeptrack")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// SetDefaults fills empty or zero fields from Default.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = defaults.Storage.DatabasePath
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
	if c.Watch.MaxRefreshPerSec == 0 {
		c.Watch.MaxRefreshPerSec = defaults.Watch.MaxRefreshPerSec
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}
}

// ApplyEnvOverrides applies SLEEPTRACK_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SLEEPTRACK_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("SLEEPTRACK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SLEEPTRACK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("SLEEPTRACK_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config at path (the default location when path is empty),
// then applies defaults, environment overrides and validation. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# sleeptrack configuration file\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Encode returns cfg as TOML text.
func Encode(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

var validThemes = map[string]bool{"auto": true, "dark": true, "light": true}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Storage.DatabasePath == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.database_path",
			Message: "must not be empty",
		})
	}

	if c.Watch.DebounceMs < 0 || c.Watch.DebounceMs > 10000 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: fmt.Sprintf("%d out of range, must be 0-10000", c.Watch.DebounceMs),
		})
	}
	if c.Watch.MaxRefreshPerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.max_refresh_per_sec",
			Message: "must not be negative",
		})
	}

	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
