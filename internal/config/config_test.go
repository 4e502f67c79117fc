// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SLEEPTRACK_HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "nights.db"), cfg.Storage.DatabasePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce())
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("SLEEPTRACK_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
database_path = "/tmp/other.db"

[watch]
enabled = false

[ui]
theme = "dark"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.DatabasePath)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "ui.theme", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SLEEPTRACK_DB", "/data/n.db")
	t.Setenv("SLEEPTRACK_LOG_LEVEL", "warn")
	t.Setenv("SLEEPTRACK_LOG_FILE", "/data/n.log")
	t.Setenv("SLEEPTRACK_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "/data/n.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/data/n.log", cfg.Log.File)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, "", false},
		{"empty db", func(c *Config) { c.Storage.DatabasePath = "" }, "storage.database_path", true},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, "watch.debounce_ms", true},
		{"negative rate", func(c *Config) { c.Watch.MaxRefreshPerSec = -2 }, "watch.max_refresh_per_sec", true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level", true},
		{"upper theme ok", func(c *Config) { c.UI.Theme = "DARK" }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("SLEEPTRACK_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UI.ShowIDs = false
	cfg.Watch.MaxRefreshPerSec = 1.5
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}
