// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for sleeptrack.
//
// Configuration is read from a TOML file, completed with defaults, overridden
// by environment variables and then validated.
//
// # File Location
//
// The default file is ~/.sleeptrack/config.toml (the base directory can be
// moved with SLEEPTRACK_HOME). A missing file is not an error: defaults apply.
//
// # Environment Overrides
//
//   - SLEEPTRACK_DB: storage.database_path
//   - SLEEPTRACK_LOG_LEVEL: log.level
//   - SLEEPTRACK_LOG_FILE: log.file
//   - SLEEPTRACK_THEME: ui.theme
//
// # Usage
//
//	cfg, err := config.Load("")          // default location
//	cfg, err = config.Load("my.toml")    // explicit file
//	err = config.Save(cfg, config.Path())
package config
