// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the sleep-night data source for the tracker.
//
// Nights are kept in a single SQLite table (pure Go driver, WAL journal). The
// tracker only ever reads whole snapshots through the Source interface; the
// write operations exist so the CLI and the TUI can record nights.
//
// # Key Types
//
//   - Source: anything that can produce the current list of nights
//   - NightStore: SQLite-backed Source with start/stop/rate operations
//   - MemorySource: in-memory Source for tests and offline diffs
//
// # Usage
//
//	store, err := storage.Open(path)
//	night, err := store.Start(ctx)
//	night, err = store.Stop(ctx)
//	err = store.SetQuality(ctx, night.ID, 4)
//	nights, err := store.Nights(ctx) // newest first
//
// # Storage Location
//
// The database lives at ~/.sleeptrack/nights.db unless configured otherwise.
package storage
