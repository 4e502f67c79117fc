// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across sleeptrack.
//
// # Key Functions
//
// Display width (terminal columns, via go-runewidth):
//   - Width: columns occupied by a string
//   - Truncate: cut a string to a column budget with an ellipsis
//   - PadRight: pad a string with spaces to a column width
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
