// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes night lists to files.
//
// # Supported Formats
//
//   - JSON: a bare array of nights, readable by "sleeptrack diff"
//   - Markdown: a table with durations and ratings
//   - CSV: one row per night for spreadsheets
//
// # Usage
//
//	exporter, err := export.ForFormat("md", export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	data, err := exporter.Export(nights)
package export
