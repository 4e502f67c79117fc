// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the sleeptrack command line.
//
// Running sleeptrack without a subcommand opens the night list. The other
// commands manage the night database directly:
//
//	sleeptrack start             Start tracking a night
//	sleeptrack stop              End the night in progress
//	sleeptrack rate 12 4         Rate night #12 "Pretty good"
//	sleeptrack list [--json]     Print all nights, newest first
//	sleeptrack clear --yes       Delete every night
//	sleeptrack export -o n.csv   Export nights as JSON, Markdown or CSV
//	sleeptrack diff a.json b.json
//	                             Print the edit script between two exports
//	sleeptrack config init|show  Write or print the configuration
//
// Global flags --config, --db and --log-level override the config file.
package cli
