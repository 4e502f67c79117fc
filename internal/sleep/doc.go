// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sleep defines the sleep-night record shown by the tracker and the
// text used to present it.
//
// # Key Types
//
//   - Night: one recorded night (start, end, quality)
//
// # Identity
//
// Two nights are the same entity when their IDs match (SameNight); they render
// identically when every field matches (SameNightContent). These are the
// predicates handed to the list reconciler.
package sleep
