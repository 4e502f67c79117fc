// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reconcile computes the positional edits that turn one snapshot of a
// list into another.
//
// The reconciler never looks inside items. Callers supply two predicates: one
// that says whether two items are the same logical entity, and one that says
// whether two items of the same entity render identically. The result is an
// EditScript of Insert, Remove, Move and Update operations which, applied in
// order to the old snapshot, yields the new one.
//
// # Key Types
//
//   - Op: a single edit (insert, remove, move, update)
//   - EditScript: ordered edits plus summary statistics
//   - Surface: anything that can replay edits (a terminal list, a test recorder)
//   - Differ: owner of a visible list; computes diffs off-thread and applies
//     only the newest result
//
// # Usage
//
// Compute and replay a diff:
//
//	script := reconcile.Diff(oldNights, newNights, sleep.SameNight, sleep.SameNightContent)
//	reconcile.Dispatch(script, surface)
//
// Drive a visible list from background refreshes:
//
//	d := reconcile.NewDiffer(surface, sameIdentity, sameContent)
//	pending := d.Submit(fresh)
//	go func() { results <- pending.Compute() }()
//	// later, on the goroutine that owns the surface:
//	d.Apply(<-results)
package reconcile
