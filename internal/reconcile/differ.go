// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"context"
	"slices"
	"sync"
)

// =============================================================================
// RESULTS
// =============================================================================

// Result is a computed diff tagged with the generation it was submitted under.
type Result[T any] struct {
	Generation uint64
	Script     EditScript[T]
	Old        []T
	New        []T

	// Fault holds the value a predicate panicked with when the diff was
	// computed by Run. A faulted result is never applied.
	Fault any
}

// Pending is a diff that has been submitted but not yet computed. It holds
// private copies of both snapshots, so it may be computed on any goroutine
// while the caller keeps mutating its own slices.
type Pending[T any] struct {
	generation   uint64
	old          []T
	new          []T
	sameIdentity func(a, b T) bool
	sameContent  func(a, b T) bool
}

// Generation returns the generation this diff was submitted under.
func (p *Pending[T]) Generation() uint64 {
	return p.generation
}

// Compute runs the diff. It is pure and may be called from any goroutine.
func (p *Pending[T]) Compute() Result[T] {
	return Result[T]{
		Generation: p.generation,
		Script:     Diff(p.old, p.new, p.sameIdentity, p.sameContent),
		Old:        p.old,
		New:        p.new,
	}
}

// =============================================================================
// DIFFER
// =============================================================================

// Differ owns the visible list behind a Surface. New snapshots are submitted
// from anywhere; diffs may be computed on background goroutines; only the
// result of the latest submission is ever applied, and applications are
// serialized.
type Differ[T any] struct {
	mu sync.Mutex

	surface      Surface[T]
	sameIdentity func(a, b T) bool
	sameContent  func(a, b T) bool

	current    []T
	generation uint64 // latest submission
	applied    uint64 // generation of current
}

// NewDiffer creates a differ over an initially empty surface.
func NewDiffer[T any](surface Surface[T], sameIdentity, sameContent func(a, b T) bool) *Differ[T] {
	return &Differ[T]{
		surface:      surface,
		sameIdentity: sameIdentity,
		sameContent:  sameContent,
	}
}

// Current returns a copy of the list as last applied to the surface.
func (d *Differ[T]) Current() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.current)
}

// Generation returns the generation of the latest submission.
func (d *Differ[T]) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Submit registers list as the newest snapshot and returns the diff against
// the currently displayed list. Any earlier pending diff becomes stale.
func (d *Differ[T]) Submit(list []T) *Pending[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	return &Pending[T]{
		generation:   d.generation,
		old:          slices.Clone(d.current),
		new:          slices.Clone(list),
		sameIdentity: d.sameIdentity,
		sameContent:  d.sameContent,
	}
}

// Apply replays r against the surface if it is the result of the latest
// submission and has not been applied yet. It reports whether the script was
// applied. Call it from the goroutine that owns the surface.
func (d *Differ[T]) Apply(r Result[T]) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Fault != nil || r.Generation != d.generation || r.Generation <= d.applied {
		return false
	}

	Dispatch(r.Script, d.surface)
	d.current = r.New
	d.applied = r.Generation
	return true
}

// Run submits list and computes the diff on a new goroutine. The result is
// delivered on the returned channel, which is closed afterwards; if ctx is
// done before computation starts the channel is closed without a result.
// A predicate panic is recovered and reported in Result.Fault.
func (d *Differ[T]) Run(ctx context.Context, list []T) <-chan Result[T] {
	pending := d.Submit(list)
	out := make(chan Result[T], 1)

	go func() {
		defer close(out)
		if ctx.Err() != nil {
			return
		}
		out <- computeRecovering(pending)
	}()

	return out
}

func computeRecovering[T any](p *Pending[T]) (r Result[T]) {
	defer func() {
		if v := recover(); v != nil {
			r = Result[T]{Generation: p.generation, Fault: v}
		}
	}()
	return p.Compute()
}
