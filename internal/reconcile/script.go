// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// OPERATIONS
// =============================================================================

// OpKind identifies the type of an edit operation.
type OpKind int

const (
	// OpInsert inserts Item at Index.
	OpInsert OpKind = iota
	// OpRemove removes the element at Index.
	OpRemove
	// OpMove removes the element at Index and reinserts it so that it ends up at To.
	OpMove
	// OpUpdate replaces the element at Index with Item (same identity, new content).
	OpUpdate
)

// String returns the string representation of an op kind.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Symbol returns the one-character marker used when printing a script.
func (k OpKind) Symbol() string {
	switch k {
	case OpInsert:
		return "+"
	case OpRemove:
		return "-"
	case OpMove:
		return ">"
	case OpUpdate:
		return "~"
	default:
		return "?"
	}
}

// Op is a single positional edit. Positions refer to the list as it stands
// after every preceding op of the script has been applied.
type Op[T any] struct {
	Kind  OpKind
	Index int // Insert/Remove/Update position, Move source
	To    int // Move destination, unused otherwise
	Item  T   // Inserted or updated item, zero for Remove and Move
}

// String formats the op without its item.
func (o Op[T]) String() string {
	if o.Kind == OpMove {
		return fmt.Sprintf("%s %d->%d", o.Kind, o.Index, o.To)
	}
	return fmt.Sprintf("%s %d", o.Kind, o.Index)
}

// =============================================================================
// EDIT SCRIPT
// =============================================================================

// Stats counts the ops of a script by kind.
type Stats struct {
	Inserts int
	Removes int
	Moves   int
	Updates int
}

// Total returns the number of ops.
func (s Stats) Total() int {
	return s.Inserts + s.Removes + s.Moves + s.Updates
}

// EditScript is the ordered list of edits that transforms one snapshot into
// another.
type EditScript[T any] struct {
	Ops   []Op[T]
	Stats Stats
}

func (s *EditScript[T]) add(op Op[T]) {
	s.Ops = append(s.Ops, op)
	switch op.Kind {
	case OpInsert:
		s.Stats.Inserts++
	case OpRemove:
		s.Stats.Removes++
	case OpMove:
		s.Stats.Moves++
	case OpUpdate:
		s.Stats.Updates++
	}
}

// Len returns the number of ops in the script.
func (s EditScript[T]) Len() int {
	return len(s.Ops)
}

// Empty reports whether the script contains no ops.
func (s EditScript[T]) Empty() bool {
	return len(s.Ops) == 0
}

// Summary returns a short human-readable count of the script's ops,
// e.g. "+2 -1 >1 ~3" or "no changes".
func (s EditScript[T]) Summary() string {
	if s.Empty() {
		return "no changes"
	}
	var parts []string
	if s.Stats.Inserts > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.Stats.Inserts))
	}
	if s.Stats.Removes > 0 {
		parts = append(parts, fmt.Sprintf("-%d", s.Stats.Removes))
	}
	if s.Stats.Moves > 0 {
		parts = append(parts, fmt.Sprintf(">%d", s.Stats.Moves))
	}
	if s.Stats.Updates > 0 {
		parts = append(parts, fmt.Sprintf("~%d", s.Stats.Updates))
	}
	return strings.Join(parts, " ")
}

// Format renders the script one op per line, using describe to print items.
// A nil describe prints items with %v.
func (s EditScript[T]) Format(describe func(T) string) string {
	if describe == nil {
		describe = func(item T) string { return fmt.Sprintf("%v", item) }
	}

	var sb strings.Builder
	for _, op := range s.Ops {
		sb.WriteString(op.Kind.Symbol())
		sb.WriteString(" ")
		sb.WriteString(op.String())
		if op.Kind == OpInsert || op.Kind == OpUpdate {
			sb.WriteString(" ")
			sb.WriteString(describe(op.Item))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// =============================================================================
// APPLYING SCRIPTS
// =============================================================================

// Surface is a rendering backend that mirrors a list and can replay edits.
// Implementations must not assume the edits come from any particular source.
type Surface[T any] interface {
	InsertAt(index int, item T)
	RemoveAt(index int)
	MoveAt(from, to int)
	UpdateAt(index int, item T)
}

// Dispatch replays every op of the script against the surface, in order.
func Dispatch[T any](script EditScript[T], surface Surface[T]) {
	for _, op := range script.Ops {
		switch op.Kind {
		case OpInsert:
			surface.InsertAt(op.Index, op.Item)
		case OpRemove:
			surface.RemoveAt(op.Index)
		case OpMove:
			surface.MoveAt(op.Index, op.To)
		case OpUpdate:
			surface.UpdateAt(op.Index, op.Item)
		}
	}
}

// Apply returns a copy of list with the script applied. The input is not
// modified. Apply panics if an op is out of range for the list it is applied
// to, which means the script was computed against a different snapshot.
func Apply[T any](list []T, script EditScript[T]) []T {
	s := &SliceSurface[T]{Items: slices.Clone(list)}
	Dispatch(script, s)
	return s.Items
}

// SliceSurface is a Surface backed by a plain slice.
type SliceSurface[T any] struct {
	Items []T
}

// InsertAt implements Surface.
func (s *SliceSurface[T]) InsertAt(index int, item T) {
	s.Items = slices.Insert(s.Items, index, item)
}

// RemoveAt implements Surface.
func (s *SliceSurface[T]) RemoveAt(index int) {
	s.Items = slices.Delete(s.Items, index, index+1)
}

// MoveAt implements Surface.
func (s *SliceSurface[T]) MoveAt(from, to int) {
	item := s.Items[from]
	s.Items = slices.Delete(s.Items, from, from+1)
	s.Items = slices.Insert(s.Items, to, item)
}

// UpdateAt implements Surface.
func (s *SliceSurface[T]) UpdateAt(index int, item T) {
	s.Items[index] = item
}
