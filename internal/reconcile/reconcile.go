// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import "slices"

// =============================================================================
// DIFF ENTRY POINTS
// =============================================================================

// Diff computes the edits that transform old into new.
//
// sameIdentity reports whether two items are the same logical entity;
// sameContent reports whether two items of the same entity look the same.
// Both must be pure. Items retained across the snapshots are never emitted as
// a Remove+Insert pair: they produce nothing, an Update, or a Move.
//
// A nil sameIdentity falls back to redrawing everything (every old item is
// removed, every new item inserted). A nil sameContent treats every retained
// item as changed.
//
// Neither input is modified. A panic raised by a predicate propagates to the
// caller.
func Diff[T any](old, new []T, sameIdentity, sameContent func(a, b T) bool) EditScript[T] {
	if sameIdentity == nil {
		return redrawAll(old, new)
	}
	return build(old, new, matchByPredicate(old, new, sameIdentity), sameContent)
}

// DiffKeyed is Diff with identity given as a comparable key. Matching is done
// through a hash map instead of pairwise predicate calls; the resulting script
// is the same as Diff(old, new, Keyed(key), sameContent).
func DiffKeyed[T any, K comparable](old, new []T, key func(T) K, sameContent func(a, b T) bool) EditScript[T] {
	return build(old, new, matchByKey(old, new, key), sameContent)
}

// Keyed builds an identity predicate that compares items by key.
func Keyed[T any, K comparable](key func(T) K) func(a, b T) bool {
	return func(a, b T) bool {
		return key(a) == key(b)
	}
}

// redrawAll is the baseline used when no identity relation is available.
func redrawAll[T any](old, new []T) EditScript[T] {
	var script EditScript[T]
	for i := len(old) - 1; i >= 0; i-- {
		script.add(Op[T]{Kind: OpRemove, Index: i})
	}
	for j, item := range new {
		script.add(Op[T]{Kind: OpInsert, Index: j, Item: item})
	}
	return script
}

// =============================================================================
// IDENTITY MATCHING
// =============================================================================

// matching pairs old positions with new positions of the same identity.
// Unmatched positions hold -1.
type matching struct {
	oldToNew []int
	newToOld []int
}

func newMatching(oldLen, newLen int) matching {
	m := matching{
		oldToNew: make([]int, oldLen),
		newToOld: make([]int, newLen),
	}
	for i := range m.oldToNew {
		m.oldToNew[i] = -1
	}
	for j := range m.newToOld {
		m.newToOld[j] = -1
	}
	return m
}

// matchByPredicate pairs each old item, in order, with the earliest unmatched
// new item of the same identity. Duplicated identities pair up in order.
func matchByPredicate[T any](old, new []T, sameIdentity func(a, b T) bool) matching {
	m := newMatching(len(old), len(new))
	lo := 0 // every new index below lo is already matched
	for i := range old {
		for lo < len(new) && m.newToOld[lo] >= 0 {
			lo++
		}
		for j := lo; j < len(new); j++ {
			if m.newToOld[j] >= 0 {
				continue
			}
			if sameIdentity(old[i], new[j]) {
				m.oldToNew[i] = j
				m.newToOld[j] = i
				break
			}
		}
	}
	return m
}

// matchByKey produces the same pairing as matchByPredicate for key equality.
func matchByKey[T any, K comparable](old, new []T, key func(T) K) matching {
	m := newMatching(len(old), len(new))
	positions := make(map[K][]int, len(new))
	for j, item := range new {
		k := key(item)
		positions[k] = append(positions[k], j)
	}
	for i, item := range old {
		k := key(item)
		queue := positions[k]
		if len(queue) == 0 {
			continue
		}
		j := queue[0]
		positions[k] = queue[1:]
		m.oldToNew[i] = j
		m.newToOld[j] = i
	}
	return m
}

// =============================================================================
// SCRIPT CONSTRUCTION
// =============================================================================

// build emits, in order: removals (back to front, so every index is an old
// index), moves for retained items outside the stable subsequence, insertions
// (front to back, so every index is a new index) and finally updates at their
// new positions.
func build[T any](old, new []T, m matching, sameContent func(a, b T) bool) EditScript[T] {
	var script EditScript[T]

	for i := len(old) - 1; i >= 0; i-- {
		if m.oldToNew[i] < 0 {
			script.add(Op[T]{Kind: OpRemove, Index: i})
		}
	}

	// After the removals the list holds the retained items in old order.
	// cur tracks them by their new index.
	cur := make([]int, 0, len(old))
	for i := range old {
		if j := m.oldToNew[i]; j >= 0 {
			cur = append(cur, j)
		}
	}

	settled := make([]bool, len(new))
	for p, keep := range stableSubsequence(cur) {
		if keep {
			settled[cur[p]] = true
		}
	}

	// Walk retained items in new order and slot each unsettled one directly
	// after its predecessor. Settled items are always in correct relative
	// order, so each placement is final.
	prev := -1
	for j := range new {
		if m.newToOld[j] < 0 {
			continue
		}
		if !settled[j] {
			from := slices.Index(cur, j)
			cur = slices.Delete(cur, from, from+1)
			to := 0
			if prev >= 0 {
				to = slices.Index(cur, prev) + 1
			}
			cur = slices.Insert(cur, to, j)
			if from != to {
				script.add(Op[T]{Kind: OpMove, Index: from, To: to})
			}
			settled[j] = true
		}
		prev = j
	}

	for j, item := range new {
		if m.newToOld[j] < 0 {
			script.add(Op[T]{Kind: OpInsert, Index: j, Item: item})
		}
	}

	for j, item := range new {
		i := m.newToOld[j]
		if i < 0 {
			continue
		}
		if sameContent == nil || !sameContent(old[i], item) {
			script.add(Op[T]{Kind: OpUpdate, Index: j, Item: item})
		}
	}

	return script
}

// stableSubsequence marks a longest strictly increasing subsequence of seq.
// Among several of maximal length it picks the one that is lexicographically
// smallest by position, so the earliest items stay put and later ones move.
//
// seq holds new-snapshot positions listed in old-snapshot order, so the marked
// entries are exactly the retained items that keep their relative order.
func stableSubsequence(seq []int) []bool {
	n := len(seq)
	keep := make([]bool, n)
	if n == 0 {
		return keep
	}

	// run[i] is the length of the longest increasing subsequence starting at i.
	run := make([]int, n)
	best := 0
	for i := n - 1; i >= 0; i-- {
		run[i] = 1
		for k := i + 1; k < n; k++ {
			if seq[k] > seq[i] && run[k]+1 > run[i] {
				run[i] = run[k] + 1
			}
		}
		best = max(best, run[i])
	}

	need, last := best, -1
	for i := 0; i < n && need > 0; i++ {
		if seq[i] > last && run[i] == need {
			keep[i] = true
			last = seq[i]
			need--
		}
	}
	return keep
}
