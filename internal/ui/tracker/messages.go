// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tracker

import (
	"github.com/jeranaias/sleeptrack-tui/internal/reconcile"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// =============================================================================
// LOADING
// =============================================================================

// loadedMsg carries a snapshot read from the source. seq orders reads by
// when they started, not when they finished.
type loadedMsg struct {
	seq    uint64
	nights []sleep.Night
	err    error
}

// diffedMsg carries a diff computed off the UI goroutine.
type diffedMsg struct {
	result reconcile.Result[sleep.Night]
}

// refreshMsg is sent when the database changed on disk.
type refreshMsg struct{}

// =============================================================================
// ACTIONS
// =============================================================================

// actionMsg reports the outcome of a store operation.
type actionMsg struct {
	done string
	err  error
}
