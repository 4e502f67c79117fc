// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// MemorySource is a Source over an in-memory list.
type MemorySource struct {
	mu     sync.Mutex
	nights []sleep.Night
	err    error
}

// NewMemorySource returns a source serving a copy of nights.
func NewMemorySource(nights ...sleep.Night) *MemorySource {
	return &MemorySource{nights: slices.Clone(nights)}
}

// Set replaces the served list.
func (m *MemorySource) Set(nights []sleep.Night) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nights = slices.Clone(nights)
}

// Fail makes every following Nights call return err (nil to recover).
func (m *MemorySource) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Nights implements Source.
func (m *MemorySource) Nights(ctx context.Context) ([]sleep.Night, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.nights), nil
}
