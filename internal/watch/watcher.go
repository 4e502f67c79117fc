// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch signals when the night database changes on disk, so an open
// list can reload even when another process (the CLI) wrote the change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// tick is how often pending changes are checked against the debounce window.
const tick = 25 * time.Millisecond

// Watcher watches a database file (and its SQLite sidecar files) and emits a
// coalesced signal on Changes after writes settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	limiter  *rate.Limiter
	logger   zerolog.Logger

	changes chan struct{}

	mu         sync.Mutex
	pending    bool
	lastChange time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a watcher for dbPath. maxPerSec caps signals per second
// (0 means unlimited).
func New(dbPath string, debounce time.Duration, maxPerSec float64, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	limit := rate.Inf
	if maxPerSec > 0 {
		limit = rate.Limit(maxPerSec)
	}

	base := filepath.Base(dbPath)
	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		watcher: fw,
		dir:     filepath.Dir(dbPath),
		names: map[string]bool{
			base:              true,
			base + "-wal":     true,
			base + "-journal": true,
		},
		debounce: debounce,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With().Str("component", "watch").Logger(),
		changes:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Changes delivers one value per settled burst of writes. At most one signal
// is buffered; it is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching. The directory is watched rather than the file so
// that replaced or recreated files are still seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()

	w.logger.Debug().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("Watching database")
	return nil
}

// Close stops watching and closes Changes.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.lastChange = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// processPending emits a signal once the last change is older than the
// debounce window and the rate limiter allows it.
func (w *Watcher) processPending() {
	defer w.wg.Done()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case now := <-ticker.C:
			w.mu.Lock()
			ready := w.pending && now.Sub(w.lastChange) >= w.debounce
			if ready && w.limiter.Allow() {
				w.pending = false
			} else {
				ready = false
			}
			w.mu.Unlock()

			if !ready {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default: // a signal is already waiting
			}
		}
	}
}
