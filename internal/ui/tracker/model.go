// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tracker provides the root Bubble Tea model of the sleep tracker.
//
// Snapshots are read from a storage.Source, diffed against the displayed list
// on a worker goroutine and replayed onto the night list on the UI goroutine.
// Only the newest snapshot's diff is ever applied.
package tracker

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sleeptrack-tui/internal/reconcile"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
	"github.com/jeranaias/sleeptrack-tui/internal/storage"
	"github.com/jeranaias/sleeptrack-tui/internal/ui/nightlist"
	"github.com/jeranaias/sleeptrack-tui/internal/ui/styles"
)

// DefaultTimeout bounds every source and store call.
const DefaultTimeout = 5 * time.Second

// Store is the writable side of the night database.
type Store interface {
	storage.Source
	Start(ctx context.Context) (sleep.Night, error)
	Stop(ctx context.Context) (sleep.Night, error)
	SetQuality(ctx context.Context, id int64, quality int) error
}

// Options configures a tracker.
type Options struct {
	// Source provides snapshots. Defaults to Store.
	Source storage.Source

	// Store handles start, stop and rating. Nil makes the tracker read-only.
	Store Store

	// Changes signals that the database changed on disk (see watch.Watcher).
	Changes <-chan struct{}

	Theme      *styles.Theme
	ShowIDs    bool
	Logger     zerolog.Logger
	OnActivate func(nightID int64)
	Timeout    time.Duration
}

// Model is the root tracker model.
type Model struct {
	source  storage.Source
	store   Store
	changes <-chan struct{}
	timeout time.Duration
	logger  zerolog.Logger

	theme   *styles.Theme
	keys    KeyMap
	list    *nightlist.Model
	differ  *reconcile.Differ[sleep.Night]
	spinner spinner.Model

	width  int
	height int

	// loads counts snapshots read or diffed but not yet settled
	loads int
	// loadSeq numbers reads as they start; submittedSeq is the newest read
	// handed to the differ
	loadSeq      uint64
	submittedSeq uint64

	activated int64
	status    string
	err       error
}

// New creates a tracker.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}

	source := opts.Source
	if source == nil && opts.Store != nil {
		source = opts.Store
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	list := nightlist.New(theme)
	list.SetShowIDs(opts.ShowIDs)
	list.SetNotifier(opts.OnActivate)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	return Model{
		source:  source,
		store:   opts.Store,
		changes: opts.Changes,
		timeout: timeout,
		logger:  opts.Logger,
		theme:   theme,
		keys:    DefaultKeyMap(),
		list:    list,
		differ:  reconcile.NewDiffer[sleep.Night](list, sleep.SameNight, sleep.SameNightContent),
		spinner: sp,
		width:   80,
		height:  24,
		loads:   1,
		loadSeq: 1,
	}
}

// Nights returns the nights currently on screen.
func (m Model) Nights() []sleep.Night {
	return m.list.Nights()
}

// Activated returns the ID of the last activated night, or 0.
func (m Model) Activated() int64 {
	return m.activated
}

// Err returns the last error shown in the status bar.
func (m Model) Err() error {
	return m.err
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the first load and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForChange())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-4, 1))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		return m.handleLoaded(msg)

	case diffedMsg:
		return m.handleDiffed(msg)

	case refreshMsg:
		m.logger.Debug().Msg("database changed on disk")
		var cmd tea.Cmd
		m, cmd = m.startLoad()
		return m, tea.Batch(cmd, m.waitForChange())

	case actionMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.err = nil
		m.status = msg.done
		return m.startLoad()

	case nightlist.ActivatedMsg:
		m.activated = msg.NightID
		m.err = nil
		m.status = fmt.Sprintf("Night #%d selected, press 0-5 to rate", msg.NightID)
		return m, nil

	case spinner.TickMsg:
		if m.loads > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		m.list.ClearMarks()
		return m.startLoad()

	case key.Matches(msg, m.keys.Start):
		m.list.ClearMarks()
		return m, m.act("Started tracking", func(ctx context.Context, s Store) error {
			_, err := s.Start(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Stop):
		m.list.ClearMarks()
		return m, m.act("Stopped tracking", func(ctx context.Context, s Store) error {
			_, err := s.Stop(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Rate):
		m.list.ClearMarks()
		if m.activated == 0 {
			m.err = nil
			m.status = "Select a night with enter first"
			return m, nil
		}
		id, quality := m.activated, int(msg.Runes[0]-'0')
		done := fmt.Sprintf("Rated night #%d %s", id, sleep.QualityString(quality))
		return m, m.act(done, func(ctx context.Context, s Store) error {
			return s.SetQuality(ctx, id, quality)
		})
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq <= m.submittedSeq {
		m.loads = max(m.loads-1, 0)
		m.logger.Debug().Uint64("seq", msg.seq).Uint64("newest", m.submittedSeq).Msg("discarded out-of-order snapshot")
		return m, nil
	}
	m.submittedSeq = msg.seq
	if msg.err != nil {
		m.loads = max(m.loads-1, 0)
		m.setError(fmt.Errorf("failed to load nights: %w", msg.err))
		return m, nil
	}
	return m, m.diff(msg.nights)
}

func (m Model) handleDiffed(msg diffedMsg) (tea.Model, tea.Cmd) {
	m.loads = max(m.loads-1, 0)
	r := msg.result

	if r.Fault != nil {
		if r.Generation != m.differ.Generation() {
			m.logger.Debug().Uint64("generation", r.Generation).Interface("panic", r.Fault).Msg("discarded stale failed diff")
			return m, nil
		}
		m.logger.Error().Uint64("generation", r.Generation).Interface("panic", r.Fault).Msg("diff failed")
		m.setError(fmt.Errorf("diff failed: %v", r.Fault))
		return m, nil
	}

	if !m.differ.Apply(r) {
		m.logger.Debug().Uint64("generation", r.Generation).Msg("discarded stale diff")
		return m, nil
	}

	if m.activated != 0 && !slices.ContainsFunc(r.New, func(n sleep.Night) bool { return n.ID == m.activated }) {
		m.logger.Debug().Int64("night", m.activated).Msg("activated night left the list")
		m.activated = 0
	}

	m.logger.Debug().
		Uint64("generation", r.Generation).
		Int("nights", len(r.New)).
		Str("changes", r.Script.Summary()).
		Msg("applied diff")
	return m, nil
}

func (m *Model) setError(err error) {
	m.logger.Error().Err(err).Msg("tracker error")
	m.err = err
	m.status = ""
}

// =============================================================================
// COMMANDS
// =============================================================================

// startLoad counts a new load and restarts the spinner when idle.
func (m Model) startLoad() (Model, tea.Cmd) {
	m.loads++
	m.loadSeq++
	if m.loads == 1 {
		return m, tea.Batch(m.spinner.Tick, m.load())
	}
	return m, m.load()
}

func (m Model) load() tea.Cmd {
	source, timeout, seq := m.source, m.timeout, m.loadSeq
	if source == nil {
		return func() tea.Msg {
			return loadedMsg{seq: seq, err: fmt.Errorf("no night source configured")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		nights, err := source.Nights(ctx)
		return loadedMsg{seq: seq, nights: nights, err: err}
	}
}

// diff submits the snapshot now, so later snapshots supersede it, and
// computes the script on the command goroutine.
func (m Model) diff(nights []sleep.Night) tea.Cmd {
	results := m.differ.Run(context.Background(), nights)
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return diffedMsg{result: r}
	}
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m Model) act(done string, op func(ctx context.Context, s Store) error) tea.Cmd {
	store, timeout, logger := m.store, m.timeout, m.logger
	if store == nil {
		return func() tea.Msg {
			return actionMsg{err: fmt.Errorf("the night list is read-only")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := op(ctx, store); err != nil {
			return actionMsg{err: err}
		}
		logger.Info().Msg(done)
		return actionMsg{done: done}
	}
}
