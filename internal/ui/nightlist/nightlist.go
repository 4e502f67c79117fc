// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nightlist provides the scrollable list of sleep nights. The list is
// a reconcile.Surface: it never reloads wholesale, it replays edit scripts.
package nightlist

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sleeptrack-tui/internal/reconcile"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
	"github.com/jeranaias/sleeptrack-tui/internal/ui/styles"
	"github.com/jeranaias/sleeptrack-tui/internal/util"
)

var _ reconcile.Surface[sleep.Night] = (*Model)(nil)

// =============================================================================
// MESSAGES AND KEYS
// =============================================================================

// ActivatedMsg is sent when the user activates a row. It carries only the
// night's identity.
type ActivatedMsg struct {
	NightID int64
}

// KeyMap defines the list's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Activate key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

type mark int

const (
	markNone mark = iota
	markInserted
	markUpdated
)

type row struct {
	night sleep.Night
	mark  mark
}

// Model is the night list component.
type Model struct {
	rows   []row
	cursor int
	offset int

	width  int
	height int

	theme   *styles.Theme
	keys    KeyMap
	showIDs bool
	loc     *time.Location

	// notify is the activation notifier; nil means messages only
	notify func(nightID int64)
}

// New creates an empty list.
func New(theme *styles.Theme) *Model {
	return &Model{
		theme:   theme,
		keys:    DefaultKeyMap(),
		showIDs: true,
		loc:     time.Local,
		width:   80,
		height:  10,
	}
}

// SetSize sets the component dimensions; height is in rows.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.scrollToCursor()
}

// SetShowIDs toggles the id column.
func (m *Model) SetShowIDs(show bool) {
	m.showIDs = show
}

// SetLocation sets the zone used for weekday names.
func (m *Model) SetLocation(loc *time.Location) {
	m.loc = loc
}

// SetNotifier registers a function called with the night ID on activation.
func (m *Model) SetNotifier(notify func(nightID int64)) {
	m.notify = notify
}

// Len returns the number of rows.
func (m *Model) Len() int {
	return len(m.rows)
}

// Nights returns the displayed nights in order.
func (m *Model) Nights() []sleep.Night {
	out := make([]sleep.Night, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.night
	}
	return out
}

// Cursor returns the cursor row index.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the night under the cursor.
func (m *Model) Selected() (sleep.Night, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return sleep.Night{}, false
	}
	return m.rows[m.cursor].night, true
}

// ClearMarks drops the inserted/updated highlights.
func (m *Model) ClearMarks() {
	for i := range m.rows {
		m.rows[i].mark = markNone
	}
}

// =============================================================================
// SURFACE
// =============================================================================

// The cursor stays on the same night while rows shift around it.

// InsertAt implements reconcile.Surface.
func (m *Model) InsertAt(index int, n sleep.Night) {
	m.rows = slices.Insert(m.rows, index, row{night: n, mark: markInserted})
	if len(m.rows) > 1 && index <= m.cursor {
		m.cursor++
	}
	m.scrollToCursor()
}

// RemoveAt implements reconcile.Surface.
func (m *Model) RemoveAt(index int) {
	m.rows = slices.Delete(m.rows, index, index+1)
	if index < m.cursor {
		m.cursor--
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.scrollToCursor()
}

// MoveAt implements reconcile.Surface.
func (m *Model) MoveAt(from, to int) {
	r := m.rows[from]
	m.rows = slices.Delete(m.rows, from, from+1)
	m.rows = slices.Insert(m.rows, to, r)

	switch {
	case m.cursor == from:
		m.cursor = to
	case from < m.cursor && to >= m.cursor:
		m.cursor--
	case from > m.cursor && to <= m.cursor:
		m.cursor++
	}
	m.scrollToCursor()
}

// UpdateAt implements reconcile.Surface.
func (m *Model) UpdateAt(index int, n sleep.Night) {
	m.rows[index].night = n
	if m.rows[index].mark == markNone {
		m.rows[index].mark = markUpdated
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles navigation and activation keys.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.ClearMarks()

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
		m.scrollToCursor()
	case key.Matches(keyMsg, m.keys.Bottom):
		m.cursor = max(len(m.rows)-1, 0)
		m.scrollToCursor()
	case key.Matches(keyMsg, m.keys.Activate):
		return m, m.activate()
	}
	return m, nil
}

func (m *Model) activate() tea.Cmd {
	n, ok := m.Selected()
	if !ok {
		return nil
	}
	if m.notify != nil {
		m.notify(n.ID)
	}
	id := n.ID
	return func() tea.Msg { return ActivatedMsg{NightID: id} }
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = max(min(m.offset, len(m.rows)-m.height), 0)
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the visible rows.
func (m *Model) View() string {
	if len(m.rows) == 0 {
		return m.theme.Empty.Render("No nights recorded yet. Press s to start tracking.")
	}

	end := min(m.offset+m.height, len(m.rows))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	n := r.night

	var text, quality string
	if n.Active() {
		text = "In progress since " + n.Start().In(m.loc).Format("Mon 15:04")
		quality = "--"
	} else {
		text = sleep.FormatDuration(n.StartTimeMilli, n.EndTimeMilli, m.loc)
		quality = sleep.QualityString(n.Quality)
	}

	idCol := ""
	if m.showIDs {
		idCol = fmt.Sprintf("#%d", n.ID)
	}

	textWidth := max(m.width-2-3-14-8, 12)
	line := " " + util.PadRight(sleep.QualityGlyph(n.Quality), 3) +
		util.PadRight(text, textWidth) + " " +
		lipgloss.NewStyle().Foreground(styles.QualityColor(n.Quality)).Render(util.PadRight(quality, 12))

	if idCol != "" {
		line += " " + m.theme.RowID.Render(idCol)
	}

	switch {
	case i == m.cursor:
		return m.theme.RowSelected.Render(line)
	case r.mark == markInserted:
		return m.theme.RowInserted.Render(line)
	case r.mark == markUpdated:
		return m.theme.RowUpdated.Render(line)
	default:
		return m.theme.Row.Render(line)
	}
}
