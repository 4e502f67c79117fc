// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tracker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sleeptrack-tui/internal/util"
)

// View renders the header, the night list and the status bar.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.list.View(),
		"",
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("sleeptrack")

	count := fmt.Sprintf("%d nights", m.list.Len())
	if m.list.Len() == 1 {
		count = "1 night"
	}
	header := title + " " + m.theme.Subtitle.Render(count)

	if m.loads > 0 {
		header += " " + m.spinner.View() + m.theme.Subtitle.Render(" loading")
	}
	return header
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		m.theme.Shortcut("s", "start"),
		m.theme.Shortcut("e", "stop"),
		m.theme.Shortcut("enter", "select"),
		m.theme.Shortcut("0-5", "rate"),
		m.theme.Shortcut("r", "reload"),
		m.theme.Shortcut("q", "quit"),
	}
	bar := strings.Join(shortcuts, "  ")

	var msg string
	switch {
	case m.err != nil:
		msg = m.theme.StatusError.Render(util.Truncate(m.err.Error(), max(m.width-4, 10)))
	case m.status != "":
		msg = util.Truncate(m.status, max(m.width-4, 10))
	}

	if msg == "" {
		return m.theme.StatusBar.Render(bar)
	}
	return m.theme.StatusBar.Render(msg) + "\n" + m.theme.StatusBar.Render(bar)
}
