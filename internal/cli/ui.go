// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sleeptrack-tui/internal/ui/styles"
	"github.com/jeranaias/sleeptrack-tui/internal/ui/tracker"
	"github.com/jeranaias/sleeptrack-tui/internal/watch"
)

func (a *app) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the night list (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runUI,
	}
}

func (a *app) runUI(cmd *cobra.Command, _ []string) error {
	if !IsStdoutTTY() {
		return fmt.Errorf("the night list needs a terminal, try: sleeptrack list")
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := tracker.Options{
		Store:   store,
		Theme:   styles.NewTheme(a.cfg.UI.Theme),
		ShowIDs: a.cfg.UI.ShowIDs,
		Logger:  log.Logger.With().Str("component", "tracker").Logger(),
		OnActivate: func(nightID int64) {
			log.Info().Int64("night", nightID).Msg("night activated")
		},
	}

	if a.cfg.Watch.Enabled {
		w, err := watch.New(store.Path(), a.cfg.Watch.Debounce(), a.cfg.Watch.MaxRefreshPerSec,
			log.Logger.With().Str("component", "watch").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("live reload disabled")
		} else {
			if err := w.Start(); err != nil {
				log.Warn().Err(err).Msg("live reload disabled")
			} else {
				opts.Changes = w.Changes()
			}
			defer w.Close()
		}
	}

	log.Info().Str("db", store.Path()).Msg("starting night list")
	p := tea.NewProgram(tracker.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("night list failed: %w", err)
	}
	return nil
}
