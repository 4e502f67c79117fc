// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sleeptrack-tui/internal/export"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
	"github.com/jeranaias/sleeptrack-tui/internal/storage"
	"github.com/jeranaias/sleeptrack-tui/internal/util"
)

// =============================================================================
// START / STOP
// =============================================================================

func (a *app) startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start tracking a night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				n, err := store.Start(ctx)
				if err != nil {
					return NewCommandError("start", "starting night", err)
				}
				log.Info().Int64("night", n.ID).Msg("night started")

				if a.jsonOut {
					return a.printJSON(cmd, n)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Started night #%d at %s\n",
					SuccessStyle.Render("✓"), n.ID, n.Start().Format("Mon 15:04"))
				return nil
			})
		},
	}
}

func (a *app) stopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End the night in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				n, err := store.Stop(ctx)
				if err != nil {
					return NewCommandError("stop", "ending night", err)
				}
				log.Info().Int64("night", n.ID).Dur("duration", n.Duration()).Msg("night stopped")

				if a.jsonOut {
					return a.printJSON(cmd, n)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Stopped night #%d: %s\n",
					SuccessStyle.Render("✓"), n.ID, sleep.FormatDuration(n.StartTimeMilli, n.EndTimeMilli, nil))
				fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render(fmt.Sprintf("Rate it with: sleeptrack rate %d <0-5>", n.ID)))
				return nil
			})
		},
	}
}

// =============================================================================
// RATE
// =============================================================================

func (a *app) rateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <night-id> <quality>",
		Short: "Rate a finished night from 0 (very bad) to 5 (excellent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return &UsageError{Arg: "night id", Value: args[0], Reason: "must be a positive number", Example: "sleeptrack rate 12 4"}
			}
			quality, err := strconv.Atoi(args[1])
			if err != nil || !sleep.ValidQuality(quality) {
				return &UsageError{Arg: "quality", Value: args[1], Reason: "must be 0-5", Example: "sleeptrack rate 12 4"}
			}

			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				if err := store.SetQuality(ctx, id, quality); err != nil {
					return NewCommandError("rate", fmt.Sprintf("rating night #%d", id), err)
				}
				log.Info().Int64("night", id).Int("quality", quality).Msg("night rated")

				n, err := store.Get(ctx, id)
				if err != nil {
					return NewCommandError("rate", fmt.Sprintf("reading night #%d", id), err)
				}
				if a.jsonOut {
					return a.printJSON(cmd, n)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Rated night #%d %s %s\n",
					SuccessStyle.Render("✓"), id, sleep.QualityGlyph(quality), sleep.QualityString(quality))
				return nil
			})
		},
	}
}

// =============================================================================
// LIST
// =============================================================================

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all nights, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				nights, err := store.Nights(ctx)
				if err != nil {
					return NewCommandError("list", "reading nights", err)
				}

				if a.jsonOut {
					if nights == nil {
						nights = []sleep.Night{}
					}
					return a.printJSON(cmd, nights)
				}

				out := cmd.OutOrStdout()
				if len(nights) == 0 {
					fmt.Fprintln(out, DimStyle.Render("No nights recorded yet. Start one with: sleeptrack start"))
					return nil
				}
				width := TerminalWidth()
				for _, n := range nights {
					fmt.Fprintln(out, util.Truncate(sleep.QualityGlyph(n.Quality)+" "+sleep.Describe(n), width))
				}
				return nil
			})
		},
	}
}

// =============================================================================
// CLEAR
// =============================================================================

func (a *app) clearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				nights, err := store.Nights(ctx)
				if err != nil {
					return NewCommandError("clear", "reading nights", err)
				}

				if !yes {
					if !stdinIsTerminal(cmd) {
						return &UsageError{Arg: "confirmation", Value: "", Reason: "stdin is not a terminal, pass --yes", Example: "sleeptrack clear --yes"}
					}
					if !confirm(cmd, fmt.Sprintf("Delete all %d nights?", len(nights))) {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
				}

				if err := store.Clear(ctx); err != nil {
					return NewCommandError("clear", "deleting nights", err)
				}
				log.Info().Int("nights", len(nights)).Msg("nights cleared")

				if a.jsonOut {
					return a.printJSON(cmd, map[string]int{"deleted": len(nights)})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %d nights\n", SuccessStyle.Render("✓"), len(nights))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on the command's stdin. Anything but y/yes
// is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", WarningStyle.Render(question))
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// =============================================================================
// EXPORT
// =============================================================================

func (a *app) exportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all nights as JSON, Markdown or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" && output != "" {
				format = filepath.Ext(output)
			}
			if format == "" {
				format = "json"
			}
			exporter, err := export.ForFormat(format, export.DefaultOptions())
			if err != nil {
				return &UsageError{Arg: "format", Value: format, Reason: err.Error(), Example: "sleeptrack export -o nights.csv"}
			}

			return a.withStore(cmd, func(ctx context.Context, store *storage.NightStore) error {
				nights, err := store.Nights(ctx)
				if err != nil {
					return NewCommandError("export", "reading nights", err)
				}

				if output == "" {
					data, err := exporter.Export(nights)
					if err != nil {
						return NewCommandError("export", "rendering nights", err)
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}

				if err := export.ToFile(nights, exporter, output); err != nil {
					return NewCommandError("export", "writing "+output, err)
				}
				log.Info().Str("path", output).Int("nights", len(nights)).Msg("nights exported")
				fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d nights to %s\n", SuccessStyle.Render("✓"), len(nights), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, md or csv (default from --output, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}
