// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sleeptrack-tui/internal/reconcile"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// diffOp is the JSON form of one edit.
type diffOp struct {
	Kind  string       `json:"kind"`
	Index int          `json:"index"`
	To    *int         `json:"to,omitempty"`
	Night *sleep.Night `json:"night,omitempty"`
}

// diffData is the JSON form of an edit script.
type diffData struct {
	Summary string   `json:"summary"`
	Inserts int      `json:"inserts"`
	Removes int      `json:"removes"`
	Moves   int      `json:"moves"`
	Updates int      `json:"updates"`
	Ops     []diffOp `json:"ops"`
}

func (a *app) diffCommand() *cobra.Command {
	var byPredicate bool

	cmd := &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Print the edits that turn one night list into another",
		Long: `Print the edits that turn one night list into another.

Both files hold a JSON array of nights, or the output of "sleeptrack list --json".
Nights are matched by id; a matched night whose fields changed is an update.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			next, err := readSnapshot(args[1])
			if err != nil {
				return err
			}

			var script reconcile.EditScript[sleep.Night]
			if byPredicate {
				script = reconcile.Diff(old, next, sleep.SameNight, sleep.SameNightContent)
			} else {
				script = reconcile.DiffKeyed(old, next, sleep.NightID, sleep.SameNightContent)
			}
			log.Debug().Int("old", len(old)).Int("new", len(next)).Str("changes", script.Summary()).Msg("diff computed")

			if a.jsonOut {
				return a.printJSON(cmd, newDiffData(script))
			}

			out := cmd.OutOrStdout()
			for _, line := range strings.Split(strings.TrimSuffix(script.Format(sleep.Describe), "\n"), "\n") {
				if line != "" {
					fmt.Fprintln(out, renderScriptLine(line))
				}
			}
			fmt.Fprintln(out, DimStyle.Render(script.Summary()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&byPredicate, "by-predicate", false, "match nights pairwise instead of by id hash")
	return cmd
}

func newDiffData(script reconcile.EditScript[sleep.Night]) diffData {
	data := diffData{
		Summary: script.Summary(),
		Inserts: script.Stats.Inserts,
		Removes: script.Stats.Removes,
		Moves:   script.Stats.Moves,
		Updates: script.Stats.Updates,
		Ops:     make([]diffOp, 0, script.Len()),
	}
	for _, op := range script.Ops {
		d := diffOp{Kind: op.Kind.String(), Index: op.Index}
		switch op.Kind {
		case reconcile.OpMove:
			to := op.To
			d.To = &to
		case reconcile.OpInsert, reconcile.OpUpdate:
			n := op.Item
			d.Night = &n
		}
		data.Ops = append(data.Ops, d)
	}
	return data
}

// readSnapshot reads a night list from a bare JSON array or a --json
// response envelope.
func readSnapshot(path string) ([]sleep.Night, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("{")) {
		var envelope struct {
			Data []sleep.Night `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return envelope.Data, nil
	}

	var nights []sleep.Night
	if err := json.Unmarshal(raw, &nights); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nights, nil
}
