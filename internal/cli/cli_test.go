// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sleeptrack-tui/internal/config"
	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
	"github.com/jeranaias/sleeptrack-tui/internal/storage"
)

// =============================================================================
// HELPERS
// =============================================================================

// testHome isolates config, database and log paths in a temp directory.
func testHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SLEEPTRACK_HOME", home)
	t.Setenv("SLEEPTRACK_DB", "")
	t.Setenv("SLEEPTRACK_LOG_LEVEL", "")
	t.Setenv("SLEEPTRACK_LOG_FILE", "")
	t.Setenv("SLEEPTRACK_THEME", "")
	t.Setenv("FORCE_COLOR", "")
	return home
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// =============================================================================
// NIGHT COMMANDS
// =============================================================================

func TestStartStopRateList(t *testing.T) {
	testHome(t)

	out, err := run(t, "", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "Started night #1")

	_, err = run(t, "", "start")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNightInProgress)
	assert.Equal(t, ExitStateError, GetExitCode(err))

	out, err = run(t, "", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped night #1")
	assert.Contains(t, out, "sleeptrack rate 1")

	out, err = run(t, "", "rate", "1", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Rated night #1")
	assert.Contains(t, out, "Pretty good")

	out, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "Pretty good")
}

func TestStop_NothingInProgress(t *testing.T) {
	testHome(t)

	_, err := run(t, "", "stop")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNoActiveNight)
	assert.Equal(t, ExitStateError, GetExitCode(err))
}

func TestRate_InvalidArgs(t *testing.T) {
	testHome(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"non-numeric id", []string{"rate", "abc", "3"}, ExitUsageError},
		{"zero id", []string{"rate", "0", "3"}, ExitUsageError},
		{"quality too high", []string{"rate", "1", "6"}, ExitUsageError},
		{"quality negative", []string{"rate", "--", "1", "-1"}, ExitUsageError},
		{"unknown night", []string{"rate", "99", "3"}, ExitNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
		})
	}
}

func TestList_Empty(t *testing.T) {
	testHome(t)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No nights recorded")
}

func TestList_JSON(t *testing.T) {
	testHome(t)

	_, err := run(t, "", "start")
	require.NoError(t, err)

	out, err := run(t, "", "list", "--json")
	require.NoError(t, err)

	var resp struct {
		Success bool          `json:"success"`
		Command string        `json:"command"`
		Data    []sleep.Night `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "list", resp.Command)
	require.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].Active())
}

func TestClear(t *testing.T) {
	testHome(t)

	_, err := run(t, "", "start")
	require.NoError(t, err)

	_, err = run(t, "", "clear")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	out, err := run(t, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 nights")

	out, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No nights recorded")
}

func TestClear_Prompt(t *testing.T) {
	testHome(t)

	orig := stdinIsTerminal
	stdinIsTerminal = func(*cobra.Command) bool { return true }
	t.Cleanup(func() { stdinIsTerminal = orig })

	_, err := run(t, "", "start")
	require.NoError(t, err)

	out, err := run(t, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = run(t, "y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 nights")
}

// =============================================================================
// DIFF
// =============================================================================

func TestDiff(t *testing.T) {
	dir := testHome(t)

	old := []sleep.Night{
		{ID: 1, StartTimeMilli: 1000, EndTimeMilli: 8000, Quality: 3},
		{ID: 2, StartTimeMilli: 9000, EndTimeMilli: 16000, Quality: 4},
	}
	next := []sleep.Night{
		{ID: 2, StartTimeMilli: 9000, EndTimeMilli: 16000, Quality: 4},
		{ID: 1, StartTimeMilli: 1000, EndTimeMilli: 8000, Quality: 5},
	}
	oldPath := writeJSON(t, dir, "old.json", old)
	newPath := writeJSON(t, dir, "new.json", next)

	for _, args := range [][]string{
		{"diff", oldPath, newPath},
		{"diff", "--by-predicate", oldPath, newPath},
	} {
		out, err := run(t, "", args...)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "> move 1->0", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "~ update 1 #1"), lines[1])
		assert.Contains(t, lines[1], "Excellent")
		assert.Equal(t, ">1 ~1", lines[2])
	}
}

func TestDiff_JSON(t *testing.T) {
	dir := testHome(t)

	oldPath := writeJSON(t, dir, "old.json", []sleep.Night{{ID: 1, StartTimeMilli: 1, EndTimeMilli: 2, Quality: 1}})
	newPath := writeJSON(t, dir, "new.json", map[string]any{
		"data": []sleep.Night{
			{ID: 2, StartTimeMilli: 5, EndTimeMilli: 5, Quality: -1},
			{ID: 1, StartTimeMilli: 1, EndTimeMilli: 2, Quality: 1},
		},
	})

	out, err := run(t, "", "diff", "--json", oldPath, newPath)
	require.NoError(t, err)

	var resp struct {
		Data diffData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "+1", resp.Data.Summary)
	require.Len(t, resp.Data.Ops, 1)
	assert.Equal(t, "insert", resp.Data.Ops[0].Kind)
	assert.Equal(t, 0, resp.Data.Ops[0].Index)
	require.NotNil(t, resp.Data.Ops[0].Night)
	assert.Equal(t, int64(2), resp.Data.Ops[0].Night.ID)
}

func TestDiff_Identical(t *testing.T) {
	dir := testHome(t)
	path := writeJSON(t, dir, "same.json", []sleep.Night{{ID: 1, StartTimeMilli: 1, EndTimeMilli: 2, Quality: 1}})

	out, err := run(t, "", "diff", path, path)
	require.NoError(t, err)
	assert.Equal(t, "no changes", strings.TrimSpace(out))
}

func TestDiff_BadInput(t *testing.T) {
	dir := testHome(t)
	good := writeJSON(t, dir, "good.json", []sleep.Night{})
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0600))

	_, err := run(t, "", "diff", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	_, err = run(t, "", "diff", good, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")

	_, err = run(t, "", "diff", good)
	require.Error(t, err)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigInitShow(t *testing.T) {
	dir := testHome(t)
	path := filepath.Join(dir, "custom.toml")

	out, err := run(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "", "config", "init", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = run(t, "", "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "", "config", "show", "--config", path, "--db", "/tmp/other.db")
	require.NoError(t, err)
	assert.Contains(t, out, "database_path")
	assert.Contains(t, out, "/tmp/other.db")
}

func TestConfig_Errors(t *testing.T) {
	dir := testHome(t)

	_, err := run(t, "", "list", "--config", filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, err = run(t, "", "list", "--log-level", "loud")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Arg: "x"}, ExitUsageError},
		{"config", &ConfigError{Err: errors.New("bad")}, ExitConfigError},
		{"validation", fmt.Errorf("wrapped: %w", config.ValidateErrors{{Field: "f", Message: "m"}}), ExitConfigError},
		{"not found", NewCommandError("rate", "rating", storage.ErrNightNotFound), ExitNotFoundError},
		{"invalid quality", storage.ErrInvalidQuality, ExitUsageError},
		{"no active night", NewCommandError("stop", "ending", storage.ErrNoActiveNight), ExitStateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, NewCommandError("stop", "ending night", storage.ErrNoActiveNight))
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "stop: ending night: no night in progress")

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport(t *testing.T) {
	dir := testHome(t)

	_, err := run(t, "", "start")
	require.NoError(t, err)
	_, err = run(t, "", "stop")
	require.NoError(t, err)

	out, err := run(t, "", "export")
	require.NoError(t, err)
	var nights []sleep.Night
	require.NoError(t, json.Unmarshal([]byte(out), &nights))
	require.Len(t, nights, 1)
	assert.Equal(t, int64(1), nights[0].ID)

	csvPath := filepath.Join(dir, "nights.csv")
	out, err = run(t, "", "export", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 nights")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,start,end,hours,quality,quality_name\n"))

	_, err = run(t, "", "export", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestExport_FeedsDiff(t *testing.T) {
	dir := testHome(t)
	before := filepath.Join(dir, "before.json")
	after := filepath.Join(dir, "after.json")

	_, err := run(t, "", "export", "-o", before)
	require.NoError(t, err)
	_, err = run(t, "", "start")
	require.NoError(t, err)
	_, err = run(t, "", "export", "-o", after)
	require.NoError(t, err)

	out, err := run(t, "", "diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "+ insert 0 #1")
	assert.Contains(t, out, "+1")
}
