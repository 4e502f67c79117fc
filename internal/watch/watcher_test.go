// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dbPath string) *Watcher {
	t.Helper()
	w, err := New(dbPath, 20*time.Millisecond, 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatcher_SignalsOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nights.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0600))

	w := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(dbPath, []byte("changed"), 0600))

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcher_SignalsOnWALWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nights.db")

	w := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("frame"), 0600))

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "nights.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	select {
	case <-w.Changes():
		t.Fatal("unexpected change signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseClosesChanges(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nights.db"), 0, 2, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, w.Close())
	_, ok := <-w.Changes()
	require.False(t, ok)

	// Closing twice is safe.
	require.NoError(t, w.Close())
}
