// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the sleep-night data source for the tracker.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// =============================================================================
// SOURCE
// =============================================================================

// Source produces snapshots of recorded nights, newest first.
type Source interface {
	Nights(ctx context.Context) ([]sleep.Night, error)
}

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS nights (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time_milli INTEGER NOT NULL,
    end_time_milli INTEGER NOT NULL,
    quality INTEGER NOT NULL DEFAULT -1
);
`

const nightColumns = "id, start_time_milli, end_time_milli, quality"

// =============================================================================
// NIGHT STORE
// =============================================================================

// NightStore is a SQLite-backed store of sleep nights.
type NightStore struct {
	db   *sql.DB
	path string

	// now is the clock used for start/stop; replaced in tests
	now func() time.Time
}

// Open opens (creating if needed) the night database at path.
func Open(path string) (*NightStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &NightStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *NightStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *NightStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Nights returns every recorded night, newest first.
func (s *NightStore) Nights(ctx context.Context) ([]sleep.Night, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+nightColumns+" FROM nights ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer rows.Close()

	nights := []sleep.Night{}
	for rows.Next() {
		n, err := scanNight(rows)
		if err != nil {
			return nil, err
		}
		nights = append(nights, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nights, nil
}

// Get returns the night with the given ID.
func (s *NightStore) Get(ctx context.Context, id int64) (sleep.Night, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+nightColumns+" FROM nights WHERE id = ?", id)
	n, err := scanNight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sleep.Night{}, ErrNightNotFound
	}
	return n, err
}

// Tonight returns the most recent night if it is still in progress.
func (s *NightStore) Tonight(ctx context.Context) (sleep.Night, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+nightColumns+" FROM nights ORDER BY id DESC LIMIT 1")
	n, err := scanNight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sleep.Night{}, false, nil
	}
	if err != nil {
		return sleep.Night{}, false, err
	}
	return n, n.Active(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNight(sc scanner) (sleep.Night, error) {
	var n sleep.Night
	err := sc.Scan(&n.ID, &n.StartTimeMilli, &n.EndTimeMilli, &n.Quality)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return n, err
		}
		return n, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return n, nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Start records a new in-progress night. Only one night may be in progress.
func (s *NightStore) Start(ctx context.Context) (sleep.Night, error) {
	if _, active, err := s.Tonight(ctx); err != nil {
		return sleep.Night{}, err
	} else if active {
		return sleep.Night{}, ErrNightInProgress
	}
	return s.Insert(ctx, sleep.NewNight(s.now()))
}

// Stop ends the in-progress night.
func (s *NightStore) Stop(ctx context.Context) (sleep.Night, error) {
	n, active, err := s.Tonight(ctx)
	if err != nil {
		return sleep.Night{}, err
	}
	if !active {
		return sleep.Night{}, ErrNoActiveNight
	}

	// An ended night must never look active again.
	n.EndTimeMilli = max(s.now().UnixMilli(), n.StartTimeMilli+1)
	if _, err := s.db.ExecContext(ctx, "UPDATE nights SET end_time_milli = ? WHERE id = ?", n.EndTimeMilli, n.ID); err != nil {
		return sleep.Night{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return n, nil
}

// SetQuality rates a finished night.
func (s *NightStore) SetQuality(ctx context.Context, id int64, quality int) error {
	if !sleep.ValidQuality(quality) {
		return ErrInvalidQuality
	}
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.Active() {
		return ErrNightInProgress
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE nights SET quality = ? WHERE id = ?", quality, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// Insert stores n as a new night and returns it with its assigned ID.
// The ID field of n is ignored.
func (s *NightStore) Insert(ctx context.Context, n sleep.Night) (sleep.Night, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO nights (start_time_milli, end_time_milli, quality) VALUES (?, ?, ?)",
		n.StartTimeMilli, n.EndTimeMilli, n.Quality)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return sleep.Night{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	n.ID = id
	return n, nil
}

// Delete removes a night.
func (s *NightStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM nights WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNightNotFound
	}
	return nil
}

// Clear removes every night.
func (s *NightStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM nights"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a night-store error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

var (
	ErrNightNotFound   = &StoreError{Message: "night not found"}
	ErrNoActiveNight   = &StoreError{Message: "no night in progress"}
	ErrNightInProgress = &StoreError{Message: "a night is already in progress"}
	ErrInvalidQuality  = &StoreError{Message: "quality must be between 0 and 5"}
	ErrInvalidPath     = &StoreError{Message: "invalid database path"}
	ErrDatabase        = &StoreError{Message: "database error"}
)
