// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where and how much to log.
type Options struct {
	// Level is a zerolog level name; invalid names fall back to info
	Level string

	// File, when set, receives JSON log lines (the TUI owns the terminal)
	File string

	// Console writes human-readable lines to Stderr instead of JSON
	Console bool

	// Stderr overrides os.Stderr for console output
	Stderr io.Writer

	// RunID tags every line; a random UUID is used when empty
	RunID string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup replaces log.Logger according to opts and returns a closer for any
// file it opened.
func Setup(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	case opts.Console:
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}
	default:
		out = os.Stderr
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Str("run", runID).Logger()
	return closer, nil
}
