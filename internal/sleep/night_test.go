// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNight(t *testing.T) {
	start := time.Date(2025, 3, 4, 22, 30, 0, 0, time.UTC)
	n := NewNight(start)

	assert.True(t, n.Active())
	assert.False(t, n.Rated())
	assert.Equal(t, QualityUnrated, n.Quality)
	assert.Equal(t, start.UnixMilli(), n.StartTimeMilli)
	assert.Zero(t, n.Duration())
}

func TestNight_Duration(t *testing.T) {
	n := Night{StartTimeMilli: 0, EndTimeMilli: 90 * 60 * 1000}
	assert.False(t, n.Active())
	assert.Equal(t, 90*time.Minute, n.Duration())
}

func TestPredicates(t *testing.T) {
	a := Night{ID: 1, StartTimeMilli: 10, EndTimeMilli: 20, Quality: 3}
	b := a
	b.Quality = 5

	assert.True(t, SameNight(a, b))
	assert.False(t, SameNightContent(a, b))
	assert.True(t, SameNightContent(a, a))
	assert.False(t, SameNight(a, Night{ID: 2}))
	assert.Equal(t, int64(1), NightID(a))
}

func TestQualityString(t *testing.T) {
	tests := []struct {
		quality  int
		expected string
	}{
		{-1, "--"},
		{0, "Very bad"},
		{1, "Poor"},
		{2, "So-so"},
		{3, "OK"},
		{4, "Pretty good"},
		{5, "Excellent"},
		{6, "--"},
	}

	for _, tt := range tests {
		if got := QualityString(tt.quality); got != tt.expected {
			t.Errorf("QualityString(%d) = %q, want %q", tt.quality, got, tt.expected)
		}
	}
}

func TestQualityGlyph(t *testing.T) {
	assert.Equal(t, ActiveGlyph, QualityGlyph(QualityUnrated))
	assert.Equal(t, ActiveGlyph, QualityGlyph(9))
	for q := 0; q <= MaxQuality; q++ {
		assert.NotEqual(t, ActiveGlyph, QualityGlyph(q))
	}
}

func TestFormatDuration(t *testing.T) {
	// 2025-03-04 is a Tuesday.
	start := time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name     string
		length   time.Duration
		expected string
	}{
		{"seconds", 42 * time.Second, "42 seconds on Tuesday"},
		{"minutes", 59 * time.Minute, "59 minutes on Tuesday"},
		{"hours", 7*time.Hour + 50*time.Minute, "7 hours on Tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(start, start+tt.length.Milliseconds(), time.UTC)
			assert.Equal(t, tt.expected, got)
		})
	}
}
