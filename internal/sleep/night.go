// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sleep

import "time"

// QualityUnrated marks a night that has not been rated yet.
const QualityUnrated = -1

// MaxQuality is the best possible rating.
const MaxQuality = 5

// Night is one recorded night of sleep. Times are Unix milliseconds. A night
// that is still in progress has EndTimeMilli equal to StartTimeMilli.
type Night struct {
	ID             int64 `json:"id"`
	StartTimeMilli int64 `json:"start_time_milli"`
	EndTimeMilli   int64 `json:"end_time_milli"`
	Quality        int   `json:"quality"`
}

// NewNight returns an in-progress, unrated night starting at start.
func NewNight(start time.Time) Night {
	ms := start.UnixMilli()
	return Night{
		StartTimeMilli: ms,
		EndTimeMilli:   ms,
		Quality:        QualityUnrated,
	}
}

// Active reports whether the night is still in progress.
func (n Night) Active() bool {
	return n.EndTimeMilli == n.StartTimeMilli
}

// Start returns the start time.
func (n Night) Start() time.Time {
	return time.UnixMilli(n.StartTimeMilli)
}

// End returns the end time.
func (n Night) End() time.Time {
	return time.UnixMilli(n.EndTimeMilli)
}

// Duration returns how long the night lasted (zero while active).
func (n Night) Duration() time.Duration {
	return time.Duration(n.EndTimeMilli-n.StartTimeMilli) * time.Millisecond
}

// Rated reports whether the quality is a valid rating.
func (n Night) Rated() bool {
	return ValidQuality(n.Quality)
}

// ValidQuality reports whether q is in 0..MaxQuality.
func ValidQuality(q int) bool {
	return q >= 0 && q <= MaxQuality
}

// SameNight reports whether a and b are the same recorded night.
func SameNight(a, b Night) bool {
	return a.ID == b.ID
}

// SameNightContent reports whether a and b would render identically.
func SameNightContent(a, b Night) bool {
	return a == b
}

// NightID is the key form of SameNight.
func NightID(n Night) int64 {
	return n.ID
}
