// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sleep

import (
	"fmt"
	"time"
)

// qualityNames is indexed by quality rating.
var qualityNames = [...]string{
	"Very bad",
	"Poor",
	"So-so",
	"OK",
	"Pretty good",
	"Excellent",
}

// qualityGlyphs is indexed by quality rating.
var qualityGlyphs = [...]string{"😫", "😞", "😐", "🙂", "😊", "😴"}

// ActiveGlyph is shown for nights that are unrated or still in progress.
const ActiveGlyph = "🌙"

// QualityString returns the display name of a rating, or "--" when q is not
// a valid rating.
func QualityString(q int) string {
	if !ValidQuality(q) {
		return "--"
	}
	return qualityNames[q]
}

// QualityGlyph returns the icon for a rating.
func QualityGlyph(q int) string {
	if !ValidQuality(q) {
		return ActiveGlyph
	}
	return qualityGlyphs[q]
}

// FormatDuration describes the length of a night in its largest whole unit
// together with the weekday it started on, e.g. "7 hours on Tuesday".
// Weekdays are computed in loc; a nil loc means time.Local.
func FormatDuration(startMilli, endMilli int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	weekday := time.UnixMilli(startMilli).In(loc).Weekday().String()
	d := time.Duration(endMilli-startMilli) * time.Millisecond

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d seconds on %s", int64(d/time.Second), weekday)
	case d < time.Hour:
		return fmt.Sprintf("%d minutes on %s", int64(d/time.Minute), weekday)
	default:
		return fmt.Sprintf("%d hours on %s", int64(d/time.Hour), weekday)
	}
}

// Describe is a one-line summary of a night, used by the CLI and in logs.
func Describe(n Night) string {
	if n.Active() {
		return fmt.Sprintf("#%d started %s (in progress)", n.ID, n.Start().Format("Mon 15:04"))
	}
	return fmt.Sprintf("#%d %s, %s", n.ID, FormatDuration(n.StartTimeMilli, n.EndTimeMilli, nil), QualityString(n.Quality))
}
