// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
	"github.com/jeranaias/sleeptrack-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a night list to one file format.
type Exporter interface {
	// Export renders nights in list order.
	Export(nights []sleep.Night) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a header with the export time and night count
	// (Markdown only).
	IncludeMetadata bool

	// Location is used for dates and weekdays. Default: time.Local
	Location *time.Location

	// Now stamps the metadata header. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata: true,
		Location:        time.Local,
		Now:             time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.Location == nil {
		out.Location = time.Local
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Formats lists the accepted format names.
var Formats = []string{"json", "md", "csv"}

// ForFormat returns the exporter for a format name or file extension.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json":
		return NewJSONExporter(opts), nil
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "csv":
		return NewCSVExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// ToFile exports nights to path, replacing it atomically.
func ToFile(nights []sleep.Night, exporter Exporter, path string) error {
	content, err := exporter.Export(nights)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatTimestamp formats a Unix millisecond time for display.
func formatTimestamp(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04")
}

// formatHours formats a night's length with one decimal.
func formatHours(n sleep.Night) string {
	return fmt.Sprintf("%.1f", n.Duration().Hours())
}
