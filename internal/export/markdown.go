// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes nights as a Markdown table.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	return &MarkdownExporter{options: opts.withDefaults()}
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(nights []sleep.Night) ([]byte, error) {
	loc := e.options.Location
	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("nights: %d\n", len(nights)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", e.options.Now().Format(time.RFC3339)))
		sb.WriteString("generator: sleeptrack\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Sleep Nights\n\n")

	if len(nights) == 0 {
		sb.WriteString("_No nights recorded._\n")
		return []byte(sb.String()), nil
	}

	sb.WriteString("| # | Started | Length | Quality |\n")
	sb.WriteString("|---|---------|--------|---------|\n")
	for _, n := range nights {
		length := sleep.FormatDuration(n.StartTimeMilli, n.EndTimeMilli, loc)
		if n.Active() {
			length = "in progress"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s %s |\n",
			n.ID,
			formatTimestamp(n.StartTimeMilli, loc),
			escapeMarkdown(length),
			sleep.QualityGlyph(n.Quality),
			escapeMarkdown(sleep.QualityString(n.Quality)),
		))
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown escapes characters that would break a table cell.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
