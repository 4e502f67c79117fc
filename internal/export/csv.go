// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// CSVExporter writes one row per night with a header row.
type CSVExporter struct {
	options *Options
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(opts *Options) *CSVExporter {
	return &CSVExporter{options: opts.withDefaults()}
}

var csvHeader = []string{"id", "start", "end", "hours", "quality", "quality_name"}

// Export implements Exporter.
func (e *CSVExporter) Export(nights []sleep.Night) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, n := range nights {
		end := ""
		if !n.Active() {
			end = formatTimestamp(n.EndTimeMilli, e.options.Location)
		}
		record := []string{
			strconv.FormatInt(n.ID, 10),
			formatTimestamp(n.StartTimeMilli, e.options.Location),
			end,
			formatHours(n),
			strconv.Itoa(n.Quality),
			sleep.QualityString(n.Quality),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for CSV.
func (e *CSVExporter) FileExtension() string {
	return ".csv"
}

// MimeType returns the MIME type for CSV.
func (e *CSVExporter) MimeType() string {
	return "text/csv"
}
