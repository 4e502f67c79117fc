// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes nights as a bare JSON array. Options are ignored so the
// output always round-trips.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(*Options) *JSONExporter {
	return &JSONExporter{}
}

// Export implements Exporter.
func (e *JSONExporter) Export(nights []sleep.Night) ([]byte, error) {
	if nights == nil {
		nights = []sleep.Night{}
	}
	data, err := json.MarshalIndent(nights, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
