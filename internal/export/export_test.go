// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sleeptrack-tui/internal/sleep"
)

func testNights() []sleep.Night {
	start := time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)
	active := sleep.NewNight(time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC))
	active.ID = 2
	return []sleep.Night{
		active,
		{ID: 1, StartTimeMilli: start.UnixMilli(), EndTimeMilli: start.Add(7 * time.Hour).UnixMilli(), Quality: 4},
	}
}

func testOptions() *Options {
	return &Options{
		IncludeMetadata: true,
		Location:        time.UTC,
		Now:             func() time.Time { return time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC) },
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"json", ".json"},
		{"md", ".md"},
		{"Markdown", ".md"},
		{".csv", ".csv"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
			assert.NotEmpty(t, e.MimeType())
		})
	}

	_, err := ForFormat("xml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, md, csv")
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	data, err := NewJSONExporter(nil).Export(testNights())
	require.NoError(t, err)

	var got []sleep.Night
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, testNights(), got)

	empty, err := NewJSONExporter(nil).Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestMarkdownExporter(t *testing.T) {
	data, err := NewMarkdownExporter(testOptions()).Export(testNights())
	require.NoError(t, err)
	md := string(data)

	assert.True(t, strings.HasPrefix(md, "---\nnights: 2\nexported: 2024-03-06T08:00:00Z\n"))
	assert.Contains(t, md, "| 2 | 2024-03-05 23:30 | in progress |")
	assert.Contains(t, md, "| 1 | 2024-03-04 22:00 | 7 hours on Monday |")
	assert.Contains(t, md, "Pretty good |")
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	opts := testOptions()
	opts.IncludeMetadata = false

	data, err := NewMarkdownExporter(opts).Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "# Sleep Nights\n\n_No nights recorded._\n", string(data))
}

func TestCSVExporter(t *testing.T) {
	data, err := NewCSVExporter(testOptions()).Export(testNights())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,start,end,hours,quality,quality_name", lines[0])
	assert.Equal(t, "2,2024-03-05 23:30,,0.0,-1,--", lines[1])
	assert.Equal(t, "1,2024-03-04 22:00,2024-03-05 05:00,7.0,4,Pretty good", lines[2])
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nights.json")

	require.NoError(t, ToFile(testNights(), NewJSONExporter(nil), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []sleep.Night
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)
}
