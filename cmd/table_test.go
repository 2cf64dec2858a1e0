package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/pipeline"
)

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		rows     [][]string
		contains []string
	}{
		{
			name:     "no columns",
			headers:  nil,
			contains: nil,
		},
		{
			name:     "pads short rows",
			headers:  []string{"URI", "Volume"},
			rows:     [][]string{{"u1"}, {"u2", "YES"}},
			contains: []string{"URI", "Volume", "u1", "u2", "YES"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderTable(tt.headers, tt.rows, 1, 5)
			if len(tt.contains) == 0 {
				assert.Empty(t, out)
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestToRow(t *testing.T) {
	assert.Equal(t, table.Row{"u1", ""}, toRow([]string{"u1"}, 2))
	assert.Equal(t, table.Row{"u1", "YES"}, toRow([]string{"u1", "YES", "extra"}, 2))
}

func TestRenderTableRightAligned(t *testing.T) {
	out := renderTable([]string{"Field", "Value"}, [][]string{{"Records", "7"}, {"Merged rows", "1234"}}, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	// right aligned cells end flush against the closing border
	assert.True(t, strings.HasSuffix(lines[3], " 7 │"), lines[3])
	assert.True(t, strings.HasSuffix(lines[4], " 1234 │"), lines[4])
}

func TestRenderFlags(t *testing.T) {
	records := []metadata.MetadataRecord{
		{URI: "u1", FullTitle: "Example Book"},
		{URI: "u2", FullTitle: "Collected Letters,\nVol. 2"},
	}
	flags := []metadata.ReviewFlags{
		{URI: "u1", Volume: "N", Edition: "N", TitleMismatch: "N"},
		{URI: "u2", Volume: "YES", Edition: "N", TitleMismatch: "N"},
	}

	all := renderFlags(records, flags, false)
	assert.Contains(t, all, "u1")
	assert.Contains(t, all, "Collected Letters, Vol. 2")

	flagged := renderFlags(records, flags, true)
	assert.NotContains(t, flagged, "u1")
	assert.Contains(t, flagged, "u2")

	assert.Equal(t, "No records need review.", renderFlags(records[:1], flags[:1], true))
}

func TestPrintSummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &pipeline.Summary{
		RunID:            "run-1",
		Input:            "export.csv",
		Records:          3,
		Flags:            pipeline.FlagCounts{Volume: 1, NeedsReview: 2},
		Merged:           2,
		Outputs:          pipeline.Outputs{Curated: "c.csv", Flags: "f.csv", Final: "final.csv"},
		UnmatchedCurated: []string{"u3"},
	})

	out := buf.String()
	assert.Contains(t, out, "Run ID: run-1\n")
	assert.Contains(t, out, "Records: 3\n")
	assert.Contains(t, out, "Rows needing review: 2\n")
	assert.Contains(t, out, "Dropped identifiers: u3\n")
	assert.NotContains(t, out, "Parquet export")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, 10, len([]rune(truncate(strings.Repeat("é", 20), 10))))
}
