package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/pipeline"
)

// titleWidth caps the title column in the sift table
const titleWidth = 48

// renderTable draws headers and rows as a rounded table. Rows shorter than the
// header are padded with blanks. Columns listed in rightAligned (zero based)
// have their cells right aligned; headers always stay left aligned.
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
	}
	for _, col := range rightAligned {
		if col >= 0 && col < len(configs) {
			configs[col].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// renderFlags lays out one row per record with its three review flags.
func renderFlags(records []metadata.MetadataRecord, flags []metadata.ReviewFlags, onlyFlagged bool) string {
	rows := make([][]string, 0, len(flags))
	for i, f := range flags {
		if onlyFlagged && !f.NeedsReview() {
			continue
		}
		rows = append(rows, []string{f.URI, truncate(oneLine(records[i].FullTitle), titleWidth), f.Volume, f.Edition, f.TitleMismatch})
	}
	if len(rows) == 0 {
		return "No records need review."
	}
	return renderTable([]string{"URI", "Title", "Volume", "Edition", "Title Mismatch"}, rows)
}

// printSummary writes a run summary as a table on terminals and as plain
// key: value lines otherwise.
func printSummary(w io.Writer, s *pipeline.Summary) {
	pairs := [][]string{
		{"Run ID", s.RunID},
		{"Input", s.Input},
		{"Records", strconv.Itoa(s.Records)},
		{"Volume checks", strconv.Itoa(s.Flags.Volume)},
		{"Edition checks (first)", strconv.Itoa(s.Flags.EditionFirst)},
		{"Edition checks (second)", strconv.Itoa(s.Flags.EditionSecond)},
		{"Title mismatches", strconv.Itoa(s.Flags.TitleMismatch)},
		{"Rows needing review", strconv.Itoa(s.Flags.NeedsReview)},
		{"Merged rows", strconv.Itoa(s.Merged)},
		{"Curated records", s.Outputs.Curated},
		{"Review flags", s.Outputs.Flags},
		{"Final report", s.Outputs.Final},
	}
	if s.Outputs.Parquet != "" {
		pairs = append(pairs, []string{"Parquet export", s.Outputs.Parquet})
	}
	if n := len(s.UnmatchedCurated) + len(s.UnmatchedFlags); n > 0 {
		pairs = append(pairs, []string{"Dropped identifiers", strings.Join(append(append([]string{}, s.UnmatchedCurated...), s.UnmatchedFlags...), ", ")})
	}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, pairs, 1))
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s: %s\n", p[0], p[1])
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
