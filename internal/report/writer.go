// Package report writes curated records and review flags as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

// CuratedHeader is the column order of the curated records file
var CuratedHeader = []string{
	"uri",
	"full_title",
	"main_title",
	"subtitle",
	"marc_main_title",
	"marc_subtitle",
	"title_prefix",
	"edition",
	"copyright_ocr",
}

// FlagsHeader is the column order of the review flags file
var FlagsHeader = []string{
	"uri",
	"check_full_titles_for_volume_info?",
	"check_copyright_ocr_for_edition_info?",
	"check_fm_and_marc_titles_for_differences?",
}

// WriteCurated writes curated records to path
func WriteCurated(path string, records []metadata.CuratedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.URI,
			r.FullTitle,
			r.MainTitle,
			r.Subtitle,
			r.MARCMainTitle,
			r.MARCSubtitle,
			r.TitlePrefix,
			r.Edition,
			r.CopyrightOCR,
		})
	}

	if err := WriteCSV(path, CuratedHeader, rows); err != nil {
		return err
	}

	slog.Info("Wrote curated records", "path", path, "records", len(records))
	return nil
}

// WriteFlags writes the review flags table to path
func WriteFlags(path string, flags []metadata.ReviewFlags) error {
	rows := make([][]string, 0, len(flags))
	for _, f := range flags {
		rows = append(rows, []string{f.URI, f.Volume, f.Edition, f.TitleMismatch})
	}

	if err := WriteCSV(path, FlagsHeader, rows); err != nil {
		return err
	}

	slog.Info("Wrote review flags", "path", path, "records", len(flags))
	return nil
}

// WriteCSV writes a header and rows to path, tab-separated when path ends in
// .tsv. The data goes to a temporary file
// beside path first and is renamed into place once complete, so readers never
// see a partial file.
func WriteCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &metadata.WriteError{Path: path, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	writer.Comma = metadata.Delimiter(path)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return &metadata.WriteError{Path: path, Err: err}
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return &metadata.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}

	slog.Debug("Wrote CSV file", "path", path, "rows", len(rows))
	return nil
}
