package merge

import (
	"fmt"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/report"
)

// FinalRecord is one row of the merged report in Parquet form
type FinalRecord struct {
	URI                string `parquet:"uri"`
	FullTitle          string `parquet:"full_title"`
	MainTitle          string `parquet:"main_title"`
	Subtitle           string `parquet:"subtitle"`
	MARCMainTitle      string `parquet:"marc_main_title"`
	MARCSubtitle       string `parquet:"marc_subtitle"`
	TitlePrefix        string `parquet:"title_prefix"`
	Edition            string `parquet:"edition"`
	CopyrightOCR       string `parquet:"copyright_ocr"`
	CheckVolume        string `parquet:"check_full_titles_for_volume_info"`
	CheckEdition       string `parquet:"check_copyright_ocr_for_edition_info"`
	CheckTitleMismatch string `parquet:"check_fm_and_marc_titles_for_differences"`
}

// finalColumns maps merged CSV columns onto FinalRecord fields, in struct order
var finalColumns = append(append([]string{}, report.CuratedHeader...), report.FlagsHeader[1:]...)

// FinalRecords converts a merged table into typed rows.
func FinalRecords(result *Result) ([]FinalRecord, error) {
	index := make([]int, len(finalColumns))
	table := metadata.Table{Header: result.Header}
	for i, name := range finalColumns {
		index[i] = table.ColumnIndex(name)
		if index[i] < 0 {
			return nil, fmt.Errorf("merged table has no %q column", name)
		}
	}

	records := make([]FinalRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		v := func(i int) string { return cell(row, index[i]) }
		records = append(records, FinalRecord{
			URI:                v(0),
			FullTitle:          v(1),
			MainTitle:          v(2),
			Subtitle:           v(3),
			MARCMainTitle:      v(4),
			MARCSubtitle:       v(5),
			TitlePrefix:        v(6),
			Edition:            v(7),
			CopyrightOCR:       v(8),
			CheckVolume:        v(9),
			CheckEdition:       v(10),
			CheckTitleMismatch: v(11),
		})
	}
	return records, nil
}

// ExportParquet writes the merged table to a Parquet file at path
func ExportParquet(path string, result *Result) error {
	records, err := FinalRecords(result)
	if err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return &metadata.WriteError{Path: path, Err: fmt.Errorf("failed to write parquet: %w", err)}
	}

	slog.Info("Exported merged report to Parquet", "path", path, "rows", len(records))
	return nil
}
