package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoaderOptions tunes how export cells are read
type LoaderOptions struct {
	// EmptyAsMissing turns empty cells into the Missing placeholder, matching
	// exports that were round-tripped through a dataframe library.
	EmptyAsMissing bool
}

// Loader reads MetadataRecords from a delimited export file
type Loader struct {
	path string
	opts LoaderOptions
}

// NewLoader creates a new export loader
func NewLoader(path string, opts LoaderOptions) *Loader {
	return &Loader{
		path: path,
		opts: opts,
	}
}

// Load reads every data row of the export in file order
func (l *Loader) Load() ([]MetadataRecord, error) {
	table, err := ReadTable(l.path)
	if err != nil {
		return nil, err
	}

	index := make([]int, len(SourceColumns))
	for i, name := range SourceColumns {
		index[i] = table.ColumnIndex(name)
		if index[i] < 0 {
			slog.Warn("Column missing from export, using placeholder", "path", l.path, "column", name, "placeholder", Missing)
		}
	}

	records := make([]MetadataRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		cell := func(i int) string {
			idx := index[i]
			if idx < 0 || idx >= len(row) {
				return Missing
			}
			if row[idx] == "" && l.opts.EmptyAsMissing {
				return Missing
			}
			return row[idx]
		}

		records = append(records, MetadataRecord{
			URI:           cell(0),
			FullTitle:     cell(1),
			MARCMainTitle: cell(2),
			MARCSubtitle:  cell(3),
			Edition:       cell(4),
			CopyrightOCR:  cell(5),
		})
	}

	slog.Debug("Finished reading export", "path", l.path, "records", len(records))

	return records, nil
}

// Table is a header row plus data rows read from a delimited file
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the first column with the given name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Delimiter returns the field separator for path: a tab for .tsv files and a
// comma for everything else. Readers and writers both go through it so a
// report written under a .tsv name reads back the same way.
func Delimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadTable reads a whole delimited file. Files ending in .tsv are read as
// tab-separated, everything else as comma-separated.
func ReadTable(path string) (*Table, error) {
	slog.Debug("Opening delimited file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.Comma = Delimiter(path)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &MalformedInputError{Path: path, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, malformed(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(path, err)
		}
		table.Rows = append(table.Rows, row)
	}

	slog.Debug("Read delimited file", "path", path, "columns", len(header), "rows", len(table.Rows))

	return table, nil
}

func malformed(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Path: path, Line: parseErr.StartLine, Err: parseErr.Err}
	}
	return &MalformedInputError{Path: path, Err: err}
}
