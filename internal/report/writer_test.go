package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

func TestWriteCurated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curated.csv")

	records := []metadata.CuratedRecord{
		{
			URI:           "u1",
			FullTitle:     "The Great Work: A Study",
			MainTitle:     "The Great Work",
			Subtitle:      "A Study",
			MARCMainTitle: "great work",
			MARCSubtitle:  "a study/",
			TitlePrefix:   "The",
		},
	}

	require.NoError(t, WriteCurated(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "uri,full_title,main_title,subtitle,marc_main_title,marc_subtitle,title_prefix,edition,copyright_ocr\n" +
		"u1,The Great Work: A Study,The Great Work,A Study,great work,a study/,The,,\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flags.csv")

	flags := []metadata.ReviewFlags{
		{URI: "u1", Volume: "N", Edition: "YES -- CHECK FIRST", TitleMismatch: "N"},
		{URI: "u2", Volume: "YES", Edition: "N", TitleMismatch: "YES"},
	}

	require.NoError(t, WriteFlags(path, flags))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "uri,check_full_titles_for_volume_info?,check_copyright_ocr_for_edition_info?,check_fm_and_marc_titles_for_differences?\n" +
		"u1,N,YES -- CHECK FIRST,N\n" +
		"u2,YES,N,YES\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteCSVQuotesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteCSV(path, []string{"uri", "text"}, [][]string{{"u1", "a, \"b\"\nc"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uri,text\nu1,\"a, \"\"b\"\"\nc\"\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSVTabSeparated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	rows := [][]string{{"u1", "Collected Letters, Vol. 2"}, {"u2", "Second edition\n1999"}}
	require.NoError(t, WriteCSV(path, []string{"uri", "text"}, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uri\ttext\nu1\tCollected Letters, Vol. 2\nu2\t\"Second edition\n1999\"\n", string(data))

	table, err := metadata.ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"uri", "text"}, table.Header)
	assert.Equal(t, rows, table.Rows)
}

func TestWriteCSVUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// a regular file where a directory is expected
	path := filepath.Join(blocker, "out.csv")

	err := WriteCSV(path, []string{"uri"}, nil)

	var writeErr *metadata.WriteError
	require.True(t, errors.As(err, &writeErr), "got %v", err)
	assert.Equal(t, path, writeErr.Path)
}
