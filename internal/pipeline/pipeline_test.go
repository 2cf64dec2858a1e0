package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metasift/internal/config"
	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

const exportCSV = "uri,fm:title,marc:245A,marc:245B,marc:250A,ocr:copyrightPage,collection\n" +
	"u1,The Great Work: A Study,great work,a study/,,,acls\n" +
	"u2,\"Collected Letters, Vol. 2\",\"Collected letters, vol. 2\",,,\"Second edition\n1999\",acls\n"

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	return &config.Config{
		Input: input,
		Output: config.Output{
			Dir:     filepath.Join(t.TempDir(), "out"),
			Curated: "curated.csv",
			Flags:   "flags.csv",
			Final:   "final.csv",
		},
		Log: config.Log{Level: "info"},
	}
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, writeExport(t, exportCSV))
	cfg.Output.Summary = "summary.yaml"
	cfg.Output.Parquet = "final.parquet"

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 2, summary.Merged)
	assert.Empty(t, summary.UnmatchedCurated)
	assert.Equal(t, FlagCounts{Volume: 1, EditionFirst: 1, TitleMismatch: 1, NeedsReview: 2}, summary.Flags)
	assert.NotEmpty(t, summary.RunID)

	assert.Equal(t,
		"uri,full_title,main_title,subtitle,marc_main_title,marc_subtitle,title_prefix,edition,copyright_ocr\n"+
			"u1,The Great Work: A Study,The Great Work,A Study,great work,a study/,The,,\n"+
			"u2,\"Collected Letters, Vol. 2\",\"Collected Letters, Vol. 2\",,\"Collected letters, vol. 2\",,,,\"Second edition\n1999\"\n",
		readFile(t, cfg.Path("curated.csv")))

	assert.Equal(t,
		"uri,check_full_titles_for_volume_info?,check_copyright_ocr_for_edition_info?,check_fm_and_marc_titles_for_differences?\n"+
			"u1,N,N,YES\n"+
			"u2,YES,YES -- CHECK FIRST,N\n",
		readFile(t, cfg.Path("flags.csv")))

	final, err := metadata.ReadTable(cfg.Path("final.csv"))
	require.NoError(t, err)
	assert.Len(t, final.Header, 12)
	require.Len(t, final.Rows, 2)
	assert.Equal(t, []string{"u1", "The Great Work: A Study", "The Great Work", "A Study", "great work", "a study/", "The", "", "", "N", "N", "YES"}, final.Rows[0])

	saved, err := LoadSummary(cfg.Path("summary.yaml"))
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, saved.RunID)
	assert.Equal(t, summary.Flags, saved.Flags)
	assert.Equal(t, cfg.Path("final.parquet"), saved.Outputs.Parquet)

	_, err = os.Stat(cfg.Path("final.parquet"))
	assert.NoError(t, err)
}

func TestRunTabSeparatedOutputs(t *testing.T) {
	cfg := testConfig(t, writeExport(t, exportCSV))
	cfg.Output.Curated = "curated.tsv"
	cfg.Output.Flags = "flags.tsv"

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Merged)

	assert.Equal(t,
		"uri\tcheck_full_titles_for_volume_info?\tcheck_copyright_ocr_for_edition_info?\tcheck_fm_and_marc_titles_for_differences?\n"+
			"u1\tN\tN\tYES\n"+
			"u2\tYES\tYES -- CHECK FIRST\tN\n",
		readFile(t, cfg.Path("flags.tsv")))

	final, err := metadata.ReadTable(cfg.Path("final.csv"))
	require.NoError(t, err)
	require.Len(t, final.Rows, 2)
	assert.Equal(t, []string{"u2", "Collected Letters, Vol. 2", "Collected Letters, Vol. 2", "", "Collected letters, vol. 2", "", "", "", "Second edition\n1999", "YES", "YES -- CHECK FIRST", "N"}, final.Rows[1])
}

func TestRunEmptyCellsAsMissing(t *testing.T) {
	cfg := testConfig(t, writeExport(t, "uri,fm:title,marc:245A,marc:245B\nu1,Example Book,example book,\n"))
	cfg.Loader.EmptyCellsAsMissing = true

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Flags.TitleMismatch)

	assert.Equal(t,
		"uri,full_title,main_title,subtitle,marc_main_title,marc_subtitle,title_prefix,edition,copyright_ocr\n"+
			"u1,Example Book,Example Book,,example book,nan,,nan,nan\n",
		readFile(t, cfg.Path("curated.csv")))
}

func TestRunErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))

		_, err := Run(context.Background(), cfg)

		var missing *metadata.MissingFileError
		require.True(t, errors.As(err, &missing), "got %v", err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t, "")

		_, err := Run(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input file is required")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cfg := testConfig(t, writeExport(t, exportCSV))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, cfg)
		require.ErrorIs(t, err, context.Canceled)

		_, statErr := os.Stat(cfg.Path("curated.csv"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("output directory locked", func(t *testing.T) {
		cfg := testConfig(t, writeExport(t, exportCSV))
		require.NoError(t, os.MkdirAll(cfg.Output.Dir, 0755))

		held := flock.New(filepath.Join(cfg.Output.Dir, LockName))
		locked, err := held.TryLock()
		require.NoError(t, err)
		require.True(t, locked)
		defer held.Unlock()

		_, err = Run(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in use by another run")
	})
}
