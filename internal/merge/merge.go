// Package merge joins the curated records and review flags files on uri.
package merge

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/report"
)

// Key is the join column shared by both reports
const Key = "uri"

// Options controls how unmatched identifiers are treated
type Options struct {
	// Strict fails the merge with a *metadata.JoinKeyMismatchError instead of
	// dropping rows whose uri only appears on one side.
	Strict bool
}

// Result is a joined table plus the identifiers that had no partner
type Result struct {
	Header         []string
	Rows           [][]string
	UnmatchedLeft  []string
	UnmatchedRight []string
}

// Join inner-joins left and right on Key. Output rows follow left order; a
// uri repeated on both sides yields every pairing. Columns are all of left's
// followed by right's minus the key.
func Join(left, right *metadata.Table) (*Result, error) {
	leftKey := left.ColumnIndex(Key)
	if leftKey < 0 {
		return nil, fmt.Errorf("left table has no %q column", Key)
	}
	rightKey := right.ColumnIndex(Key)
	if rightKey < 0 {
		return nil, fmt.Errorf("right table has no %q column", Key)
	}

	result := &Result{
		Header: append(append([]string{}, left.Header...), without(right.Header, rightKey)...),
	}

	byKey := make(map[string][][]string)
	for _, row := range right.Rows {
		k := cell(row, rightKey)
		byKey[k] = append(byKey[k], row)
	}

	seenLeft := make(map[string]bool)
	for _, row := range left.Rows {
		k := cell(row, leftKey)
		matches, ok := byKey[k]
		if !ok {
			if !seenLeft[k] {
				result.UnmatchedLeft = append(result.UnmatchedLeft, k)
			}
			seenLeft[k] = true
			continue
		}
		seenLeft[k] = true
		for _, m := range matches {
			joined := make([]string, 0, len(result.Header))
			joined = append(joined, fit(row, len(left.Header))...)
			joined = append(joined, without(fit(m, len(right.Header)), rightKey)...)
			result.Rows = append(result.Rows, joined)
		}
	}

	seenRight := make(map[string]bool)
	for _, row := range right.Rows {
		k := cell(row, rightKey)
		if !seenLeft[k] && !seenRight[k] {
			result.UnmatchedRight = append(result.UnmatchedRight, k)
		}
		seenRight[k] = true
	}

	return result, nil
}

// Files merges the curated records at curatedPath with the review flags at
// flagsPath and writes the joined table to outPath.
func Files(curatedPath, flagsPath, outPath string, opts Options) (*Result, error) {
	curated, err := metadata.ReadTable(curatedPath)
	if err != nil {
		return nil, err
	}
	flags, err := metadata.ReadTable(flagsPath)
	if err != nil {
		return nil, err
	}

	result, err := Join(curated, flags)
	if err != nil {
		path := curatedPath
		if curated.ColumnIndex(Key) >= 0 {
			path = flagsPath
		}
		return nil, &metadata.MalformedInputError{Path: path, Err: err}
	}

	if len(result.UnmatchedLeft) > 0 || len(result.UnmatchedRight) > 0 {
		slog.Warn("Identifiers without a partner row",
			"only_curated", len(result.UnmatchedLeft),
			"only_flags", len(result.UnmatchedRight),
			"strict", opts.Strict)
		for _, id := range result.UnmatchedLeft {
			slog.Debug("Unmatched curated record", "uri", id)
		}
		for _, id := range result.UnmatchedRight {
			slog.Debug("Unmatched review flags", "uri", id)
		}
		if opts.Strict {
			return nil, &metadata.JoinKeyMismatchError{Left: result.UnmatchedLeft, Right: result.UnmatchedRight}
		}
	}

	if err := report.WriteCSV(outPath, result.Header, result.Rows); err != nil {
		return nil, err
	}

	slog.Info("Merged reports", "path", outPath, "rows", len(result.Rows))

	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// fit pads or truncates row to n cells.
func fit(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func without(row []string, i int) []string {
	out := make([]string, 0, len(row))
	out = append(out, row[:i]...)
	return append(out, row[i+1:]...)
}
