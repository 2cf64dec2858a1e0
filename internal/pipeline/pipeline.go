// Package pipeline runs the load, curate, sift, write and merge stages in order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/metasift/internal/config"
	"github.com/lehigh-university-libraries/metasift/internal/curation"
	"github.com/lehigh-university-libraries/metasift/internal/merge"
	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/report"
	"github.com/lehigh-university-libraries/metasift/internal/sifting"
)

// LockName is the file that keeps two runs from writing the same output directory
const LockName = ".metasift.lock"

// Run executes the whole pipeline described by cfg. Each stage finishes before
// the next starts; the first failure stops the run and earlier outputs are left
// in place.
func Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	unlock, err := lockOutputDir(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	summary := &Summary{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
		Input:     cfg.Input,
		Outputs: Outputs{
			Curated: cfg.Path(cfg.Output.Curated),
			Flags:   cfg.Path(cfg.Output.Flags),
			Final:   cfg.Path(cfg.Output.Final),
			Parquet: cfg.Path(cfg.Output.Parquet),
		},
	}

	slog.Info("Starting metadata run", "run_id", summary.RunID, "input", cfg.Input)

	records, err := metadata.NewLoader(cfg.Input, metadata.LoaderOptions{
		EmptyAsMissing: cfg.Loader.EmptyCellsAsMissing,
	}).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	summary.Records = len(records)
	slog.Info("Loaded metadata records", "records", len(records))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	curated := curation.Curate(records)
	slog.Info("Curated metadata records", "records", len(curated))

	flags, err := sifting.Sift(records, sifting.Options{
		EditionAbbreviationCheck: cfg.Sifting.EditionAbbreviationCheck,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sift records: %w", err)
	}
	summary.Flags = countFlags(flags)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := report.WriteCurated(summary.Outputs.Curated, curated); err != nil {
		return nil, err
	}
	if err := report.WriteFlags(summary.Outputs.Flags, flags); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged, err := merge.Files(summary.Outputs.Curated, summary.Outputs.Flags, summary.Outputs.Final, merge.Options{
		Strict: cfg.Merge.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to merge reports: %w", err)
	}
	summary.Merged = len(merged.Rows)
	summary.UnmatchedCurated = merged.UnmatchedLeft
	summary.UnmatchedFlags = merged.UnmatchedRight

	if summary.Outputs.Parquet != "" {
		if err := merge.ExportParquet(summary.Outputs.Parquet, merged); err != nil {
			return nil, err
		}
	}

	if cfg.Output.Summary != "" {
		if err := SaveSummary(cfg.Path(cfg.Output.Summary), summary); err != nil {
			return nil, err
		}
	}

	slog.Info("Metadata run complete", "run_id", summary.RunID, "records", summary.Records,
		"needs_review", summary.Flags.NeedsReview, "merged", summary.Merged)

	return summary, nil
}

// lockOutputDir takes an exclusive, non-blocking lock on dir.
func lockOutputDir(dir string) (func(), error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &metadata.WriteError{Path: dir, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	lock := flock.New(filepath.Join(dir, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output directory %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is in use by another run", dir)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release output directory lock", "dir", dir, "err", err)
		}
	}, nil
}

func countFlags(flags []metadata.ReviewFlags) FlagCounts {
	var c FlagCounts
	for _, f := range flags {
		if f.Volume == metadata.FlagYes {
			c.Volume++
		}
		switch f.Edition {
		case metadata.EditionCheckFirst:
			c.EditionFirst++
		case metadata.EditionCheckSecond:
			c.EditionSecond++
		}
		if f.TitleMismatch == metadata.FlagYes {
			c.TitleMismatch++
		}
		if f.NeedsReview() {
			c.NeedsReview++
		}
	}
	return c
}
