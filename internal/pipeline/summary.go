package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

// Outputs lists the files a run wrote
type Outputs struct {
	Curated string `yaml:"curated"`
	Flags   string `yaml:"flags"`
	Final   string `yaml:"final"`
	Parquet string `yaml:"parquet,omitempty"`
}

// FlagCounts tallies the rows each sifter flagged
type FlagCounts struct {
	Volume        int `yaml:"volume"`
	EditionFirst  int `yaml:"editionfirst"`
	EditionSecond int `yaml:"editionsecond"`
	TitleMismatch int `yaml:"titlemismatch"`
	NeedsReview   int `yaml:"needsreview"`
}

// Summary describes one pipeline run
type Summary struct {
	RunID            string     `yaml:"runid"`
	Timestamp        string     `yaml:"timestamp"`
	Input            string     `yaml:"input"`
	Outputs          Outputs    `yaml:"outputs"`
	Records          int        `yaml:"records"`
	Flags            FlagCounts `yaml:"flags"`
	Merged           int        `yaml:"merged"`
	UnmatchedCurated []string   `yaml:"unmatchedcurated,omitempty"`
	UnmatchedFlags   []string   `yaml:"unmatchedflags,omitempty"`
}

// SaveSummary writes the run summary as YAML
func SaveSummary(path string, summary *Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &metadata.WriteError{Path: path, Err: fmt.Errorf("failed to create summary directory: %w", err)}
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return &metadata.WriteError{Path: path, Err: fmt.Errorf("failed to marshal YAML: %w", err)}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &metadata.WriteError{Path: path, Err: err}
	}

	slog.Info("Saved run summary", "path", path)
	return nil
}

// LoadSummary reads a summary written by SaveSummary
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &metadata.MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, &metadata.MalformedInputError{Path: path, Err: err}
	}
	return &summary, nil
}
