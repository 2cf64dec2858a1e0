package metadata

import (
	"fmt"
	"strings"
)

// MissingFileError is returned when an input path does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// MalformedInputError is returned when a file cannot be read as delimited text.
// Line is 0 when the problem is not tied to a specific line.
type MalformedInputError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// WriteError is returned when an output file cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// JoinKeyMismatchError lists identifiers present on only one side of a merge.
type JoinKeyMismatchError struct {
	Left  []string // only in the left (curated) file
	Right []string // only in the right (flags) file
}

func (e *JoinKeyMismatchError) Error() string {
	var parts []string
	if len(e.Left) > 0 {
		parts = append(parts, fmt.Sprintf("%d only in curated records (%s)", len(e.Left), preview(e.Left)))
	}
	if len(e.Right) > 0 {
		parts = append(parts, fmt.Sprintf("%d only in review flags (%s)", len(e.Right), preview(e.Right)))
	}
	return "join key mismatch on uri: " + strings.Join(parts, "; ")
}

func preview(ids []string) string {
	const maxShown = 5
	if len(ids) <= maxShown {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:maxShown], ", ") + fmt.Sprintf(", ... %d more", len(ids)-maxShown)
}
