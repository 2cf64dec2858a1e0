// Package sifting flags export rows that need a cataloger to look at them by
// hand. Each sifter is a substring heuristic over normalized text.
package sifting

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

// Options tunes the sifters
type Options struct {
	// EditionAbbreviationCheck runs the " ed." test against text that still
	// has its spaces. When false the test runs against space-stripped text and
	// can never match, which is how the historical reports were produced.
	EditionAbbreviationCheck bool
}

var (
	lineAndSpace = strings.NewReplacer("\n", "", " ", "")
	lineOnly     = strings.NewReplacer("\n", "")
	titleNoise   = strings.NewReplacer("\n", "", " ", "", ":", "", ",", "")

	// Capital I with dot lowercases to i plus a combining dot above in the
	// historical reports; unicode.ToLower maps it to a bare i.
	dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")
)

// lower lowercases s using the full Unicode mapping for U+0130.
func lower(s string) string {
	return strings.ToLower(dottedCapitalI.Replace(s))
}

// squash lowercases s and removes newlines and spaces.
func squash(s string) string {
	return lineAndSpace.Replace(lower(s))
}

// normalizeTitle lowercases s and removes newlines, spaces, colons and commas.
func normalizeTitle(s string) string {
	return titleNoise.Replace(lower(s))
}

// VolumeFlag reports whether a title mentions a volume.
func VolumeFlag(title string) string {
	t := squash(title)
	if strings.Contains(t, "volume") || strings.Contains(t, "vol.") {
		return metadata.FlagYes
	}
	return metadata.FlagNo
}

// EditionFlag ranks how likely copyright page OCR is to carry edition information.
func EditionFlag(ocr string, opts Options) string {
	if strings.Contains(squash(ocr), "edition") {
		return metadata.EditionCheckFirst
	}

	abbrev := squash(ocr)
	if opts.EditionAbbreviationCheck {
		abbrev = lineOnly.Replace(lower(ocr))
	}
	if strings.Contains(abbrev, " ed.") {
		return metadata.EditionCheckSecond
	}
	return metadata.FlagNo
}

// TitleMismatchFlag compares the front-matter title with the MARC 245 $a/$b pair.
//
// A MARC subtitle that was absent from the export arrives as metadata.Missing
// and survives normalization as a trailing "nan"; that suffix is ignored when
// the lengths differ.
func TitleMismatchFlag(fmTitle, marcMain, marcSub string) string {
	fm := normalizeTitle(fmTitle)
	marc := normalizeTitle(marcMain) + normalizeTitle(strings.TrimSuffix(marcSub, "/"))

	if len(fm) == len(marc) {
		if fm == marc {
			return metadata.FlagNo
		}
		return metadata.FlagYes
	}

	if strings.HasSuffix(marc, metadata.Missing) {
		if fm == strings.TrimSuffix(marc, metadata.Missing) {
			return metadata.FlagNo
		}
		return metadata.FlagYes
	}

	return metadata.FlagYes
}

// SiftVolume flags each record's full title for volume information
func SiftVolume(records []metadata.MetadataRecord) []string {
	flags := make([]string, len(records))
	for i, r := range records {
		flags[i] = VolumeFlag(r.FullTitle)
	}
	return flags
}

// SiftEdition flags each record's copyright OCR for edition information
func SiftEdition(records []metadata.MetadataRecord, opts Options) []string {
	flags := make([]string, len(records))
	for i, r := range records {
		flags[i] = EditionFlag(r.CopyrightOCR, opts)
	}
	return flags
}

// SiftTitles flags each record whose front-matter and MARC titles differ
func SiftTitles(records []metadata.MetadataRecord) []string {
	flags := make([]string, len(records))
	for i, r := range records {
		flags[i] = TitleMismatchFlag(r.FullTitle, r.MARCMainTitle, r.MARCSubtitle)
	}
	return flags
}

// URIs returns the identifier of each record, in order
func URIs(records []metadata.MetadataRecord) []string {
	uris := make([]string, len(records))
	for i, r := range records {
		uris[i] = r.URI
	}
	return uris
}

// Combine zips identifiers with the three flag columns.
func Combine(uris, volume, edition, titles []string) ([]metadata.ReviewFlags, error) {
	n := len(uris)
	if len(volume) != n || len(edition) != n || len(titles) != n {
		return nil, fmt.Errorf("flag columns differ in length: uris=%d volume=%d edition=%d titles=%d",
			n, len(volume), len(edition), len(titles))
	}

	combined := make([]metadata.ReviewFlags, n)
	for i := range uris {
		combined[i] = metadata.ReviewFlags{
			URI:           uris[i],
			Volume:        volume[i],
			Edition:       edition[i],
			TitleMismatch: titles[i],
		}
	}
	return combined, nil
}

// Sift runs every sifter over the records and combines the results
func Sift(records []metadata.MetadataRecord, opts Options) ([]metadata.ReviewFlags, error) {
	volume := SiftVolume(records)
	edition := SiftEdition(records, opts)
	titles := SiftTitles(records)

	flags, err := Combine(URIs(records), volume, edition, titles)
	if err != nil {
		return nil, err
	}

	slog.Debug("Sifted records", "records", len(flags), "volume", count(volume, metadata.FlagYes),
		"edition_first", count(edition, metadata.EditionCheckFirst),
		"edition_second", count(edition, metadata.EditionCheckSecond),
		"title_mismatch", count(titles, metadata.FlagYes))

	return flags, nil
}

func count(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
