// Package curation splits front-matter titles into prefix, main title and subtitle.
package curation

import (
	"strings"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
)

// titlePrefixes are checked in order; the first match wins.
var titlePrefixes = []struct {
	lead   string
	prefix string
}{
	{"A ", metadata.PrefixA},
	{"An ", metadata.PrefixAn},
	{"The ", metadata.PrefixThe},
}

// SplitTitle trims a title and splits it into its leading article, the text
// before the first colon and the text after it.
//
// With exactly one colon the subtitle is trimmed. With more than one, the
// remainder is rejoined on ":" and left as is.
func SplitTitle(title string) (prefix, main, subtitle string) {
	title = strings.TrimSpace(title)

	for _, p := range titlePrefixes {
		if strings.HasPrefix(title, p.lead) {
			prefix = p.prefix
			break
		}
	}

	parts := strings.Split(title, ":")
	switch len(parts) {
	case 1:
		return prefix, title, ""
	case 2:
		return prefix, parts[0], strings.TrimSpace(parts[1])
	default:
		return prefix, parts[0], strings.Join(parts[1:], ":")
	}
}

// CurateRecord derives the curated form of one export row
func CurateRecord(r metadata.MetadataRecord) metadata.CuratedRecord {
	prefix, main, subtitle := SplitTitle(r.FullTitle)

	return metadata.CuratedRecord{
		URI:           r.URI,
		FullTitle:     strings.TrimSpace(r.FullTitle),
		MainTitle:     main,
		Subtitle:      subtitle,
		MARCMainTitle: r.MARCMainTitle,
		MARCSubtitle:  r.MARCSubtitle,
		TitlePrefix:   prefix,
		Edition:       r.Edition,
		CopyrightOCR:  r.CopyrightOCR,
	}
}

// Curate curates every record, preserving order
func Curate(records []metadata.MetadataRecord) []metadata.CuratedRecord {
	curated := make([]metadata.CuratedRecord, 0, len(records))
	for _, r := range records {
		curated = append(curated, CurateRecord(r))
	}
	return curated
}
