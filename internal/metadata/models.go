package metadata

// Missing is the placeholder written for any value the export does not carry.
// Downstream comparisons that need to ignore absent MARC values match on this
// exact string, so it must not change independently of them.
const Missing = "nan"

// Source column names in the metadata export.
const (
	ColumnURI           = "uri"
	ColumnFullTitle     = "fm:title"
	ColumnMARCMainTitle = "marc:245A"
	ColumnMARCSubtitle  = "marc:245B"
	ColumnEdition       = "marc:250A"
	ColumnCopyrightOCR  = "ocr:copyrightPage"
)

// SourceColumns lists the export columns the loader keeps, in record order.
var SourceColumns = []string{
	ColumnURI,
	ColumnFullTitle,
	ColumnMARCMainTitle,
	ColumnMARCSubtitle,
	ColumnEdition,
	ColumnCopyrightOCR,
}

// Review flag values.
const (
	FlagYes = "YES"
	FlagNo  = "N"

	EditionCheckFirst  = "YES -- CHECK FIRST"
	EditionCheckSecond = "YES -- CHECK SECOND"
)

// Title prefixes recognised by the curator.
const (
	PrefixA   = "A"
	PrefixAn  = "An"
	PrefixThe = "The"
)

// MetadataRecord is one row of the metadata export
type MetadataRecord struct {
	URI           string
	FullTitle     string // front-matter title (fm:title)
	MARCMainTitle string // 245 $a
	MARCSubtitle  string // 245 $b
	Edition       string // 250 $a
	CopyrightOCR  string // OCR text of the copyright page
}

// CuratedRecord is a MetadataRecord with its title split into parts
type CuratedRecord struct {
	URI           string
	FullTitle     string
	MainTitle     string
	Subtitle      string
	MARCMainTitle string
	MARCSubtitle  string
	TitlePrefix   string // "A", "An", "The" or ""
	Edition       string
	CopyrightOCR  string
}

// ReviewFlags holds the manual review checks for one record
type ReviewFlags struct {
	URI           string
	Volume        string // FlagYes or FlagNo
	Edition       string // EditionCheckFirst, EditionCheckSecond or FlagNo
	TitleMismatch string // FlagYes or FlagNo
}

// NeedsReview reports whether any check asked for a manual look.
func (f ReviewFlags) NeedsReview() bool {
	return f.Volume != FlagNo || f.Edition != FlagNo || f.TitleMismatch != FlagNo
}
