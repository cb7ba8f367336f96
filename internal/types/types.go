// =============================================================================
// Zotero to WXR Converter - Shared Types
// =============================================================================
//
// This package contains the record types that flow through the pipeline.
// They live here to avoid import cycles between:
//   - csvparser / xlsxparser (produce RawRow)
//   - converter              (produces CitationRecord and Bucket)
//   - validation             (inspects CitationRecord)
//   - xmlwriter              (consumes Bucket)
//
// =============================================================================

package types

import (
	"fmt"
	"time"
)

// =============================================================================
// RAW ROWS
// =============================================================================

// RawRow is one data row of the input table, keyed by column header.
type RawRow struct {
	// Fields maps the column header to the trimmed cell value.
	Fields map[string]string

	// Line is the 1-based line (or sheet row) the row was read from.
	Line int
}

// Value looks up a column by header name. The boolean is false when the
// column does not exist in the table, which is distinct from an empty cell.
func (r RawRow) Value(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// Get returns the value of a column, or "" when the column is absent.
func (r RawRow) Get(column string) string {
	return r.Fields[column]
}

// =============================================================================
// CITATION RECORDS
// =============================================================================

// Creator is one person (or institution) credited on a citation.
// Institutional and otherwise unparseable names only carry LastName.
type Creator struct {
	FirstName string
	LastName  string
}

// FullName returns "First Last", or just the last name when no first name
// is known.
func (c Creator) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// PartialDate is a date where month and day may be unknown.
// A zero component means unset.
type PartialDate struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether no date component is known.
func (d PartialDate) IsZero() bool {
	return d.Year == 0
}

// Specificity returns "ymd", "ym", "y", or "" for an unset date.
func (d PartialDate) Specificity() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return "y"
	case d.Day == 0:
		return "ym"
	default:
		return "ymd"
	}
}

// Unix returns the UTC unix time at the start of the most specific known
// period. Missing month and day count as the first. ok is false when the
// date is unset.
func (d PartialDate) Unix() (seconds int64, ok bool) {
	if d.IsZero() {
		return 0, false
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Unix(), true
}

// String formats the known components as YYYY, YYYY-MM or YYYY-MM-DD.
func (d PartialDate) String() string {
	switch d.Specificity() {
	case "ymd":
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case "ym":
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case "y":
		return fmt.Sprintf("%04d", d.Year)
	}
	return ""
}

// CitationRecord is the normalized form of one bibliographic entry.
// Optional string fields are "" when unset.
type CitationRecord struct {
	// Title is title-cased and never empty.
	Title string

	// Subtitle is the title-cased part after the first colon, if any.
	Subtitle string

	Creators        []Creator
	Editors         []Creator
	ReviewedAuthors []Creator

	// Type is the bucket the record is emitted in.
	Type PublicationType

	// SourceType is the item type label exactly as exported.
	SourceType string

	Date PartialDate

	// RawDate keeps the unparsed date so diagnostics can show it.
	RawDate string

	ContainerTitle string
	Volume         string
	Issue          string
	Pages          string
	URL            string
	DOI            string
	PMCID          string
	Abstract       string
	Publisher      string
	Place          string

	// Key is the Zotero item key.
	Key string

	// Tags are post tags derived from the credited people.
	Tags []Tag

	// Row is the input line the record came from.
	Row int
}

// Tag is a WordPress post tag.
type Tag struct {
	Name string
	Slug string
}

// =============================================================================
// BUCKETS
// =============================================================================

// Bucket is an ordered group of records sharing one publication type.
// Records keep input order.
type Bucket struct {
	Type    PublicationType
	Records []CitationRecord
}
