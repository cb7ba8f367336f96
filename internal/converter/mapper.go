// =============================================================================
// Zotero to WXR Converter - Mapper
// =============================================================================
//
// This module turns one raw table row into a normalized citation record.
//
// FIELD MAPPING:
//   Title            -> Title (title-cased) + Subtitle (after first ": ")
//   Author           -> Creators         ("Last, First; Last, First")
//   Editor           -> Editors
//   Reviewed Author  -> ReviewedAuthors
//   Item Type        -> Type             (fixed tag set, unknown -> other)
//   Date             -> Date             (partial date, missing parts unset)
//   Extra            -> PMCID            ("PMCID: PMC123" inside the text)
//   everything else  -> copied verbatim, trimmed, "" when empty
//
// FAILURE POLICY:
//   Mapping never fails. A malformed row degrades to a record with whatever
//   fields could be recovered; the validation package reports what is off.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/gosimple/slug"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/titlecase"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// =============================================================================
// MAPPER
// =============================================================================

// Mapper converts RawRows into CitationRecords.
type Mapper struct {
	cols          config.Columns
	caser         *titlecase.Caser
	types         *TypeMapper
	splitSubtitle bool
	untitled      string
	authorTags    []config.AuthorTag
}

// NewMapper creates a Mapper from the configuration.
func NewMapper(cfg *config.Config) *Mapper {
	return &Mapper{
		cols:          cfg.Columns,
		caser:         titlecase.New(cfg.Mapping.SmallWords),
		types:         NewTypeMapper(cfg.Mapping.TypeAliases),
		splitSubtitle: cfg.Mapping.SplitSubtitleEnabled(),
		untitled:      cfg.Mapping.UntitledPlaceholder,
		authorTags:    cfg.Output.AuthorTags,
	}
}

// Map converts one row. It never fails.
//
// PARAMETERS:
//   - row: The raw row, looked up by the configured column names.
//
// RETURNS:
//   - The normalized record. Columns absent from the table leave their
//     fields unset.
func (m *Mapper) Map(row types.RawRow) types.CitationRecord {
	get := func(column string) string {
		v, _ := row.Value(column)
		return strings.TrimSpace(v)
	}

	rawType := get(m.cols.ItemType)
	rawDate := get(m.cols.Date)

	record := types.CitationRecord{
		Creators:        ParseNames(get(m.cols.Author)),
		Editors:         ParseNames(get(m.cols.Editor)),
		ReviewedAuthors: ParseNames(get(m.cols.ReviewedAuthor)),
		Type:            m.types.Lookup(rawType),
		SourceType:      rawType,
		Date:            ParseDate(rawDate),
		RawDate:         rawDate,
		ContainerTitle:  get(m.cols.Publication),
		Volume:          get(m.cols.Volume),
		Issue:           get(m.cols.Issue),
		Pages:           get(m.cols.Pages),
		URL:             get(m.cols.URL),
		DOI:             get(m.cols.DOI),
		PMCID:           ExtraValue(get(m.cols.Extra), "PMCID"),
		Abstract:        get(m.cols.Abstract),
		Publisher:       get(m.cols.Publisher),
		Place:           get(m.cols.Place),
		Key:             get(m.cols.Key),
		Row:             row.Line,
	}

	record.Title, record.Subtitle = m.mapTitle(get(m.cols.Title))

	nameText := get(m.cols.Author) + " " + get(m.cols.Editor) + " " + get(m.cols.ReviewedAuthor)
	record.Tags = m.matchAuthorTags(nameText)

	return record
}

// mapTitle title-cases the raw title and splits off the subtitle.
// The returned title is never empty.
func (m *Mapper) mapTitle(raw string) (title, subtitle string) {
	main := raw
	if m.splitSubtitle {
		main, subtitle = SplitSubtitle(raw)
	}

	title = m.caser.Title(main)
	subtitle = m.caser.Title(subtitle)

	if title == "" {
		title, subtitle = subtitle, ""
	}
	if title == "" {
		title = m.untitled
	}
	return title, subtitle
}

// matchAuthorTags returns the configured tags whose match string occurs in
// the name columns, in configuration order.
func (m *Mapper) matchAuthorTags(names string) []types.Tag {
	var tags []types.Tag
	for _, at := range m.authorTags {
		if strings.Contains(names, at.Match) {
			tags = append(tags, types.Tag{Name: at.Name, Slug: slug.Make(at.Name)})
		}
	}
	return tags
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// SplitSubtitle splits "Title: Subtitle" at the first colon that is followed
// by whitespace or ends the text. Colons inside words ("10:30", URLs) do not
// split.
func SplitSubtitle(title string) (main, subtitle string) {
	for i := 0; i < len(title); i++ {
		if title[i] != ':' {
			continue
		}
		if i+1 == len(title) || title[i+1] == ' ' || title[i+1] == '\t' {
			return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+1:])
		}
	}
	return strings.TrimSpace(title), ""
}

// ParseNames parses a creator list.
//
// INPUT FORMAT:
//   Names are separated by semicolons or newlines. Each name is
//   "Last, First". A name without a comma (an institution, a mononym)
//   becomes a last-name-only creator. Empty entries are dropped.
//
// EXAMPLE:
//   "Smith, Jane; World Health Organization"
//   -> [{Jane Smith} {"" World Health Organization}]
func ParseNames(s string) []types.Creator {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	entries := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '\n' || r == '\r'
	})

	var creators []types.Creator
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		last, first, found := strings.Cut(entry, ",")
		if !found {
			creators = append(creators, types.Creator{LastName: entry})
			continue
		}

		creators = append(creators, types.Creator{
			FirstName: strings.TrimSpace(first),
			LastName:  strings.TrimSpace(last),
		})
	}
	return creators
}

// ExtraValue extracts a value from Zotero's "Extra" field, which stores
// whitespace separated "key: value" pairs.
//
// EXAMPLE:
//   ExtraValue("PMCID: PMC3531190 PMID: 23193287", "PMCID") -> "PMC3531190"
func ExtraValue(extra, key string) string {
	if extra == "" || key == "" {
		return ""
	}

	words := strings.Fields(extra)
	for i := 0; i < len(words)-1; i++ {
		if words[i] == key+":" {
			return words[i+1]
		}
	}
	return ""
}
