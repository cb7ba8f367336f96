package converter

import (
	"strings"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// builtinAliases maps normalized item type labels to publication types.
var builtinAliases = map[string]types.PublicationType{
	"journalarticle":   types.JournalArticle,
	"article":          types.JournalArticle,
	"booksection":      types.BookSection,
	"bookchapter":      types.BookSection,
	"chapter":          types.BookSection,
	"incollection":     types.BookSection,
	"book":             types.Book,
	"report":           types.Report,
	"techreport":       types.Report,
	"conferencepaper":  types.ConferencePaper,
	"inproceedings":    types.ConferencePaper,
	"proceedingspaper": types.ConferencePaper,
	"thesis":           types.Thesis,
	"dissertation":     types.Thesis,
	"phdthesis":        types.Thesis,
	"mastersthesis":    types.Thesis,
	"other":            types.Other,
}

// TypeMapper resolves free-form item type labels.
type TypeMapper struct {
	aliases map[string]types.PublicationType
}

// NewTypeMapper builds a TypeMapper from the built-in aliases plus extra
// label -> tag pairs. Extra aliases win over built-in ones; pairs naming an
// unknown tag are ignored.
func NewTypeMapper(extra map[string]string) *TypeMapper {
	aliases := make(map[string]types.PublicationType, len(builtinAliases)+len(extra))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	for label, tag := range extra {
		t := types.PublicationType(tag)
		if t.Valid() {
			aliases[normalizeLabel(label)] = t
		}
	}
	return &TypeMapper{aliases: aliases}
}

// Lookup returns the publication type for a label, or types.Other.
func (m *TypeMapper) Lookup(label string) types.PublicationType {
	if t, ok := m.aliases[normalizeLabel(label)]; ok {
		return t
	}
	return types.Other
}

// Known reports whether the label maps to a type without falling back.
func (m *TypeMapper) Known(label string) bool {
	_, ok := m.aliases[normalizeLabel(label)]
	return ok
}

// normalizeLabel case-folds a label and drops spaces, hyphens and underscores,
// so "Journal Article", "journal_article" and "journalArticle" coincide.
func normalizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(label)))
}
