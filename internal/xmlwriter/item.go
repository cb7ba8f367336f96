package xmlwriter

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// guidNamespace scopes the name-based item GUIDs.
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.zotero.org/"))

// itemBuilder accumulates the children of one <item>, keeping the first
// serialization error.
type itemBuilder struct {
	record   *types.CitationRecord
	recordID string
	prefix   string
	item     XMLElement
	err      error
}

// buildItemElement builds the <item> for one record.
//
// STRUCTURE:
//   <item>
//     <title>, <guid>, <dc:creator>, <content:encoded>, <excerpt:encoded>
//     <wp:post_id>, <wp:post_type>, <wp:status>
//     <category domain="pub_type">, <category domain="post_tag">...
//     <wp:postmeta>...
//   </item>
func buildItemElement(r *types.CitationRecord, options GenerateOptions, postID int) (XMLElement, error) {
	b := &itemBuilder{
		record:   r,
		recordID: RecordID(r),
		prefix:   options.MetaPrefix,
		item:     XMLElement{XMLName: xml.Name{Local: "item"}},
	}

	b.text("title", r.Title)
	b.add("guid", "guid", itemGUID(r, postID), false,
		xml.Attr{Name: xml.Name{Local: "isPermaLink"}, Value: "false"})
	b.text("dc:creator", options.PostAuthor)
	b.add("content:encoded", "content:encoded", itemContent(r), true)
	b.add("excerpt:encoded", "excerpt:encoded", "", true)
	b.text("wp:post_id", strconv.Itoa(postID))
	b.text("wp:post_type", options.PostType)
	b.text("wp:status", options.PostStatus)

	b.add("category", "category", r.Type.Label(), false,
		xml.Attr{Name: xml.Name{Local: "domain"}, Value: "pub_type"},
		xml.Attr{Name: xml.Name{Local: "nicename"}, Value: string(r.Type)})
	for _, tag := range r.Tags {
		b.add("category", "category", tag.Name, false,
			xml.Attr{Name: xml.Name{Local: "domain"}, Value: "post_tag"},
			xml.Attr{Name: xml.Name{Local: "nicename"}, Value: tag.Slug})
	}

	b.meta("type", string(r.Type))
	b.meta("subtitle", r.Subtitle)
	if seconds, ok := r.Date.Unix(); ok {
		b.meta("date", strconv.FormatInt(seconds, 10))
	}
	b.meta("date-specificity", r.Date.Specificity())
	for _, c := range r.Creators {
		b.meta("author", c.FullName())
	}
	b.meta("journal-book", r.ContainerTitle)
	b.meta("volume", r.Volume)
	b.meta("issue", r.Issue)
	b.meta("pages", r.Pages)
	b.meta("doi", r.DOI)
	b.meta("pmcid", r.PMCID)
	b.meta("url", r.URL)
	for _, c := range r.Editors {
		b.meta("editor", c.FullName())
	}
	b.meta("publisher", r.Publisher)
	b.meta("publisher-place", r.Place)
	for _, c := range r.ReviewedAuthors {
		b.meta("reviewed-author", c.FullName())
	}
	b.meta("zotero-key", r.Key)

	return b.item, b.err
}

// text adds a simple element.
func (b *itemBuilder) text(name, value string) {
	b.add(name, name, value, false)
}

// add appends an element after checking its value and attributes.
func (b *itemBuilder) add(name, field, value string, cdata bool, attrs ...xml.Attr) {
	if b.err != nil {
		return
	}
	if !b.check(field, value) {
		return
	}
	for _, a := range attrs {
		if !b.check(field+"@"+a.Name.Local, a.Value) {
			return
		}
	}
	b.item.Children = append(b.item.Children, XMLElement{
		XMLName:    xml.Name{Local: name},
		Attributes: attrs,
		Value:      value,
		CDATA:      cdata,
	})
}

// meta appends a wp:postmeta pair. Empty values are omitted.
func (b *itemBuilder) meta(key, value string) {
	if b.err != nil || value == "" {
		return
	}
	key = b.prefix + key
	if !b.check(key, value) || !b.check("meta key", key) {
		return
	}
	b.item.Children = append(b.item.Children, XMLElement{
		XMLName: xml.Name{Local: "wp:postmeta"},
		Children: []XMLElement{
			createSimpleElement("wp:meta_key", key),
			{XMLName: xml.Name{Local: "wp:meta_value"}, Value: value, CDATA: true},
		},
	})
}

func (b *itemBuilder) check(field, value string) bool {
	if err := checkText(value); err != nil {
		b.err = &SerializationError{RecordID: b.recordID, Field: field, Err: err}
		return false
	}
	return true
}

// RecordID names a record in diagnostics: its Zotero key, or its row.
func RecordID(r *types.CitationRecord) string {
	if r.Key != "" {
		return r.Key
	}
	return fmt.Sprintf("row %d", r.Row)
}

// itemGUID derives a stable GUID from the Zotero key, or from the title and
// post id when the record has no key.
func itemGUID(r *types.CitationRecord, postID int) string {
	name := "item/" + r.Key
	if r.Key == "" {
		name = fmt.Sprintf("title/%s#%d", r.Title, postID)
	}
	return uuid.NewSHA1(guidNamespace, []byte(name)).String()
}

// itemContent is the post body: the abstract, then a one-line citation.
func itemContent(r *types.CitationRecord) string {
	citation := CitationSummary(r)
	switch {
	case r.Abstract == "":
		return citation
	case citation == "":
		return r.Abstract
	default:
		return r.Abstract + "\n\n" + citation
	}
}

// CitationSummary formats a record as a short plain-text reference:
//
//	Smith, J., & Doe, J. (2019). The Ethics of Care: A Subtitle. Journal, 12(3), 45-67. https://doi.org/10.1/x
func CitationSummary(r *types.CitationRecord) string {
	var parts []string

	if names := formatCreators(r.Creators); names != "" {
		parts = append(parts, names)
	}
	if !r.Date.IsZero() {
		parts = append(parts, fmt.Sprintf("(%d).", r.Date.Year))
	}

	title := r.Title
	if r.Subtitle != "" {
		title += ": " + r.Subtitle
	}
	parts = append(parts, withPeriod(title))

	source := r.ContainerTitle
	if r.Volume != "" {
		source = joinNonEmpty(", ", source, r.Volume)
		if r.Issue != "" {
			source += "(" + r.Issue + ")"
		}
	} else if r.Issue != "" {
		source = joinNonEmpty(", ", source, "no. "+r.Issue)
	}
	source = joinNonEmpty(", ", source, r.Pages)
	if source != "" {
		parts = append(parts, withPeriod(source))
	}

	if publisher := joinNonEmpty(": ", r.Place, r.Publisher); publisher != "" {
		parts = append(parts, withPeriod(publisher))
	}

	switch {
	case r.DOI != "":
		parts = append(parts, "https://doi.org/"+strings.TrimPrefix(r.DOI, "https://doi.org/"))
	case r.URL != "":
		parts = append(parts, r.URL)
	}

	return strings.Join(parts, " ")
}

// formatCreators renders "Last, F." names joined APA style.
func formatCreators(creators []types.Creator) string {
	names := make([]string, 0, len(creators))
	for _, c := range creators {
		name := c.LastName
		if initials := initials(c.FirstName); initials != "" {
			name = joinNonEmpty(", ", name, initials)
		}
		if name != "" {
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

// initials turns "Jane Ann" into "J. A.".
func initials(first string) string {
	var out []string
	for _, part := range strings.Fields(first) {
		r := []rune(part)
		out = append(out, string(r[0])+".")
	}
	return strings.Join(out, " ")
}

func withPeriod(s string) string {
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}

func joinNonEmpty(sep string, values ...string) string {
	var kept []string
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}
