// =============================================================================
// Zotero to WXR Converter - XML Writer Module
// =============================================================================
//
// This module generates the WordPress eXtended RSS (WXR) import document
// from the grouped citation records.
//
// XML STRUCTURE:
//   The generated XML follows this nesting pattern:
//
//   <rss version="2.0" xmlns:excerpt=".." xmlns:content=".." ...>
//     <channel>
//       <title>Publications</title>
//       <description>..</description>
//       <wp:wxr_version>1.2</wp:wxr_version>
//       <generator>zotero2wxr</generator>
//       <section type="journalArticle" label="Journal Articles" count="2">
//         <item>
//           <title>The Ethics of Care</title>
//           <wp:post_id>1</wp:post_id>        <!-- numbering is global -->
//           ...
//         </item>
//         <item>...<wp:post_id>2</wp:post_id>...</item>
//       </section>
//       <section type="book" label="Books" count="1">
//         <item>...<wp:post_id>3</wp:post_id>...</item>
//       </section>
//     </channel>
//   </rss>
//
//   With the "comment" section style the <section> wrappers are replaced by
//   comment markers and every item is a direct child of <channel>.
//
// DETERMINISM:
//   The same buckets and options always produce the same bytes. The only
//   varying element is <pubDate>, written only when PubDate is set.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// WXRVersion is the export format version WordPress expects.
const WXRVersion = "1.2"

// namespaces are the WXR namespace declarations on the root element.
var namespaces = []xml.Attr{
	{Name: xml.Name{Local: "version"}, Value: "2.0"},
	{Name: xml.Name{Local: "xmlns:excerpt"}, Value: "http://wordpress.org/export/1.2/excerpt/"},
	{Name: xml.Name{Local: "xmlns:content"}, Value: "http://purl.org/rss/1.0/modules/content/"},
	{Name: xml.Name{Local: "xmlns:wfw"}, Value: "http://wellformedweb.org/CommentAPI/"},
	{Name: xml.Name{Local: "xmlns:dc"}, Value: "http://purl.org/dc/elements/1.1/"},
	{Name: xml.Name{Local: "xmlns:wp"}, Value: "http://wordpress.org/export/1.2/"},
}

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// PostType is the WordPress post type of every item.
	// Default: "publications"
	PostType string

	// PostAuthor is the WordPress user credited as dc:creator.
	// Default: "anonymous"
	PostAuthor string

	// PostStatus is the WordPress status of every item.
	// Default: "publish"
	PostStatus string

	// MetaPrefix is prepended to every postmeta key.
	// Default: "wpcf-pub-"
	MetaPrefix string

	// IDBase is the wp:post_id of the first item.
	// Default: 1
	IDBase int

	// SectionStyle is config.SectionElement or config.SectionComment.
	// Default: config.SectionElement
	SectionStyle string

	ChannelTitle       string
	ChannelDescription string

	// Generator is written to the channel's <generator>.
	// Default: "zotero2wxr"
	Generator string

	// PubDate is written as the channel <pubDate> when not zero.
	PubDate time.Time
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return OptionsFromConfig(config.Default().Output)
}

// OptionsFromConfig builds generation options from the output settings.
// PubDate is left zero; callers set it when timestamps are enabled.
func OptionsFromConfig(o config.OutputConfig) GenerateOptions {
	return GenerateOptions{
		Indent:             o.Indent,
		PostType:           o.PostType,
		PostAuthor:         o.PostAuthor,
		PostStatus:         o.PostStatus,
		MetaPrefix:         o.MetaPrefix,
		IDBase:             o.FirstID(),
		SectionStyle:       o.SectionStyle,
		ChannelTitle:       o.ChannelTitle,
		ChannelDescription: o.ChannelDescription,
		Generator:          "zotero2wxr",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates the WXR document.
//
// PARAMETERS:
//   - buckets: Records grouped by type, already in output order.
//   - options: Output settings.
//
// RETURNS:
//   - The document bytes, starting with the XML declaration.
//   - A *SerializationError when a value holds a character XML cannot carry.
//
// GENERATION PROCESS:
//   1. Build the element tree, checking every value
//   2. Write the declaration
//   3. Write the tree with indentation
func Generate(buckets []types.Bucket, options GenerateOptions) ([]byte, error) {
	doc, err := buildDocument(buckets, options)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	writeElement(&buffer, *doc, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a node of the output tree.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr

	// Value is the element text. It is written escaped, or raw inside a
	// CDATA section when CDATA is set.
	Value string
	CDATA bool

	// Comment, when set, turns the node into an XML comment.
	Comment string

	Children []XMLElement
}

func buildDocument(buckets []types.Bucket, options GenerateOptions) (*XMLElement, error) {
	channel := XMLElement{XMLName: xml.Name{Local: "channel"}}

	for _, field := range []struct{ name, value string }{
		{"title", options.ChannelTitle},
		{"description", options.ChannelDescription},
		{"generator", options.Generator},
	} {
		if err := checkText(field.value); err != nil {
			return nil, &SerializationError{RecordID: "channel", Field: field.name, Err: err}
		}
	}

	channel.Children = append(channel.Children,
		createSimpleElement("title", options.ChannelTitle),
		createSimpleElement("description", options.ChannelDescription),
	)
	if !options.PubDate.IsZero() {
		channel.Children = append(channel.Children,
			createSimpleElement("pubDate", options.PubDate.UTC().Format(time.RFC1123Z)))
	}
	channel.Children = append(channel.Children,
		createSimpleElement("wp:wxr_version", WXRVersion),
		createSimpleElement("generator", options.Generator),
	)

	postID := options.IDBase
	for _, bucket := range buckets {
		items := make([]XMLElement, 0, len(bucket.Records))
		for i := range bucket.Records {
			item, err := buildItemElement(&bucket.Records[i], options, postID)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			postID++
		}

		if options.SectionStyle == config.SectionComment {
			channel.Children = append(channel.Children, XMLElement{
				Comment: fmt.Sprintf(" section: %s (%s), %d items ", bucket.Type, bucket.Type.Label(), len(items)),
			})
			channel.Children = append(channel.Children, items...)
			continue
		}

		channel.Children = append(channel.Children, XMLElement{
			XMLName: xml.Name{Local: "section"},
			Attributes: []xml.Attr{
				{Name: xml.Name{Local: "type"}, Value: string(bucket.Type)},
				{Name: xml.Name{Local: "label"}, Value: bucket.Type.Label()},
				{Name: xml.Name{Local: "count"}, Value: strconv.Itoa(len(items))},
			},
			Children: items,
		})
	}

	return &XMLElement{
		XMLName:    xml.Name{Local: "rss"},
		Attributes: namespaces,
		Children:   []XMLElement{channel},
	}, nil
}

// createSimpleElement creates an element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}
