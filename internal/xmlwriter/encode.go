package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// writeElement writes an element and its children with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	writeIndent(buffer, indent, level)

	if element.Comment != "" {
		buffer.WriteString("<!--")
		buffer.WriteString(element.Comment)
		buffer.WriteString("-->\n")
		return
	}

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value))
	}

	if len(element.Children) == 0 && element.Value == "" && !element.CDATA {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	switch {
	case element.CDATA:
		writeCDATA(buffer, element.Value)
	case len(element.Children) == 0:
		buffer.WriteString(escapeXML(element.Value))
	default:
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		writeIndent(buffer, indent, level)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// cdataSplitter breaks a CDATA section around sequences it cannot hold
// verbatim. A "]]>" is split so that the first section ends after "]]" and
// the next starts with ">". A carriage return is written between sections
// as a character reference, since parsers turn a literal one into "\n".
var cdataSplitter = strings.NewReplacer(
	"]]>", "]]]]><![CDATA[>",
	"\r", "]]>&#xD;<![CDATA[",
)

// writeCDATA writes s as one or more CDATA sections.
func writeCDATA(buffer *bytes.Buffer, s string) {
	buffer.WriteString("<![CDATA[")
	cdataSplitter.WriteString(buffer, s)
	buffer.WriteString("]]>")
}

// escapeXML escapes special characters in XML text and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// checkText returns an error when s cannot be carried by an XML 1.0 document.
func checkText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return fmt.Errorf("%w at byte %d", ErrInvalidUTF8, i)
			}
		}
		if !isXMLChar(r) {
			return fmt.Errorf("%w: U+%04X at byte %d", ErrInvalidCharacter, r, i)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
