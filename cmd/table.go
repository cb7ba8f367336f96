package cmd

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderTable lays out a Markdown-style table, padding cells by display
// width so CJK and other wide characters stay aligned.
func renderTable(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Ensure min width for the separator ("---")
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", widths[i])
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, tableLine(headers, widths), tableLine(separator, widths))
	for _, row := range rows {
		lines = append(lines, tableLine(row, widths))
	}
	return lines
}

func tableLine(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, w := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, w))
		sb.WriteString(" |")
	}
	return sb.String()
}

// truncate shortens s to at most width display columns, marking the cut.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
