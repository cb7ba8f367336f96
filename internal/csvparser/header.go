package csvparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// Header is the validated header row of an input table.
// It is shared by the CSV and XLSX readers so both honour the same
// column lookup contract.
type Header struct {
	names []string
}

// NewHeader cleans and validates a raw header row.
//
// PARAMETERS:
//   - path: The input file, used in error messages.
//   - line: The line the header was read from.
//   - raw: The header cells as read.
//   - required: Column names that must be present.
//
// RETURNS:
//   - The header.
//   - An *InputFormatError when every cell is blank, a name repeats, or a
//     required column is absent.
func NewHeader(path string, line int, raw []string, required []string) (*Header, error) {
	if IsRowEmpty(raw) {
		return nil, &InputFormatError{Path: path, Line: line, Reason: ErrMissingHeader}
	}

	names := cleanHeaders(raw)

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, &InputFormatError{
				Path:   path,
				Line:   line,
				Reason: ErrMalformedHeader,
				Detail: fmt.Sprintf("duplicate column %q", name),
			}
		}
		seen[name] = true
	}

	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &InputFormatError{
			Path:   path,
			Line:   line,
			Reason: ErrMissingColumn,
			Detail: strings.Join(missing, ", "),
		}
	}

	return &Header{names: names}, nil
}

// Names returns the column names in table order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Row converts a record into a RawRow. Missing trailing cells become empty
// values; surplus cells without a header are ignored.
func (h *Header) Row(record []string, line int) types.RawRow {
	fields := make(map[string]string, len(h.names))
	for i, name := range h.names {
		if i < len(record) {
			fields[name] = strings.TrimSpace(record[i])
		} else {
			fields[name] = ""
		}
	}
	return types.RawRow{Fields: fields, Line: line}
}

// cleanHeaders trims header cells and names blank ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// IsRowEmpty checks if a row contains only empty values.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
