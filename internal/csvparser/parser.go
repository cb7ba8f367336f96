// =============================================================================
// Zotero to WXR Converter - CSV Parser Module
// =============================================================================
//
// This module reads the citation export table. It streams one row at a time
// so an export of any size is read in constant memory.
//
// FEATURES:
//   - Configurable delimiter (comma, tab, semicolon, pipe, any single rune)
//   - UTF-8 byte-order mark stripped (Zotero writes one)
//   - Header validated before the first data row is returned
//   - Rows whose cells are all blank are skipped
//   - Lookup by column name through types.RawRow
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads a CSV export row by row.
//
// USAGE:
//
//	parser, err := csvparser.Open(path, cfg.CSV)
//	if err != nil {
//	    return err
//	}
//	defer parser.Close()
//
//	for parser.Next() {
//	    row := parser.Row()
//	    // Process the row...
//	}
//
//	if err := parser.Err(); err != nil {
//	    return err
//	}
type StreamingParser struct {
	path       string
	file       *os.File
	reader     *csv.Reader
	header     *Header
	currentRow types.RawRow
	skipped    int
	err        error
}

// Open opens a CSV file and reads its header row.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings (delimiter, required columns).
//
// RETURNS:
//   - A parser positioned before the first data row.
//   - An *InputFormatError if the file cannot be opened or the header is
//     missing, malformed or incomplete.
func Open(filePath string, settings config.CSVSettings) (*StreamingParser, error) {
	comma, err := config.DelimiterRune(settings.Delimiter)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &InputFormatError{Path: filePath, Reason: ErrUnreadable, Err: err}
	}

	parser, err := newParser(filePath, file, comma, settings.RequiredColumns)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.file = file

	return parser, nil
}

// NewReader reads CSV data from r instead of a file. path only labels errors.
// Close does not close r.
func NewReader(path string, r io.Reader, settings config.CSVSettings) (*StreamingParser, error) {
	comma, err := config.DelimiterRune(settings.Delimiter)
	if err != nil {
		return nil, err
	}
	return newParser(path, r, comma, settings.RequiredColumns)
}

func newParser(path string, r io.Reader, comma rune, required []string) (*StreamingParser, error) {
	// Strip a leading BOM; the rest passes through as UTF-8.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(bufio.NewReader(decoded))
	configureReader(reader, comma)

	parser := &StreamingParser{
		path:   path,
		reader: reader,
	}

	if err := parser.readHeader(required); err != nil {
		return nil, err
	}

	return parser, nil
}

// configureReader configures the CSV reader.
func configureReader(reader *csv.Reader, comma rune) {
	reader.Comma = comma

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1

	// Titles and abstracts often carry stray quotes.
	reader.LazyQuotes = true

	reader.ReuseRecord = false
}

// readHeader reads the first record as the header.
func (p *StreamingParser) readHeader(required []string) error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return &InputFormatError{Path: p.path, Reason: ErrMissingHeader}
	}
	if err != nil {
		return p.readError(err)
	}

	line, _ := p.reader.FieldPos(0)

	// encoding/csv already drops empty lines; a line of bare
	// delimiters still counts as a missing header.
	header, err := NewHeader(p.path, line, record, required)
	if err != nil {
		return err
	}

	p.header = header
	return nil
}

// Next advances to the next data row. Returns false at the end of the input
// or on a read error, which Err then reports.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = p.readError(err)
			return false
		}

		if IsRowEmpty(record) {
			p.skipped++
			continue
		}

		line, _ := p.reader.FieldPos(0)
		p.currentRow = p.header.Row(record, line)
		return true
	}
}

// readError converts a csv or I/O error into an InputFormatError.
func (p *StreamingParser) readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &InputFormatError{
			Path:   p.path,
			Line:   parseErr.Line,
			Reason: ErrUnreadable,
			Err:    parseErr.Err,
		}
	}
	return &InputFormatError{Path: p.path, Reason: ErrUnreadable, Err: err}
}

// Row returns the current row.
func (p *StreamingParser) Row() types.RawRow {
	return p.currentRow
}

// Headers returns the parsed headers.
func (p *StreamingParser) Headers() []string {
	return p.header.Names()
}

// Skipped returns the number of blank rows passed over so far.
func (p *StreamingParser) Skipped() int {
	return p.skipped
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file, if the parser opened one.
func (p *StreamingParser) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ReadAll reads every data row of a CSV file.
func ReadAll(filePath string, settings config.CSVSettings) ([]types.RawRow, error) {
	parser, err := Open(filePath, settings)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	var rows []types.RawRow
	for parser.Next() {
		rows = append(rows, parser.Row())
	}

	if err := parser.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}
