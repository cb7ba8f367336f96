// =============================================================================
// Zotero to WXR Converter - XLSX Table Reader
// =============================================================================
//
// This module reads a citation table that was saved as a spreadsheet instead
// of CSV (for example after cleaning the export in a spreadsheet program).
//
// TABLE STRUCTURE:
//   Row 1 of the sheet is the header row, using the same column names as the
//   CSV export. Every following non-blank row is one citation.
//
//   | Key      | Item Type      | Title              | Author      | ... |
//   |----------|----------------|--------------------|-------------|-----|
//   | ABCD1234 | journalArticle | the ethics of care | Smith, Jane | ... |
//
// The reader honours the same header contract and error type as the CSV
// reader, so the rest of the pipeline cannot tell the two apart.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/zotero2wxr/internal/csvparser"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// =============================================================================
// SHEET READER
// =============================================================================

// SheetReader streams the rows of one worksheet.
type SheetReader struct {
	path       string
	file       *excelize.File
	rows       *excelize.Rows
	sheet      string
	header     *csvparser.Header
	currentRow types.RawRow
	rowNumber  int
	skipped    int
	err        error
}

// Open opens a workbook and reads the header row of a sheet.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//   - sheet: The worksheet name. Empty selects the first sheet.
//   - required: Column names that must be present in the header.
//
// RETURNS:
//   - A reader positioned before the first data row.
//   - A *csvparser.InputFormatError when the workbook cannot be opened, the
//     sheet does not exist, or the header is missing or incomplete.
func Open(filePath, sheet string, required []string) (*SheetReader, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &csvparser.InputFormatError{Path: filePath, Reason: csvparser.ErrUnreadable, Err: err}
	}

	r, err := newSheetReader(filePath, f, sheet, required)
	if err != nil {
		f.Close()
		return nil, err
	}

	return r, nil
}

func newSheetReader(filePath string, f *excelize.File, sheet string, required []string) (*SheetReader, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &csvparser.InputFormatError{Path: filePath, Reason: csvparser.ErrMissingHeader, Detail: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, &csvparser.InputFormatError{
			Path:   filePath,
			Reason: csvparser.ErrUnreadable,
			Detail: fmt.Sprintf("sheet %q", sheet),
			Err:    err,
		}
	}

	r := &SheetReader{
		path:  filePath,
		file:  f,
		rows:  rows,
		sheet: sheet,
	}

	if err := r.readHeader(required); err != nil {
		rows.Close()
		return nil, err
	}

	return r, nil
}

// readHeader reads the first row of the sheet as the header.
func (r *SheetReader) readHeader(required []string) error {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return &csvparser.InputFormatError{Path: r.path, Reason: csvparser.ErrUnreadable, Err: err}
		}
		return &csvparser.InputFormatError{Path: r.path, Reason: csvparser.ErrMissingHeader}
	}
	r.rowNumber++

	cells, err := r.rows.Columns()
	if err != nil {
		return &csvparser.InputFormatError{Path: r.path, Line: r.rowNumber, Reason: csvparser.ErrUnreadable, Err: err}
	}

	header, err := csvparser.NewHeader(r.path, r.rowNumber, cells, required)
	if err != nil {
		return err
	}

	r.header = header
	return nil
}

// Next advances to the next non-blank data row.
func (r *SheetReader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.rows.Next() {
		r.rowNumber++

		cells, err := r.rows.Columns()
		if err != nil {
			r.err = &csvparser.InputFormatError{Path: r.path, Line: r.rowNumber, Reason: csvparser.ErrUnreadable, Err: err}
			return false
		}

		if csvparser.IsRowEmpty(cells) {
			r.skipped++
			continue
		}

		r.currentRow = r.header.Row(cells, r.rowNumber)
		return true
	}

	if err := r.rows.Error(); err != nil {
		r.err = &csvparser.InputFormatError{Path: r.path, Reason: csvparser.ErrUnreadable, Err: err}
	}
	return false
}

// Row returns the current row.
func (r *SheetReader) Row() types.RawRow {
	return r.currentRow
}

// Headers returns the parsed headers.
func (r *SheetReader) Headers() []string {
	return r.header.Names()
}

// Sheet returns the name of the sheet being read.
func (r *SheetReader) Sheet() string {
	return r.sheet
}

// Skipped returns the number of blank rows passed over so far.
func (r *SheetReader) Skipped() int {
	return r.skipped
}

// Err returns any error that occurred while reading rows.
func (r *SheetReader) Err() error {
	return r.err
}

// Close releases the row iterator and the workbook.
func (r *SheetReader) Close() error {
	if r.file == nil {
		return nil
	}
	rowsErr := r.rows.Close()
	fileErr := r.file.Close()
	r.file = nil
	if rowsErr != nil {
		return rowsErr
	}
	return fileErr
}
