// =============================================================================
// Zotero to WXR Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the whole
// pipeline for a single export file, from table reading to the WXR file.
//
// CONVERSION PIPELINE:
//   1. Open the input table (CSV, or XLSX by extension)
//   2. Map every data row to a citation record
//   3. Make titles unique
//   4. Validate the records (issues are reported, never fatal)
//   5. Group the records into typed buckets
//   6. Generate the WXR document
//   7. Write the output file atomically
//
// CONCURRENCY:
//   The pipeline runs on the calling goroutine. The context is checked
//   between rows so a caller can abort a long read.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/csvparser"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
	"github.com/ginjaninja78/zotero2wxr/internal/validation"
	"github.com/ginjaninja78/zotero2wxr/internal/xlsxparser"
	"github.com/ginjaninja78/zotero2wxr/internal/xmlwriter"
	"github.com/ginjaninja78/zotero2wxr/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting one file.
type Result struct {
	// InputFile is the path to the table that was read.
	InputFile string

	// OutputFile is the path to the generated WXR file.
	OutputFile string

	// BytesWritten is the size of the generated document.
	BytesWritten int

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about a run.
type Stats struct {
	// RowsRead is the number of data rows read from the table.
	RowsRead int

	// BlankRowsSkipped is the number of all-blank rows passed over.
	BlankRowsSkipped int

	// RecordsEmitted is the number of items written. It equals RowsRead.
	// Preview leaves it at zero.
	RecordsEmitted int

	// BucketCounts is the number of records per publication type.
	BucketCounts map[types.PublicationType]int

	// TitlesRenamed is the number of titles made unique.
	TitlesRenamed int

	// Issues are the validation issues found.
	Issues []*validation.ValidationIssue

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts Zotero exports to WXR documents.
type Converter struct {
	cfg       *config.Config
	mapper    *Mapper
	validator *validation.Validator
	logger    Logger

	// now supplies the channel timestamp.
	now func() time.Time
}

// Logger is the logging interface the converter needs. *logger.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter.
//
// PARAMETERS:
//   - cfg: A validated configuration. Nil selects the defaults.
//   - logger: Receives progress and diagnostics. Nil discards them.
func New(cfg *config.Config, logger Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	mapper := NewMapper(cfg)
	return &Converter{
		cfg:    cfg,
		mapper: mapper,
		validator: validation.NewValidator(validation.Options{
			UntitledPlaceholder: cfg.Mapping.UntitledPlaceholder,
			KnownType:           mapper.types.Known,
		}),
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - The Result with statistics.
//   - A *csvparser.InputFormatError for unreadable or malformed input,
//     a *xmlwriter.SerializationError for values XML cannot carry, or
//     a *xmlwriter.OutputWriteError when the output cannot be written.
//     No output file is created or modified when an error is returned.
func (c *Converter) Run(ctx context.Context, inputPath, outputPath string) (Result, error) {
	startTime := time.Now()
	result := Result{InputFile: inputPath, OutputFile: outputPath}

	c.logger.Info("converting", "input", inputPath, "output", outputPath)

	// =========================================================================
	// STEPS 1-5: READ, MAP, DEDUPE, VALIDATE, GROUP
	// =========================================================================

	buckets, stats, err := c.collect(ctx, inputPath)
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 6: GENERATE WXR
	// =========================================================================

	options := xmlwriter.OptionsFromConfig(c.cfg.Output)
	if c.cfg.Output.IncludeTimestamp {
		options.PubDate = c.now()
	}

	doc, err := xmlwriter.Generate(buckets, options)
	if err != nil {
		return result, fmt.Errorf("generate WXR: %w", err)
	}

	// =========================================================================
	// STEP 7: WRITE OUTPUT
	// =========================================================================

	if err := utils.WriteFileAtomic(outputPath, doc, 0o644); err != nil {
		return result, &xmlwriter.OutputWriteError{Path: outputPath, Err: err}
	}

	for _, b := range buckets {
		stats.RecordsEmitted += len(b.Records)
	}
	stats.ProcessingTime = time.Since(startTime)
	result.Stats = stats
	result.BytesWritten = len(doc)

	c.logger.Info("conversion complete",
		"records", stats.RecordsEmitted,
		"issues", len(stats.Issues),
		"renamed", stats.TitlesRenamed,
		"bytes", len(doc),
		"elapsed", stats.ProcessingTime,
	)

	return result, nil
}

// Preview runs every stage except document generation and writing.
func (c *Converter) Preview(ctx context.Context, inputPath string) ([]types.Bucket, Stats, error) {
	startTime := time.Now()

	buckets, stats, err := c.collect(ctx, inputPath)
	if err != nil {
		return nil, stats, err
	}

	stats.ProcessingTime = time.Since(startTime)
	return buckets, stats, nil
}

// collect reads, maps, deduplicates, validates and groups the input.
func (c *Converter) collect(ctx context.Context, inputPath string) ([]types.Bucket, Stats, error) {
	stats := Stats{BucketCounts: make(map[types.PublicationType]int)}

	table, err := OpenTable(inputPath, c.cfg)
	if err != nil {
		return nil, stats, err
	}
	defer table.Close()

	c.logger.Debug("table opened", "input", inputPath, "columns", len(table.Headers()))
	if sheet, ok := table.(interface{ Sheet() string }); ok {
		c.logger.Debug("reading sheet", "sheet", sheet.Sheet())
	}

	var records []types.CitationRecord
	for table.Next() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		record := c.mapper.Map(table.Row())
		c.logger.Debug("row mapped", "row", record.Row, "type", record.Type, "title", record.Title)
		records = append(records, record)
	}
	if err := table.Err(); err != nil {
		return nil, stats, err
	}

	stats.RowsRead = len(records)
	stats.BlankRowsSkipped = table.Skipped()

	if c.cfg.Mapping.DedupeTitlesEnabled() {
		for _, rename := range DedupeTitles(records) {
			c.logger.Warn("duplicate title renamed",
				"row", rename.Row, "title", rename.Original, "renamed", rename.Renamed)
			stats.TitlesRenamed++
		}
	}

	stats.Issues = c.validator.Validate(records)
	for _, issue := range stats.Issues {
		c.logger.Warn("validation issue", "row", issue.RowNumber, "rule", issue.Rule, "detail", issue.Error())
	}

	buckets := Group(records)
	for _, b := range buckets {
		stats.BucketCounts[b.Type] = len(b.Records)
	}

	return buckets, stats, nil
}

// =============================================================================
// INPUT TABLES
// =============================================================================

// Table is a stream of raw rows. Both the CSV and the XLSX readers
// implement it.
type Table interface {
	Next() bool
	Row() types.RawRow
	Headers() []string
	Skipped() int
	Err() error
	io.Closer
}

// OpenTable opens the input with the reader matching its extension:
// .xlsx files are read as workbooks, everything else as delimited text.
func OpenTable(path string, cfg *config.Config) (Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		r, err := xlsxparser.Open(path, cfg.XLSX.Sheet, cfg.CSV.RequiredColumns)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	p, err := csvparser.Open(path, cfg.CSV)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
