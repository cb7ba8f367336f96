package converter

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/csvparser"
	"github.com/ginjaninja78/zotero2wxr/internal/logger"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
	"github.com/ginjaninja78/zotero2wxr/internal/xmlwriter"
)

// =============================================================================
// FIXTURES
// =============================================================================

const header = "Key,Item Type,Title,Author,Date,Abstract Note\n"

var sampleRows = [][]string{
	{"K1", "journalArticle", "the ethics of care", "Smith, Jane", "2019", "About care & <ethics>."},
	{"K2", "magazineArticle", "a weekly column", "Doe, John", "May 2020", ""},
	{"K3", "book", "the ethics of care", "Roe, Ann", "2001-02-03", ""},
	{"K4", "journalArticle", "second article", "Smith, Jane; Doe, John", "", ""},
}

type wxr struct {
	Channel struct {
		Title    string       `xml:"title"`
		PubDate  string       `xml:"pubDate"`
		Sections []wxrSection `xml:"section"`
		Items    []wxrItem    `xml:"item"`
	} `xml:"channel"`
}

type wxrSection struct {
	Type  string    `xml:"type,attr"`
	Label string    `xml:"label,attr"`
	Count int       `xml:"count,attr"`
	Items []wxrItem `xml:"item"`
}

type wxrItem struct {
	Title   string `xml:"title"`
	Content string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	PostID  int    `xml:"http://wordpress.org/export/1.2/ post_id"`
}

func writeInput(t *testing.T, rows [][]string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(header)
	for _, r := range rows {
		for i, cell := range r {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`)
		}
		sb.WriteByte('\n')
	}

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func parseOutput(t *testing.T, path string) wxr {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc wxr
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc
}

func newTestConverter(cfg *config.Config) *Converter {
	return New(cfg, logger.Discard())
}

// =============================================================================
// RUN
// =============================================================================

func TestRunEndToEnd(t *testing.T) {
	in := writeInput(t, sampleRows)
	out := filepath.Join(t.TempDir(), "out.xml")

	var logs bytes.Buffer
	c := New(config.Default(), logger.NewWithWriter(&logs, "info"))

	result, err := c.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.RowsRead)
	assert.Equal(t, 4, result.Stats.RecordsEmitted)
	assert.Equal(t, 1, result.Stats.TitlesRenamed)
	assert.Equal(t, map[types.PublicationType]int{
		types.JournalArticle: 2,
		types.Book:           1,
		types.Other:          1,
	}, result.Stats.BucketCounts)
	assert.NotEmpty(t, result.Stats.Issues)
	assert.Positive(t, result.BytesWritten)
	assert.Contains(t, logs.String(), "duplicate title renamed")

	doc := parseOutput(t, out)
	require.Len(t, doc.Channel.Sections, 3)
	assert.Empty(t, doc.Channel.Items)

	journal := doc.Channel.Sections[0]
	assert.Equal(t, "journalArticle", journal.Type)
	assert.Equal(t, "Journal Articles", journal.Label)
	assert.Equal(t, 2, journal.Count)
	require.Len(t, journal.Items, 2)
	assert.Equal(t, "The Ethics of Care", journal.Items[0].Title)
	assert.Equal(t, "Second Article", journal.Items[1].Title)
	assert.True(t, strings.HasPrefix(journal.Items[0].Content, "About care & <ethics>."))

	book := doc.Channel.Sections[1]
	assert.Equal(t, "book", book.Type)
	require.Len(t, book.Items, 1)
	assert.Equal(t, "The Ethics of Care (2)", book.Items[0].Title)

	other := doc.Channel.Sections[2]
	assert.Equal(t, "other", other.Type)
	require.Len(t, other.Items, 1)
	assert.Equal(t, "A Weekly Column", other.Items[0].Title)

	var ids []int
	for _, s := range doc.Channel.Sections {
		for _, it := range s.Items {
			ids = append(ids, it.PostID)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
}

func TestRunCountsEmittedItems(t *testing.T) {
	rows := append([][]string{{"", "", "", "", "", ""}}, sampleRows...)
	in := writeInput(t, rows)
	out := filepath.Join(t.TempDir(), "out.xml")

	result, err := newTestConverter(config.Default()).Run(context.Background(), in, out)
	require.NoError(t, err)

	items := 0
	for _, s := range parseOutput(t, out).Channel.Sections {
		items += len(s.Items)
	}
	bucketed := 0
	for _, n := range result.Stats.BucketCounts {
		bucketed += n
	}

	assert.Equal(t, 1, result.Stats.BlankRowsSkipped)
	assert.Equal(t, 4, items)
	assert.Equal(t, items, result.Stats.RecordsEmitted)
	assert.Equal(t, bucketed, result.Stats.RecordsEmitted)
	assert.Equal(t, result.Stats.RowsRead, result.Stats.RecordsEmitted)
}

func TestRunHeaderOnly(t *testing.T) {
	in := writeInput(t, nil)
	out := filepath.Join(t.TempDir(), "out.xml")

	result, err := newTestConverter(nil).Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Zero(t, result.Stats.RecordsEmitted)

	doc := parseOutput(t, out)
	assert.Empty(t, doc.Channel.Sections)
	assert.Empty(t, doc.Channel.Items)
	assert.Equal(t, "Publications", doc.Channel.Title)
}

func TestRunIsIdempotent(t *testing.T) {
	in := writeInput(t, sampleRows)
	dir := t.TempDir()
	c := newTestConverter(nil)

	_, err := c.Run(context.Background(), in, filepath.Join(dir, "a.xml"))
	require.NoError(t, err)
	_, err = c.Run(context.Background(), in, filepath.Join(dir, "b.xml"))
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dir, "a.xml"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.xml"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunTimestamp(t *testing.T) {
	cfg := config.Default()
	cfg.Output.IncludeTimestamp = true

	c := newTestConverter(cfg)
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	out := filepath.Join(t.TempDir(), "out.xml")
	_, err := c.Run(context.Background(), writeInput(t, sampleRows), out)
	require.NoError(t, err)

	assert.Equal(t, "Fri, 01 Mar 2024 12:00:00 +0000", parseOutput(t, out).Channel.PubDate)
}

func TestRunCommentSections(t *testing.T) {
	cfg := config.Default()
	cfg.Output.SectionStyle = config.SectionComment

	out := filepath.Join(t.TempDir(), "out.xml")
	_, err := newTestConverter(cfg).Run(context.Background(), writeInput(t, sampleRows), out)
	require.NoError(t, err)

	doc := parseOutput(t, out)
	assert.Empty(t, doc.Channel.Sections)
	require.Len(t, doc.Channel.Items, 4)
	assert.Equal(t, "A Weekly Column", doc.Channel.Items[3].Title)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!-- section: journalArticle (Journal Articles), 2 items -->")
}

func TestRunMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Author\nx,y\n"), 0o644))
	out := filepath.Join(t.TempDir(), "out.xml")

	_, err := newTestConverter(nil).Run(context.Background(), path, out)
	require.Error(t, err)

	var ife *csvparser.InputFormatError
	require.ErrorAs(t, err, &ife)
	assert.ErrorIs(t, err, csvparser.ErrMissingColumn)
	assert.NoFileExists(t, out)
}

func TestRunUnwritableOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "no-such-dir", "out.xml")

	_, err := newTestConverter(nil).Run(context.Background(), writeInput(t, sampleRows), out)
	require.Error(t, err)

	var owe *xmlwriter.OutputWriteError
	require.ErrorAs(t, err, &owe)
	assert.Equal(t, out, owe.Path)
	assert.NoFileExists(t, out)
}

func TestRunSerializationError(t *testing.T) {
	rows := [][]string{{"BAD1", "book", "fine", "Doe, John", "2019", "bell\x07char"}}
	out := filepath.Join(t.TempDir(), "out.xml")

	_, err := newTestConverter(nil).Run(context.Background(), writeInput(t, rows), out)
	require.Error(t, err)

	var se *xmlwriter.SerializationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "BAD1", se.RecordID)
	assert.Equal(t, "content:encoded", se.Field)
	assert.ErrorIs(t, err, xmlwriter.ErrInvalidCharacter)
	assert.NoFileExists(t, out)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "out.xml")
	_, err := newTestConverter(nil).Run(ctx, writeInput(t, sampleRows), out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, out)
}

func TestRunXLSXMatchesCSV(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	cols := strings.Split(strings.TrimSpace(header), ",")
	headerRow := make([]interface{}, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &headerRow))
	for i, r := range sampleRows {
		cells := make([]interface{}, len(r))
		for j, v := range r {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}
	xlsxPath := filepath.Join(dir, "export.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	var logs bytes.Buffer
	c := New(nil, logger.NewWithWriter(&logs, "debug"))
	_, err := c.Run(context.Background(), writeInput(t, sampleRows), filepath.Join(dir, "csv.xml"))
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "reading sheet")

	_, err = c.Run(context.Background(), xlsxPath, filepath.Join(dir, "xlsx.xml"))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "sheet=Sheet1")

	fromCSV, err := os.ReadFile(filepath.Join(dir, "csv.xml"))
	require.NoError(t, err)
	fromXLSX, err := os.ReadFile(filepath.Join(dir, "xlsx.xml"))
	require.NoError(t, err)
	assert.Equal(t, string(fromCSV), string(fromXLSX))
}

// =============================================================================
// PREVIEW
// =============================================================================

func TestPreview(t *testing.T) {
	buckets, stats, err := newTestConverter(nil).Preview(context.Background(), writeInput(t, sampleRows))
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, types.JournalArticle, buckets[0].Type)
	assert.Equal(t, 4, stats.RowsRead)
	assert.Zero(t, stats.RecordsEmitted)
}

func TestOpenTableMissingFile(t *testing.T) {
	_, err := OpenTable(filepath.Join(t.TempDir(), "missing.csv"), config.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
