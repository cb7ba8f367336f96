package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

func validRecord() types.CitationRecord {
	return types.CitationRecord{
		Title:      "The Ethics of Care",
		Creators:   []types.Creator{{FirstName: "Jane", LastName: "Smith"}},
		Type:       types.JournalArticle,
		SourceType: "journalArticle",
		Date:       types.PartialDate{Year: 2019},
		RawDate:    "2019",
		URL:        "https://example.org/paper",
		Key:        "K1",
		Row:        2,
	}
}

func validate(records []types.CitationRecord) []*ValidationIssue {
	return NewValidator(DefaultOptions()).Validate(records)
}

func rules(issues []*ValidationIssue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Rule)
	}
	return out
}

func TestValidRecordHasNoIssues(t *testing.T) {
	assert.Empty(t, validate([]types.CitationRecord{validRecord()}))
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.CitationRecord)
		want   []string
	}{
		{"placeholder title", func(r *types.CitationRecord) { r.Title = "Untitled" }, []string{RuleMissingTitle}},
		{"no creators", func(r *types.CitationRecord) { r.Creators = nil }, []string{RuleNoCreators}},
		{"editor only", func(r *types.CitationRecord) {
			r.Creators = nil
			r.Editors = []types.Creator{{LastName: "Roe"}}
		}, nil},
		{"no date", func(r *types.CitationRecord) {
			r.Date, r.RawDate = types.PartialDate{}, ""
		}, []string{RuleNoDate}},
		{"unparseable date", func(r *types.CitationRecord) {
			r.Date, r.RawDate = types.PartialDate{}, "forthcoming"
		}, []string{RuleUnparseableDate}},
		{"missing type", func(r *types.CitationRecord) {
			r.Type, r.SourceType = types.Other, ""
		}, []string{RuleMissingType}},
		{"unrecognized type", func(r *types.CitationRecord) {
			r.Type, r.SourceType = types.Other, "magazineArticle"
		}, []string{RuleUnrecognizedType}},
		{"explicit other", func(r *types.CitationRecord) {
			r.Type, r.SourceType = types.Other, "Other"
		}, nil},
		{"relative url", func(r *types.CitationRecord) { r.URL = "/paper" }, []string{RuleInvalidURL}},
		{"ftp url", func(r *types.CitationRecord) { r.URL = "ftp://example.org/x" }, []string{RuleInvalidURL}},
		{"bad url", func(r *types.CitationRecord) { r.URL = "http://[::1" }, []string{RuleInvalidURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			assert.Equal(t, tt.want, rules(validate([]types.CitationRecord{r})))
		})
	}
}

func TestValidateKeepsRecords(t *testing.T) {
	records := []types.CitationRecord{validRecord(), {Title: "Untitled", Row: 3}}
	issues := validate(records)

	assert.Len(t, records, 2)
	require.NotEmpty(t, issues)
	for _, i := range issues {
		assert.Equal(t, 3, i.RowNumber)
	}
}

func TestCustomPlaceholder(t *testing.T) {
	v := NewValidator(Options{UntitledPlaceholder: "(no title)"})

	r := validRecord()
	r.Title = "(no title)"
	assert.Equal(t, []string{RuleMissingTitle}, rules(v.ValidateRecord(&r)))

	r.Title = "Untitled"
	assert.Empty(t, v.ValidateRecord(&r))
}

func TestKnownTypeOption(t *testing.T) {
	v := NewValidator(Options{KnownType: func(label string) bool { return label == "webpage" }})

	r := validRecord()
	r.Type, r.SourceType = types.Other, "webpage"
	assert.Empty(t, v.ValidateRecord(&r))

	r.SourceType = "podcast"
	assert.Equal(t, []string{RuleUnrecognizedType}, rules(v.ValidateRecord(&r)))
}

func TestIssueError(t *testing.T) {
	i := &ValidationIssue{Rule: RuleInvalidURL, Field: "url", Value: "/x", Message: "bad", RowNumber: 4, Key: "K9"}
	assert.Equal(t, "row 4 (K9), url: bad (value: '/x')", i.Error())

	i = &ValidationIssue{Field: "date", Message: "date is missing", RowNumber: 5}
	assert.Equal(t, "row 5, date: date is missing", i.Error())
}

func TestSummaryAndFormat(t *testing.T) {
	a, b := validRecord(), validRecord()
	a.Creators = nil
	b.Creators = nil
	b.URL = "nope"

	issues := validate([]types.CitationRecord{a, b})
	assert.Equal(t, map[string]int{RuleNoCreators: 2, RuleInvalidURL: 1}, Summary(issues))

	out := FormatIssues(issues)
	assert.Contains(t, out, "Found 3 validation issue(s)")
	assert.Contains(t, out, "invalid_url")

	assert.Equal(t, "No validation issues found.\n", FormatIssues(nil))
}
