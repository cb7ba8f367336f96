// =============================================================================
// Zotero to WXR Converter - Validation Engine
// =============================================================================
//
// This module checks normalized citation records for problems an editor
// will want to fix in Zotero before (or after) the import.
//
// VALIDATION STRATEGY:
//   Every rule is evaluated on every record. Rules never modify a record and
//   never stop the conversion: a record with issues is still emitted.
//
// RULES:
//   missing_title      Title was empty and replaced by the placeholder
//   no_creators        No author, editor or reviewed author
//   no_date            Date column empty
//   unparseable_date   Date present but no year could be read
//   missing_type       Item type column empty
//   unrecognized_type  Item type label fell back to "other"
//   invalid_url        URL present but not an absolute http(s) URL
//
// ERROR HANDLING:
//   - Issues are collected, not returned as errors
//   - Each issue carries the record's row and key for troubleshooting
//
// =============================================================================

package validation

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Rule names.
const (
	RuleMissingTitle     = "missing_title"
	RuleNoCreators       = "no_creators"
	RuleNoDate           = "no_date"
	RuleUnparseableDate  = "unparseable_date"
	RuleMissingType      = "missing_type"
	RuleUnrecognizedType = "unrecognized_type"
	RuleInvalidURL       = "invalid_url"
)

// ValidationIssue represents a single non-fatal problem with a record.
type ValidationIssue struct {
	// Rule is the rule that was violated.
	Rule string

	// Field is the record field the rule looked at.
	Field string

	// Value is the offending value, if any.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the input line of the record.
	RowNumber int

	// Key is the Zotero item key of the record, if known.
	Key string
}

// Error implements the error interface so issues can be logged as errors.
func (i *ValidationIssue) Error() string {
	id := fmt.Sprintf("row %d", i.RowNumber)
	if i.Key != "" {
		id += " (" + i.Key + ")"
	}
	if i.Value == "" {
		return fmt.Sprintf("%s, %s: %s", id, i.Field, i.Message)
	}
	return fmt.Sprintf("%s, %s: %s (value: '%s')", id, i.Field, i.Message, i.Value)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks records.
type Validator struct {
	options Options
}

// Options configures the validator.
type Options struct {
	// UntitledPlaceholder is the title the mapper gives untitled records.
	// Default: "Untitled"
	UntitledPlaceholder string

	// KnownType reports whether an item type label maps to a publication
	// type on purpose. Nil treats only "other" as a deliberate other.
	KnownType func(label string) bool
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{UntitledPlaceholder: "Untitled"}
}

// NewValidator creates a Validator.
func NewValidator(options Options) *Validator {
	if options.UntitledPlaceholder == "" {
		options.UntitledPlaceholder = DefaultOptions().UntitledPlaceholder
	}
	return &Validator{options: options}
}

// Validate checks every record and returns the issues in record order.
func (v *Validator) Validate(records []types.CitationRecord) []*ValidationIssue {
	var issues []*ValidationIssue
	for i := range records {
		issues = append(issues, v.ValidateRecord(&records[i])...)
	}
	return issues
}

// ValidateRecord checks one record.
func (v *Validator) ValidateRecord(r *types.CitationRecord) []*ValidationIssue {
	var issues []*ValidationIssue
	add := func(rule, field, value, message string) {
		issues = append(issues, &ValidationIssue{
			Rule:      rule,
			Field:     field,
			Value:     value,
			Message:   message,
			RowNumber: r.Row,
			Key:       r.Key,
		})
	}

	if r.Title == "" || r.Title == v.options.UntitledPlaceholder {
		add(RuleMissingTitle, "title", "", "title is missing")
	}

	if len(r.Creators) == 0 && len(r.Editors) == 0 && len(r.ReviewedAuthors) == 0 {
		add(RuleNoCreators, "author", "", "no author, editor or reviewed author")
	}

	switch {
	case r.RawDate == "":
		add(RuleNoDate, "date", "", "date is missing")
	case r.Date.IsZero():
		add(RuleUnparseableDate, "date", r.RawDate, "no year could be read from the date")
	}

	switch {
	case r.SourceType == "":
		add(RuleMissingType, "item type", "", "item type is missing, filed under other")
	case r.Type == types.Other && !v.knownType(r.SourceType):
		add(RuleUnrecognizedType, "item type", r.SourceType, "unrecognized item type, filed under other")
	}

	if r.URL != "" {
		if msg := validateURL(r.URL); msg != "" {
			add(RuleInvalidURL, "url", r.URL, msg)
		}
	}

	return issues
}

func (v *Validator) knownType(label string) bool {
	if v.options.KnownType != nil {
		return v.options.KnownType(label)
	}
	return strings.EqualFold(strings.TrimSpace(label), string(types.Other))
}

// validateURL returns an error message, or "" when the URL is usable as a
// link.
func validateURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "URL cannot be parsed"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "URL must start with http:// or https://"
	}
	if u.Host == "" {
		return "URL has no host"
	}
	return ""
}

// =============================================================================
// REPORTING
// =============================================================================

// Summary counts issues per rule.
func Summary(issues []*ValidationIssue) map[string]int {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.Rule]++
	}
	return counts
}

// FormatIssues formats issues for display, followed by per-rule totals.
func FormatIssues(issues []*ValidationIssue) string {
	if len(issues) == 0 {
		return "No validation issues found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d validation issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	counts := Summary(issues)
	rules := make([]string, 0, len(counts))
	for rule := range counts {
		rules = append(rules, rule)
	}
	sort.Strings(rules)

	sb.WriteString("\nBy rule:\n")
	for _, rule := range rules {
		sb.WriteString(fmt.Sprintf("  %-18s %d\n", rule, counts[rule]))
	}

	return sb.String()
}
