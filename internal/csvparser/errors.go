package csvparser

import (
	"errors"
	"fmt"
)

// Reasons an input table is rejected.
var (
	ErrMissingHeader   = errors.New("missing header row")
	ErrMalformedHeader = errors.New("malformed header row")
	ErrMissingColumn   = errors.New("missing required column")
	ErrUnreadable      = errors.New("input cannot be read")
)

// InputFormatError reports an input table that cannot be read as a citation
// export: the file is unreadable, empty, or its header is missing, malformed
// or lacks a required column. Row-level problems never produce it.
type InputFormatError struct {
	// Path is the input file.
	Path string

	// Line is the 1-based line of the problem, or 0 when not tied to a line.
	Line int

	// Reason is one of the Err* sentinels above.
	Reason error

	// Detail adds context such as the missing column names.
	Detail string

	// Err is the underlying I/O or parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *InputFormatError) Error() string {
	msg := fmt.Sprintf("input format error: %s", e.Path)
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	msg += ": " + e.Reason.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the reason and the underlying error to errors.Is.
func (e *InputFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}
