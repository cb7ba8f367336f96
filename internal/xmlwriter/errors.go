package xmlwriter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter is returned for characters XML 1.0 cannot carry.
	ErrInvalidCharacter = errors.New("character not allowed in XML")

	// ErrInvalidUTF8 is returned for text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// SerializationError reports a value that cannot be written as XML.
type SerializationError struct {
	// RecordID identifies the record: its Zotero key or its row.
	RecordID string

	// Field is the output field holding the value.
	Field string

	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize %s of record %s: %v", e.Field, e.RecordID, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// OutputWriteError reports a destination that could not be written.
// The destination is left untouched when it is returned.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write output file %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}
