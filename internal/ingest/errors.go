package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrColumnCount    = errors.New("unexpected column count")
	ErrInvalidDecimal = errors.New("invalid decimal")
	ErrInvalidInteger = errors.New("invalid integer")
	ErrInvalidDate    = errors.New("invalid date")
	ErrNegativeValue  = errors.New("negative value")
	ErrEmptySource    = errors.New("empty source")
	ErrSourceTooLarge = errors.New("source too large")
)

// LoadError pins a fatal load failure to a source and, when known, a row and
// column. Row is the 1-based line number of the record, header included.
type LoadError struct {
	Source string
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s (%s)", e.Source, e.Path)
	if e.Row > 0 {
		msg += fmt.Sprintf(": row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %s", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// fieldError is returned by row parsers and lifted into a LoadError by the caller.
type fieldError struct {
	column string
	err    error
}

func (e *fieldError) Error() string { return e.column + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }
