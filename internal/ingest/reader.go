package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const Delimiter = ';'

// table is the raw, untyped content of one source.
type table struct {
	header []string
	rows   [][]string
	lines  []int
}

// readTable reads a ';'-delimited source whose header has exactly want columns.
func readTable(r io.Reader, want int) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	// stray quotes inside unquoted cells are kept as text
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) != want {
		return nil, &LoadError{Row: 1, Err: fmt.Errorf("%w: header has %d, want %d", ErrColumnCount, len(header), want)}
	}

	t := &table{header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Row: pe.Line, Err: err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != want {
			return nil, &LoadError{Row: line, Err: fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(rec), want)}
		}
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}
