package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var ErrUnknownField = errors.New("unknown field")

// Row is a table row exposing its canonical columns as text.
type Row interface {
	Field(name string) (string, bool)
}

// Equals keeps rows whose field is exactly value. No case or whitespace
// normalization is applied.
func Equals[T Row](rows []T, field, value string) ([]T, error) {
	return keep(rows, field, func(v string) bool { return v == value })
}

// Contains keeps rows whose field contains substr, ignoring case.
func Contains[T Row](rows []T, field, substr string) ([]T, error) {
	needle := fold(substr)
	return keep(rows, field, func(v string) bool { return strings.Contains(fold(v), needle) })
}

// Distinct returns the sorted distinct values of field.
func Distinct[T Row](rows []T, field string) ([]string, error) {
	if err := check(rows, field); err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range rows {
		v, _ := r.Field(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func keep[T Row](rows []T, field string, pred func(string) bool) ([]T, error) {
	if err := check(rows, field); err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, r := range rows {
		v, _ := r.Field(field)
		if pred(v) {
			out = append(out, r)
		}
	}
	return out, nil
}

// check validates field against a zero row so empty tables still reject typos.
func check[T Row](_ []T, field string) error {
	var zero T
	if _, ok := zero.Field(field); !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return nil
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
