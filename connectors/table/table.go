// Package table holds the header lookup and cell parsers shared by the
// CSV and workbook readers.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"iris-stats/domain/value"
)

var (
	ErrMissingColumn = goerr.New("required column is missing")
	ErrInvalidValue  = goerr.New("cell value cannot be parsed")
)

// Index maps normalised header names to column positions.
type Index map[string]int

func normalize(h string) string {
	return strings.TrimSpace(strings.ToLower(strings.TrimPrefix(h, "\ufeff")))
}

// NewIndex indexes a header row. The first occurrence of a name wins.
func NewIndex(headers []string) Index {
	m := Index{}
	for i, h := range headers {
		k := normalize(h)
		if _, dup := m[k]; !dup {
			m[k] = i
		}
	}
	return m
}

// Require fails with ErrMissingColumn on the first absent column.
func (ix Index) Require(source string, cols ...string) error {
	for _, col := range cols {
		if !ix.Has(col) {
			return goerr.Wrap(ErrMissingColumn, "input is missing a column", goerr.V("source", source), goerr.V("column", col))
		}
	}
	return nil
}

func (ix Index) Has(col string) bool {
	_, ok := ix[normalize(col)]
	return ok
}

// Position returns the column position of col.
func (ix Index) Position(col string) (int, bool) {
	i, ok := ix[normalize(col)]
	return i, ok
}

// Get returns the trimmed cell of row under col, or "" when either is absent.
func (ix Index) Get(row []string, col string) string {
	i, ok := ix[normalize(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var dateLayouts = []string{
	time.DateOnly,
	"20060102",
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// ParseDate parses a calendar date and returns it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, goerr.Wrap(ErrInvalidValue, "unrecognised date", goerr.V("value", s))
}

// ParseFloat parses an optional number. A blank cell is absent.
func ParseFloat(s string) (value.Maybe[float64], error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return value.None[float64](), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.None[float64](), goerr.Wrap(ErrInvalidValue, "not a number", goerr.V("value", s))
	}
	return value.Some(f), nil
}

// ParseInt parses an optional integer. Integral floats such as "12.0" are
// accepted since spreadsheet exports often write them.
func ParseInt(s string) (value.Maybe[int], error) {
	f, err := ParseFloat(s)
	if err != nil {
		return value.None[int](), err
	}
	v, ok := f.Get()
	if !ok {
		return value.None[int](), nil
	}
	if v != float64(int(v)) {
		return value.None[int](), goerr.Wrap(ErrInvalidValue, "not an integer", goerr.V("value", s))
	}
	return value.Some(int(v)), nil
}
