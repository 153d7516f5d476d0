// Package surveillance aligns isolate observations onto the complete
// (species, country, ISO year, ISO week) grid of the study and derives the
// weekly and cumulative counts used by every table and figure.
package surveillance

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"iris-stats/domain/isoweek"
	"iris-stats/domain/value"
)

var (
	// ErrScopeViolation marks a logic defect in scope construction: a key
	// expected after gap-fill is missing, duplicated, or an observation has
	// no key to land on.
	ErrScopeViolation = goerr.New("scope consistency violation")
	// ErrWeekMismatch marks an isolate whose reported ISO week disagrees
	// with the week derived from its sample date.
	ErrWeekMismatch = goerr.New("reported ISO week disagrees with sample date")
)

// Observation is one isolate as loaded from a species workbook.
type Observation struct {
	ID         string
	Isolate    string
	Aliases    string
	Species    string
	Country    string
	Continent  string
	Year       string
	Sampled    time.Time // zero when the workbook has no sample date
	Received   time.Time
	NonCulture string

	// Reported is the ISO week carried by the source, if any.
	Reported value.Maybe[isoweek.Key]
	// Week is derived from Sampled by AssignWeeks.
	Week isoweek.Key
}

// Pair is a species/country combination.
type Pair struct {
	Species string
	Country string
}

func (o Observation) Pair() Pair {
	return Pair{Species: o.Species, Country: o.Country}
}

// ScopeKey identifies one row of the aligned table.
type ScopeKey struct {
	Species string
	Country string
	isoweek.Key
}

func (k ScopeKey) Pair() Pair {
	return Pair{Species: k.Species, Country: k.Country}
}

func (o Observation) ScopeKey() ScopeKey {
	return ScopeKey{Species: o.Species, Country: o.Country, Key: o.Week}
}
