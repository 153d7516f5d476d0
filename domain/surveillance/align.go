package surveillance

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"

	"iris-stats/domain/value"
)

// Row is one aligned (species, country, year, week) bucket.
type Row struct {
	ScopeKey
	Count      int
	Cumulative int
}

// Table is the gap-filled weekly count table in scope order.
type Table struct {
	Rows []Row
	// Dropped counts in-window observations discarded by exclude carve-outs.
	Dropped int
}

// Align merges in-window observations onto the scope grid. Every scope key
// gets its observed count or an explicit zero. Cumulative counts are computed
// after the fill.
func Align(scope *Scope, obs []Observation) (*Table, error) {
	kept := lo.Filter(obs, func(o Observation, _ int) bool {
		_, excluded := scope.Excluded[o.Pair()]
		return !excluded
	})
	observed := lo.CountValuesBy(kept, Observation.ScopeKey)

	for k, n := range observed {
		if !scope.Contains(k) {
			return nil, goerr.Wrap(ErrScopeViolation, "observation falls outside the scope grid",
				goerr.V("species", k.Species),
				goerr.V("country", k.Country),
				goerr.V("week", k.Key.String()),
				goerr.V("count", n))
		}
	}

	filled := make(map[ScopeKey]value.Maybe[int], len(scope.Keys))
	for _, k := range scope.Keys {
		if _, dup := filled[k]; dup {
			return nil, goerr.Wrap(ErrScopeViolation, "duplicate scope key",
				goerr.V("species", k.Species), goerr.V("country", k.Country), goerr.V("week", k.Key.String()))
		}
		filled[k] = value.Some(observed[k])
	}

	t := &Table{
		Rows:    make([]Row, 0, len(scope.Keys)),
		Dropped: len(obs) - len(kept),
	}
	for _, k := range scope.Keys {
		n, ok := filled[k].Get()
		if !ok {
			return nil, goerr.Wrap(ErrScopeViolation, "scope key left unset after gap-fill",
				goerr.V("species", k.Species), goerr.V("country", k.Country), goerr.V("week", k.Key.String()))
		}
		t.Rows = append(t.Rows, Row{ScopeKey: k, Count: n})
	}
	t.Accumulate()
	return t, nil
}

// Total is the sum of all weekly counts.
func (t *Table) Total() int {
	return lo.SumBy(t.Rows, func(r Row) int { return r.Count })
}
