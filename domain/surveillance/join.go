package surveillance

import (
	"github.com/samber/lo"

	"iris-stats/domain/policy"
	"iris-stats/domain/value"
)

// JoinedRow is an aligned row with the policy means of its country-week.
type JoinedRow struct {
	Row
	Policy value.Maybe[policy.Weekly]
}

// Stringency returns the weekly Stringency Index, absent when the tracker
// has no data for the bucket or no index value in it.
func (r JoinedRow) Stringency() value.Maybe[float64] {
	w, ok := r.Policy.Get()
	if !ok {
		return value.None[float64]()
	}
	return w.Stringency()
}

// Joined is the left join of the aligned table onto the weekly policy means.
type Joined struct {
	Rows []JoinedRow
}

// Join attaches the weekly means on (country, ISO year, ISO week). Rows
// without a match keep an absent Policy; nothing is defaulted.
func Join(t *Table, weekly map[policy.Bucket]policy.Weekly) *Joined {
	return &Joined{Rows: lo.Map(t.Rows, func(r Row, _ int) JoinedRow {
		jr := JoinedRow{Row: r}
		if w, ok := weekly[policy.Bucket{Country: r.Country, Key: r.Key}]; ok {
			jr.Policy = value.Some(w)
		}
		return jr
	})}
}

// Missing counts joined rows without policy data.
func (j *Joined) Missing() int {
	return lo.CountBy(j.Rows, func(r JoinedRow) bool { return !r.Policy.Present() })
}

// MissingBuckets returns the distinct country-weeks in scope that the
// tracker does not cover.
func (j *Joined) MissingBuckets() []policy.Bucket {
	return lo.Uniq(lo.FilterMap(j.Rows, func(r JoinedRow, _ int) (policy.Bucket, bool) {
		return policy.Bucket{Country: r.Country, Key: r.Key}, !r.Policy.Present()
	}))
}

// Species returns the rows of one species, in table order.
func (j *Joined) Species(species string) []JoinedRow {
	return lo.Filter(j.Rows, func(r JoinedRow, _ int) bool { return r.Species == species })
}
