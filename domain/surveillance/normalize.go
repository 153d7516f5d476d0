package surveillance

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"

	"iris-stats/domain/isoweek"
	"iris-stats/domain/reconcile"
)

// Reconcile rewrites country labels onto the canonical vocabulary.
func Reconcile(obs []Observation, aliases reconcile.Aliases) []Observation {
	return lo.Map(obs, func(o Observation, _ int) Observation {
		o.Country = aliases.Canonical(o.Country)
		return o
	})
}

// AssignWeeks derives the ISO week of every observation with a sample date.
// A reported week that disagrees with the derived one is an error.
func AssignWeeks(obs []Observation) ([]Observation, error) {
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if !o.Sampled.IsZero() {
			o.Week = isoweek.Of(o.Sampled)
			if rep, ok := o.Reported.Get(); ok && rep != o.Week {
				return nil, goerr.Wrap(ErrWeekMismatch, "isolate week check failed",
					goerr.V("id", o.ID),
					goerr.V("species", o.Species),
					goerr.V("date_sampled", o.Sampled.Format("2006-01-02")),
					goerr.V("reported", rep.String()),
					goerr.V("derived", o.Week.String()))
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// InWindow keeps observations sampled within the inclusive window.
// Observations without a sample date are dropped.
func InWindow(obs []Observation, w isoweek.Window) []Observation {
	return lo.Filter(obs, func(o Observation, _ int) bool {
		return !o.Sampled.IsZero() && w.Contains(o.Sampled)
	})
}
