package surveillance_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"iris-stats/domain/config"
	"iris-stats/domain/surveillance"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(species, country, continent string, sampled time.Time) surveillance.Observation {
	return surveillance.Observation{
		ID:        country + sampled.Format("20060102"),
		Isolate:   "iso",
		Species:   species,
		Country:   country,
		Continent: continent,
		Sampled:   sampled,
	}
}

func repeat(o surveillance.Observation, n int) []surveillance.Observation {
	out := make([]surveillance.Observation, n)
	for i := range out {
		out[i] = o
	}
	return out
}

// noCarveouts is the study configuration without manual exceptions.
func noCarveouts() *config.Config {
	cfg := config.Default()
	cfg.Carveouts = nil
	return cfg
}

// pipeline runs keying, window filtering, scoping and alignment.
func pipeline(t *testing.T, cfg *config.Config, loaded []surveillance.Observation) (*surveillance.Scope, *surveillance.Table) {
	t.Helper()
	keyed, err := surveillance.AssignWeeks(loaded)
	gt.NoError(t, err).Required()
	scope := surveillance.BuildScope(cfg, keyed)
	table, err := surveillance.Align(scope, surveillance.InWindow(keyed, cfg.Window()))
	gt.NoError(t, err).Required()
	return scope, table
}

func rowsOf(table *surveillance.Table, species, country string) []surveillance.Row {
	var out []surveillance.Row
	for _, r := range table.Rows {
		if r.Species == species && r.Country == country {
			out = append(out, r)
		}
	}
	return out
}
