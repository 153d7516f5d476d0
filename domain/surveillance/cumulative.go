package surveillance

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
)

type yearGroup struct {
	Species string
	Country string
	Year    int
}

func (r Row) group() yearGroup {
	return yearGroup{Species: r.Species, Country: r.Country, Year: r.Year}
}

// Accumulate recomputes Cumulative as the running sum of Count over
// ascending week within each (species, country, year) group. It must run
// again whenever a Count changes.
func (t *Table) Accumulate() {
	groups := lo.GroupBy(lo.Range(len(t.Rows)), func(i int) yearGroup { return t.Rows[i].group() })
	for _, idx := range groups {
		slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(t.Rows[a].Week, t.Rows[b].Week) })
		sum := 0
		for _, i := range idx {
			sum += t.Rows[i].Count
			t.Rows[i].Cumulative = sum
		}
	}
}

// GlobalRow is the count of one species in one week summed over countries.
type GlobalRow struct {
	Species string
	isoweek.Key
	Count      int
	Cumulative int
}

// Global sums the aligned table over countries, giving one row per species
// and study week with a per-year running total.
func Global(cfg *config.Config, t *Table) []GlobalRow {
	type key struct {
		Species string
		isoweek.Key
	}
	sums := map[key]int{}
	var order []key
	for _, r := range t.Rows {
		k := key{Species: r.Species, Key: r.Key}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.Count
	}
	slices.SortFunc(order, func(a, b key) int {
		if c := cmp.Compare(speciesRank(cfg, a.Species), speciesRank(cfg, b.Species)); c != 0 {
			return c
		}
		if a.Key.Less(b.Key) {
			return -1
		}
		if b.Key.Less(a.Key) {
			return 1
		}
		return 0
	})

	out := make([]GlobalRow, 0, len(order))
	running := map[yearGroup]int{}
	for _, k := range order {
		g := yearGroup{Species: k.Species, Year: k.Year}
		running[g] += sums[k]
		out = append(out, GlobalRow{Species: k.Species, Key: k.Key, Count: sums[k], Cumulative: running[g]})
	}
	return out
}
