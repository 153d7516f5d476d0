package surveillance

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
)

// Scope is the complete set of keys the aligned table must contain.
type Scope struct {
	Keys     []ScopeKey
	Pairs    []Pair
	Excluded map[Pair]config.Carveout
	index    map[ScopeKey]int
}

// Participation returns the species/country pairs with at least one
// observation anywhere in obs, plus include carve-outs, minus exclude
// carve-outs.
func Participation(cfg *config.Config, obs []Observation) (map[Pair]struct{}, map[Pair]config.Carveout) {
	pairs := lo.SliceToMap(obs, func(o Observation) (Pair, struct{}) { return o.Pair(), struct{}{} })
	excluded := map[Pair]config.Carveout{}
	for _, co := range cfg.Carveouts {
		p := Pair{Species: co.Species, Country: co.Country}
		switch co.Mode {
		case config.ModeInclude:
			pairs[p] = struct{}{}
		case config.ModeExclude:
			delete(pairs, p)
			excluded[p] = co
		}
	}
	return pairs, excluded
}

// BuildScope enumerates every (species, country, year, week) key in scope.
// loaded must be the full load, before the study window filter, so that a
// participating country with no in-window isolates still gets zero rows.
func BuildScope(cfg *config.Config, loaded []Observation) *Scope {
	participating, excluded := Participation(cfg, loaded)

	pairs := lo.Keys(participating)
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := cmp.Compare(speciesRank(cfg, a.Species), speciesRank(cfg, b.Species)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Species, b.Species); c != 0 {
			return c
		}
		return strings.Compare(a.Country, b.Country)
	})

	s := &Scope{
		Pairs:    pairs,
		Excluded: excluded,
		index:    map[ScopeKey]int{},
	}
	for _, p := range pairs {
		for _, year := range cfg.Study.Years {
			for week := 1; week <= cfg.WeeksIn(year); week++ {
				k := ScopeKey{Species: p.Species, Country: p.Country, Key: isoweek.Key{Year: year, Week: week}}
				s.index[k] = len(s.Keys)
				s.Keys = append(s.Keys, k)
			}
		}
	}
	return s
}

// Contains reports whether k is in scope.
func (s *Scope) Contains(k ScopeKey) bool {
	_, ok := s.index[k]
	return ok
}

// speciesRank orders species as configured; unknown species sort last.
func speciesRank(cfg *config.Config, species string) int {
	if i := slices.Index(cfg.Species, species); i >= 0 {
		return i
	}
	return len(cfg.Species)
}
