package surveillance

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/value"
)

// MarginLabel names the totals row and column of a pivot.
const MarginLabel = "All"

// Pivot is a cross-tabulation with totals margins. An absent cell means no
// data were collected for that combination; a present zero means nothing
// was received.
type Pivot struct {
	Index   string
	Headers []string   // one name per header row
	Columns [][]string // one label per header row, per column
	Rows    []string
	Cells   [][]value.Maybe[int]
}

func newPivot(index string, headers []string, rows []string, cols [][]string) *Pivot {
	margin := make([]string, len(headers))
	margin[0] = MarginLabel
	p := &Pivot{
		Index:   index,
		Headers: headers,
		Rows:    append(slices.Clone(rows), MarginLabel),
		Columns: append(slices.Clone(cols), margin),
	}
	p.Cells = make([][]value.Maybe[int], len(p.Rows))
	for i := range p.Cells {
		p.Cells[i] = make([]value.Maybe[int], len(p.Columns))
	}
	return p
}

func (p *Pivot) locate(row string, col []string) (int, int, bool) {
	i := slices.Index(p.Rows, row)
	j := slices.IndexFunc(p.Columns, func(c []string) bool { return slices.Equal(c, col) })
	return i, j, i >= 0 && j >= 0
}

// Cell returns the value at the given row and column labels.
func (p *Pivot) Cell(row string, col ...string) value.Maybe[int] {
	i, j, ok := p.locate(row, col)
	if !ok {
		return value.None[int]()
	}
	return p.Cells[i][j]
}

func (p *Pivot) marginColumn() []string {
	return p.Columns[len(p.Columns)-1]
}

// add increments a cell and its three margins.
func (p *Pivot) add(row string, col []string, n int) {
	for _, r := range []string{row, MarginLabel} {
		for _, c := range [][]string{col, p.marginColumn()} {
			if i, j, ok := p.locate(r, c); ok {
				p.Cells[i][j] = value.Some(p.Cells[i][j].Or(0) + n)
			}
		}
	}
}

// zero marks a cell and its margins as collected-but-empty unless they
// already hold a count.
func (p *Pivot) zero(row string, col []string) {
	for _, r := range []string{row, MarginLabel} {
		for _, c := range [][]string{col, p.marginColumn()} {
			if i, j, ok := p.locate(r, c); ok && !p.Cells[i][j].Present() {
				p.Cells[i][j] = value.Some(0)
			}
		}
	}
}

func includes(cfg *config.Config) []config.Carveout {
	return lo.Filter(cfg.Carveouts, func(co config.Carveout, _ int) bool { return co.Mode == config.ModeInclude })
}

func speciesColumns(cfg *config.Config, obs []Observation, carve []config.Carveout) [][]string {
	species := lo.Uniq(append(
		lo.Map(obs, func(o Observation, _ int) string { return o.Species }),
		lo.Map(carve, func(co config.Carveout, _ int) string { return co.Species })...,
	))
	slices.SortFunc(species, func(a, b string) int {
		if c := cmp.Compare(speciesRank(cfg, a), speciesRank(cfg, b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return lo.Map(species, func(s string, _ int) []string { return []string{s} })
}

func countryRows(obs []Observation, carve []config.Carveout) []string {
	rows := lo.Uniq(append(
		lo.Map(obs, func(o Observation, _ int) string { return o.Country }),
		lo.Map(carve, func(co config.Carveout, _ int) string { return co.Country })...,
	))
	slices.Sort(rows)
	return rows
}

// LabContinentBreakdown counts the distinct countries reporting each species,
// per continent. Include carve-outs count as participating.
func LabContinentBreakdown(cfg *config.Config, obs []Observation) *Pivot {
	carve := includes(cfg)

	type member struct{ Continent, Species, Country string }
	members := lo.Map(obs, func(o Observation, _ int) member { return member{o.Continent, o.Species, o.Country} })
	for _, co := range carve {
		members = append(members, member{co.Continent, co.Species, co.Country})
	}
	members = lo.Uniq(lo.Filter(members, func(m member, _ int) bool { return m.Country != "" && m.Continent != "" }))

	rows := lo.Uniq(lo.Map(members, func(m member, _ int) string { return m.Continent }))
	slices.Sort(rows)
	p := newPivot("continent", []string{"species"}, rows, speciesColumns(cfg, obs, carve))

	// A country counts once per cell, margins included.
	seen := map[[3]string]struct{}{}
	for _, m := range members {
		for _, r := range []string{m.Continent, MarginLabel} {
			for _, c := range []string{m.Species, MarginLabel} {
				k := [3]string{r, c, m.Country}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				if i, j, ok := p.locate(r, []string{c}); ok {
					p.Cells[i][j] = value.Some(p.Cells[i][j].Or(0) + 1)
				}
			}
		}
	}
	return p
}

// CountryBreakdown counts isolates per country and species. Include
// carve-outs show 0 where no isolates were received.
func CountryBreakdown(cfg *config.Config, obs []Observation) *Pivot {
	carve := includes(cfg)
	p := newPivot("country", []string{"species"}, countryRows(obs, carve), speciesColumns(cfg, obs, carve))
	for _, o := range obs {
		p.add(o.Country, []string{o.Species}, 1)
	}
	for _, co := range carve {
		p.zero(co.Country, []string{co.Species})
	}
	return p
}

// CountryTimeBreakdown counts isolates per country, species and ISO year.
// Include carve-outs show 0 in every year column of their species.
func CountryTimeBreakdown(cfg *config.Config, obs []Observation) *Pivot {
	carve := includes(cfg)

	type column struct {
		Species string
		Year    int
	}
	cols := lo.Uniq(lo.Map(obs, func(o Observation, _ int) column { return column{o.Species, o.Week.Year} }))
	slices.SortFunc(cols, func(a, b column) int {
		if c := cmp.Compare(speciesRank(cfg, a.Species), speciesRank(cfg, b.Species)); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})
	label := func(c column) []string { return []string{c.Species, strconv.Itoa(c.Year)} }

	p := newPivot("country", []string{"species", "isoyear_sampled"}, countryRows(obs, carve), lo.Map(cols, func(c column, _ int) []string { return label(c) }))
	for _, o := range obs {
		p.add(o.Country, label(column{o.Species, o.Week.Year}), 1)
	}
	for _, co := range carve {
		for _, c := range cols {
			if c.Species == co.Species {
				p.zero(co.Country, label(c))
			}
		}
	}
	return p
}
