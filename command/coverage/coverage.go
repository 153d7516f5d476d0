// Package coverage reports how the three sources overlap without writing
// any output files.
package coverage

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"iris-stats/command/ingest"
	"iris-stats/command/run"
	cfgloader "iris-stats/connectors/config"
	"iris-stats/domain/config"
	"iris-stats/domain/surveillance"
)

func Command() *cli.Command {
	var opts run.Options
	return &cli.Command{
		Name:  "coverage",
		Usage: "Report vocabulary gaps between the sources and species participation",
		Flags: opts.Flags(),
		Action: func(ctx context.Context, _ *cli.Command) error {
			return Run(ctx, opts, os.Stdout)
		},
	}
}

// Report is the participation of every species/country pair with its
// isolate counts before and after the study window.
type Report struct {
	ingest.Coverage
	Species   []string
	Countries []string
	Loaded    map[surveillance.Pair]int
	InWindow  map[surveillance.Pair]int
	Carveouts map[surveillance.Pair]config.Carveout
	scope     map[surveillance.Pair]struct{}
}

func Build(cfg *config.Config, in *ingest.Inputs) *Report {
	participating, _ := surveillance.Participation(cfg, in.Isolates)
	countries := lo.Uniq(append(
		lo.Map(in.Isolates, func(o surveillance.Observation, _ int) string { return o.Country }),
		lo.Map(cfg.Carveouts, func(co config.Carveout, _ int) string { return co.Country })...,
	))
	slices.Sort(countries)
	return &Report{
		Coverage:  in.Coverage(cfg),
		Species:   cfg.Species,
		Countries: countries,
		Loaded:    lo.CountValuesBy(in.Isolates, surveillance.Observation.Pair),
		InWindow:  lo.CountValuesBy(surveillance.InWindow(in.Isolates, cfg.Window()), surveillance.Observation.Pair),
		Carveouts: lo.KeyBy(cfg.Carveouts, func(co config.Carveout) surveillance.Pair {
			return surveillance.Pair{Species: co.Species, Country: co.Country}
		}),
		scope: participating,
	}
}

// InScope reports whether the pair gets rows in the aligned table.
func (r *Report) InScope(p surveillance.Pair) bool {
	_, ok := r.scope[p]
	return ok
}

// Cell renders one pair: the in-window count, then the total loaded in
// parentheses when it differs. Carve-outs carry their mode.
func (r *Report) Cell(p surveillance.Pair) string {
	loaded, windowed := r.Loaded[p], r.InWindow[p]
	var s string
	switch {
	case !r.InScope(p) && loaded == 0:
		s = "-"
	case loaded == windowed:
		s = strconv.Itoa(windowed)
	default:
		s = fmt.Sprintf("%d (%d)", windowed, loaded)
	}
	if co, ok := r.Carveouts[p]; ok {
		s += " [" + string(co.Mode) + "]"
	}
	return s
}

func Run(ctx context.Context, opts run.Options, w io.Writer) error {
	cfg, err := cfgloader.Load(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	in, err := ingest.Load(ctx, cfg, opts.DataDir)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, Build(cfg, in).Render()+"\n")
	return err
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Render formats the gaps and the participation table.
func (r *Report) Render() string {
	gaps := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("source", "uncovered country").
		StyleFunc(style)
	for _, c := range r.PolicyGaps {
		gaps.Row("policy tracker", c)
	}
	for _, c := range r.MobilityGaps {
		gaps.Row("mobility report", c)
	}

	participation := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"country"}, r.Species...)...).
		StyleFunc(style)
	for _, c := range r.Countries {
		row := []string{c}
		for _, s := range r.Species {
			row = append(row, r.Cell(surveillance.Pair{Species: s, Country: c}))
		}
		participation.Row(row...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, gaps.Render(), participation.Render())
}

func style(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}
