package chart

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"iris-stats/domain/config"
	"iris-stats/domain/mobility"
	"iris-stats/domain/surveillance"
)

const (
	speciesColumns = 4
	countryColumns = 5
	barAlpha       = 0.65
)

// Figure1 draws one panel per species of the global cumulative weekly
// count, one line per study year, and marks the pandemic declaration week.
func Figure1(base string, cfg *config.Config, rows []surveillance.GlobalRow) error {
	var panels []*plot.Plot
	for _, species := range cfg.Species {
		rs := lo.Filter(rows, func(r surveillance.GlobalRow, _ int) bool { return r.Species == species })
		if len(rs) == 0 {
			continue
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s (n=%d)", species, lo.SumBy(rs, func(r surveillance.GlobalRow) int { return r.Count }))
		p.X.Label.Text = "Week of year"
		p.Y.Label.Text = "Cumulative isolate count"
		p.Legend.Top = true
		p.Legend.Left = true

		top := float64(lo.Max(lo.Map(rs, func(r surveillance.GlobalRow, _ int) int { return r.Cumulative })))
		for i, year := range cfg.Study.Years {
			xys := lo.FilterMap(rs, func(r surveillance.GlobalRow, _ int) (plotter.XY, bool) {
				return plotter.XY{X: float64(r.Week), Y: float64(r.Cumulative)}, r.Year == year
			})
			if len(xys) == 0 {
				continue
			}
			l, err := line(xys, black, dashesFor(i, len(cfg.Study.Years)))
			if err != nil {
				return err
			}
			p.Add(l)
			p.Legend.Add(strconv.Itoa(year), l)
		}
		v, err := vertical(float64(cfg.Study.PandemicWeek), 0, ceiling(top), red, []vg.Length{vg.Points(4), vg.Points(3)})
		if err != nil {
			return err
		}
		p.Add(v)
		p.X.Min, p.X.Max = 1, float64(cfg.Study.WeeksPerYear)
		p.Y.Min, p.Y.Max = 0, ceiling(top)
		panels = append(panels, p)
	}
	return saveGrid(base, wrap(panels, speciesColumns))
}

// Figure2 draws one panel per participating country for one species: the
// cumulative weekly count per study year, over background bars for the
// final-year weeks coloured by the weekly Stringency Index.
func Figure2(base string, cfg *config.Config, cmap *Colormap, rows []surveillance.JoinedRow) error {
	countries := lo.Uniq(lo.Map(rows, func(r surveillance.JoinedRow, _ int) string { return r.Country }))
	final := cfg.FinalYear()

	var panels []*plot.Plot
	for _, country := range countries {
		rs := lo.Filter(rows, func(r surveillance.JoinedRow, _ int) bool { return r.Country == country })
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s (n=%d)", country, lo.SumBy(rs, func(r surveillance.JoinedRow) int { return r.Count }))
		p.X.Label.Text = "Week of year"
		p.Y.Label.Text = "Cumulative isolate count"
		p.Legend.Top = true
		p.Legend.Left = true
		top := ceiling(float64(lo.Max(lo.Map(rs, func(r surveillance.JoinedRow, _ int) int { return r.Cumulative }))))

		for _, r := range rs {
			if r.Year != final || r.Week > cfg.WeeksIn(final) {
				continue
			}
			bar, err := plotter.NewPolygon(plotter.XYs{
				{X: float64(r.Week) - 0.5, Y: 0},
				{X: float64(r.Week) + 0.5, Y: 0},
				{X: float64(r.Week) + 0.5, Y: top},
				{X: float64(r.Week) - 0.5, Y: top},
			})
			if err != nil {
				return err
			}
			c := cmap.At(r.Stringency())
			bar.Color = color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(barAlpha * 0xff)}
			bar.LineStyle.Width = 0
			p.Add(bar)
		}

		for i, year := range cfg.Study.Years {
			xys := lo.FilterMap(rs, func(r surveillance.JoinedRow, _ int) (plotter.XY, bool) {
				return plotter.XY{X: float64(r.Week), Y: float64(r.Cumulative)}, r.Year == year
			})
			if len(xys) == 0 {
				continue
			}
			col := black
			if year == final {
				col = red
			}
			l, err := line(xys, col, dashesFor(i, len(cfg.Study.Years)))
			if err != nil {
				return err
			}
			p.Add(l)
			p.Legend.Add(strconv.Itoa(year), l)
		}
		p.X.Min, p.X.Max = 0.5, float64(cfg.Study.WeeksPerYear)+0.5
		p.Y.Min, p.Y.Max = 0, top
		panels = append(panels, p)
	}
	return saveGrid(base, wrap(panels, countryColumns))
}

// Figure3 draws one panel per country of the daily percent change of each
// mobility metric, with the baseline and the pandemic declaration marked.
func Figure3(base string, cfg *config.Config, points []mobility.Point) error {
	palette := []color.Color{red, navy}
	countries := lo.Uniq(lo.Map(points, func(p mobility.Point, _ int) string { return p.Country }))
	pandemic := float64(cfg.Study.PandemicDate.Unix())

	var panels []*plot.Plot
	for _, country := range countries {
		p := plot.New()
		p.Title.Text = country
		p.X.Label.Text = "Time (days)"
		p.Y.Label.Text = "Percentage change relative to baseline"
		p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2"}
		p.Legend.Top = true

		var xs, ys []float64
		for i, metric := range cfg.MobilityMetrics {
			xys := lo.FilterMap(mobility.Series(points, country, metric), func(pt mobility.Point, _ int) (plotter.XY, bool) {
				v, ok := pt.Value.Get()
				return plotter.XY{X: float64(pt.Date.Unix()), Y: v}, ok
			})
			if len(xys) == 0 {
				continue
			}
			l, err := line(xys, palette[i%len(palette)], nil)
			if err != nil {
				return err
			}
			p.Add(l)
			p.Legend.Add(metric, l)
			for _, xy := range xys {
				xs, ys = append(xs, xy.X), append(ys, xy.Y)
			}
		}
		if len(xs) == 0 {
			continue
		}
		xmin, xmax := lo.Min(xs), lo.Max(xs)
		ymin, ymax := min(lo.Min(ys), 0), max(lo.Max(ys), 0)

		zero, err := horizontal(0, xmin, xmax, grey)
		if err != nil {
			return err
		}
		v, err := vertical(pandemic, ymin, ymax, black, []vg.Length{vg.Points(4), vg.Points(3)})
		if err != nil {
			return err
		}
		p.Add(zero, v)
		p.X.Min, p.X.Max = min(xmin, pandemic), max(xmax, pandemic)
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		return nil
	}
	return saveGrid(base, wrap(panels, countryColumns))
}
