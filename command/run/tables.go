package run

import (
	"strconv"

	"github.com/samber/lo"

	"iris-stats/connectors/xlsx"
	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
	"iris-stats/domain/surveillance"
)

// figure1Sheets lays out the global weekly counts long and, for reuse, wide
// by year.
func figure1Sheets(cfg *config.Config, rows []surveillance.GlobalRow) []xlsx.Sheet {
	long := xlsx.Sheet{Name: "figure_1_data", Rows: [][]any{{"species", "Year sampled", "Week of year", "Count", "Cumulative isolate count"}}}
	for _, r := range rows {
		long.Rows = append(long.Rows, []any{r.Species, r.Year, r.Week, r.Count, r.Cumulative})
	}

	type key struct {
		Species string
		isoweek.Key
	}
	counts := lo.SliceToMap(rows, func(r surveillance.GlobalRow) (key, int) { return key{r.Species, r.Key}, r.Count })
	species := lo.Uniq(lo.Map(rows, func(r surveillance.GlobalRow, _ int) string { return r.Species }))

	header := []any{"species", "Week of year"}
	for _, y := range cfg.Study.Years {
		header = append(header, strconv.Itoa(y))
	}
	wide := xlsx.Sheet{Name: "figure_1_counts_by_year", Rows: [][]any{header}}
	for _, s := range species {
		for week := 1; week <= cfg.Study.WeeksPerYear; week++ {
			row := []any{s, week}
			for _, y := range cfg.Study.Years {
				if n, ok := counts[key{s, isoweek.Key{Year: y, Week: week}}]; ok {
					row = append(row, n)
				} else {
					row = append(row, nil)
				}
			}
			wide.Rows = append(wide.Rows, row)
		}
	}
	return []xlsx.Sheet{long, wide}
}
