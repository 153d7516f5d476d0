package csv

import (
	"strconv"

	"github.com/samber/lo"

	"iris-stats/domain/policy"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

// JoinedHeader is the header of the isolate counts joined with the weekly
// policy means.
var JoinedHeader = append([]string{
	"species", "country", "Year sampled", "Week of year", "count", "Cumulative isolate count",
	"CountryName", "year", "week",
}, lo.Map(policy.Fields, func(f policy.Field, _ int) string { return f.Name })...)

// WriteJoined writes every aligned row. Policy columns stay blank where the
// tracker has no data for the country-week.
func WriteJoined(path string, j *surveillance.Joined) error {
	return writeAll(path, JoinedHeader, func(write func([]string) error) error {
		for _, r := range j.Rows {
			row := []string{
				r.Species,
				r.Country,
				strconv.Itoa(r.Year),
				strconv.Itoa(r.Week),
				strconv.Itoa(r.Count),
				strconv.Itoa(r.Cumulative),
			}
			if w, ok := r.Policy.Get(); ok {
				row = append(row, w.Country, strconv.Itoa(w.Year), strconv.Itoa(w.Week))
				row = append(row, lo.Map(w.Values, func(v value.Maybe[float64], _ int) string { return value.FormatFloat(v) })...)
			} else {
				row = append(row, make([]string, 3+len(policy.Fields))...)
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
