package csv

import (
	"strconv"

	"iris-stats/domain/surveillance"
)

var isolateHeader = []string{
	"id", "isolate", "aliases", "species", "country", "continent", "year",
	"date_sampled", "isoyear_sampled", "week_sampled", "date_received", "non_culture",
}

// WriteIsolates writes the merged in-window isolate dataset.
func WriteIsolates(path string, obs []surveillance.Observation) error {
	return writeAll(path, isolateHeader, func(write func([]string) error) error {
		for _, o := range obs {
			year, week := "", ""
			if !o.Sampled.IsZero() {
				year, week = strconv.Itoa(o.Week.Year), strconv.Itoa(o.Week.Week)
			}
			row := []string{
				o.ID,
				o.Isolate,
				o.Aliases,
				o.Species,
				o.Country,
				o.Continent,
				o.Year,
				formatDate(o.Sampled),
				year,
				week,
				formatDate(o.Received),
				o.NonCulture,
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
