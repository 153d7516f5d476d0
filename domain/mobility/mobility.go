// Package mobility models the Google COVID-19 Community Mobility Reports and
// reduces them to national daily series for the participating countries.
package mobility

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
	"iris-stats/domain/reconcile"
	"iris-stats/domain/value"
)

// Metric is one place category column and its display name.
type Metric struct {
	Column string
	Name   string
}

var Metrics = []Metric{
	{"retail_and_recreation_percent_change_from_baseline", "Retail and recreation"},
	{"grocery_and_pharmacy_percent_change_from_baseline", "Grocery and pharmacy"},
	{"parks_percent_change_from_baseline", "Parks"},
	{"transit_stations_percent_change_from_baseline", "Transit stations"},
	{"workplaces_percent_change_from_baseline", "Workplaces"},
	{"residential_percent_change_from_baseline", "Residential"},
}

const (
	ColumnCountryCode = "country_region_code"
	ColumnCountry     = "country_region"
	ColumnSubRegion1  = "sub_region_1"
	ColumnSubRegion2  = "sub_region_2"
	ColumnMetro       = "metro_area"
	ColumnDate        = "date"
)

// MetricIndex returns the position of a display name in Metrics, or -1.
func MetricIndex(name string) int {
	return slices.IndexFunc(Metrics, func(m Metric) bool { return m.Name == name })
}

// Record is one day of one reported area.
type Record struct {
	CountryCode string
	Country     string
	SubRegion1  string
	SubRegion2  string
	Metro       string
	Date        time.Time
	Week        isoweek.Key
	Values      []value.Maybe[float64] // parallel to Metrics
	Raw         []string
}

// National reports whether the row covers a whole country.
func (r Record) National() bool {
	return strings.TrimSpace(r.SubRegion1) == "" && strings.TrimSpace(r.Metro) == ""
}

// Dataset is the report as loaded; Header is the source header row.
type Dataset struct {
	Header  []string
	Records []Record
}

// DisplayHeader returns header with the metric columns renamed to their
// display names.
func DisplayHeader(header []string) []string {
	names := lo.SliceToMap(Metrics, func(m Metric) (string, string) { return m.Column, m.Name })
	return lo.Map(header, func(h string, _ int) string {
		if n, ok := names[h]; ok {
			return n
		}
		return h
	})
}

// Countries returns the distinct country names after aliasing.
func Countries(records []Record, aliases reconcile.Aliases) []string {
	out := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return aliases.Canonical(r.Country) }))
	slices.Sort(out)
	return out
}

// Select keeps the national rows of the configured countries within the
// study window, sorted by country then date, with ISO weeks assigned.
func Select(cfg *config.Config, records []Record) []Record {
	aliases := reconcile.Aliases(cfg.Reconcile.MobilityAliases)
	keep := lo.SliceToMap(cfg.MobilityCountries, func(c string) (string, struct{}) { return c, struct{}{} })
	w := cfg.Window()

	out := lo.FilterMap(records, func(r Record, _ int) (Record, bool) {
		r.Country = aliases.Canonical(r.Country)
		_, ok := keep[r.Country]
		if !ok || !r.National() || !w.Contains(r.Date) {
			return r, false
		}
		r.Week = isoweek.Of(r.Date)
		return r, true
	})
	slices.SortStableFunc(out, func(a, b Record) int {
		if c := cmp.Compare(a.Country, b.Country); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return out
}

// Point is one value of the long form.
type Point struct {
	Country string
	Date    time.Time
	Metric  string
	Value   value.Maybe[float64]
}

// Long melts the selected metrics into one point per record and metric.
// Points are grouped by metric in Metrics order, then by record order.
func Long(records []Record, metrics []string) []Point {
	var out []Point
	for i, m := range Metrics {
		if !slices.Contains(metrics, m.Name) {
			continue
		}
		for _, r := range records {
			out = append(out, Point{Country: r.Country, Date: r.Date, Metric: m.Name, Value: r.Values[i]})
		}
	}
	return out
}

// Series returns the points of one country and metric in date order.
func Series(points []Point, country, metric string) []Point {
	out := lo.Filter(points, func(p Point, _ int) bool { return p.Country == country && p.Metric == metric })
	slices.SortStableFunc(out, func(a, b Point) int { return a.Date.Compare(b.Date) })
	return out
}
