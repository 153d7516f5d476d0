// Package policy models the OxCGRT government response tracker and reduces
// its daily rows to weekly means per country.
package policy

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
	"iris-stats/domain/reconcile"
	"iris-stats/domain/value"
)

// Field is one numeric tracker column and its display name.
type Field struct {
	Column string
	Name   string
}

// Fields are the four composite indices followed by the nine indicators that
// make up the Stringency Index.
var Fields = []Field{
	{"StringencyIndex", "Stringency Index"},
	{"GovernmentResponseIndex", "Government Response Index"},
	{"ContainmentHealthIndex", "Containment Health Index"},
	{"EconomicSupportIndex", "Economic Support Index"},
	{"C1_School closing", "School closing"},
	{"C2_Workplace closing", "Workplace closing"},
	{"C3_Cancel public events", "Cancel public events"},
	{"C4_Restrictions on gatherings", "Restrictions on gatherings"},
	{"C5_Close public transport", "Close public transport"},
	{"C6_Stay at home requirements", "Stay at home requirements"},
	{"C7_Restrictions on internal movement", "Restrictions on internal movement"},
	{"C8_International travel controls", "International travel controls"},
	{"H1_Public information campaigns", "Public information campaigns"},
}

// Stringency is the position of the Stringency Index in Fields.
const Stringency = 0

// Source columns used besides Fields.
const (
	ColumnCountry = "CountryName"
	ColumnRegion  = "RegionName"
	ColumnDate    = "Date"
)

// Record is one day of one tracked entity.
type Record struct {
	Country string
	Region  string
	Date    time.Time
	Week    isoweek.Key
	Values  []value.Maybe[float64] // parallel to Fields
	Raw     []string
}

// Dataset is the tracker as loaded; Header is the source header row.
type Dataset struct {
	Header  []string
	Records []Record
}

// Bucket keys the weekly means.
type Bucket struct {
	Country string
	isoweek.Key
}

// Weekly holds the mean of every field over one country-week. A field with
// no value on any day of the week is absent.
type Weekly struct {
	Bucket
	Values []value.Maybe[float64] // parallel to Fields
}

// Stringency returns the weekly Stringency Index.
func (w Weekly) Stringency() value.Maybe[float64] {
	return w.Values[Stringency]
}

// Reconcile redirects subdivided aggregates onto their parts and assigns
// ISO weeks. Years are ISO years so that they join with the isolate weeks.
func Reconcile(cfg *config.Config, records []Record) []Record {
	return lo.Map(records, func(r Record, _ int) Record {
		r.Country = reconcile.Subdivide(cfg.Reconcile.PolicySubdivisions, r.Country, r.Region)
		r.Week = isoweek.Of(r.Date)
		return r
	})
}

// Select keeps records of the given countries within the study window.
func Select(cfg *config.Config, records []Record, countries []string) []Record {
	keep := lo.SliceToMap(countries, func(c string) (string, struct{}) { return c, struct{}{} })
	w := cfg.Window()
	return lo.Filter(records, func(r Record, _ int) bool {
		_, ok := keep[r.Country]
		return ok && w.Contains(r.Date)
	})
}

// WeeklyMeans averages every field per country-week, skipping missing days.
func WeeklyMeans(records []Record) map[Bucket]Weekly {
	groups := lo.GroupBy(records, func(r Record) Bucket { return Bucket{Country: r.Country, Key: r.Week} })
	return lo.MapValues(groups, func(rs []Record, b Bucket) Weekly {
		w := Weekly{Bucket: b, Values: make([]value.Maybe[float64], len(Fields))}
		for i := range Fields {
			w.Values[i] = value.Mean(lo.Map(rs, func(r Record, _ int) value.Maybe[float64] { return r.Values[i] }))
		}
		return w
	})
}

// Countries returns the distinct reconciled country names.
func Countries(records []Record) []string {
	out := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return r.Country }))
	slices.Sort(out)
	return out
}
