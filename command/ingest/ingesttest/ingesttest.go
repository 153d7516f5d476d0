// Package ingesttest writes a small but complete set of input files for
// command tests.
package ingesttest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"iris-stats/connectors/xlsx"
	"iris-stats/domain/config"
)

var isolateHeader = []any{"id", "isolate", "aliases", "country", "continent", "year", "date_sampled", "isoyear_sampled", "week_sampled", "date_received", "non_culture"}

// Isolate is one fixture row.
type Isolate struct {
	Country   string
	Continent string
	Sampled   time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Isolates is the fixture per species.
var Isolates = map[string][]Isolate{
	"S. pneumoniae": {
		{"Belgium", "Europe", day(2018, 1, 3)},
		{"Belgium", "Europe", day(2018, 1, 4)},
		{"Belgium", "Europe", day(2018, 1, 5)},
		{"Belgium", "Europe", day(2020, 3, 10)},
		{"Belgium", "Europe", day(2020, 3, 11)},
		{"Brazil", "South America", day(2019, 12, 30)},
		{"UK [Wales]", "Europe", day(2020, 5, 31)},
		{"Canada", "North America", day(2017, 6, 1)},
	},
	"H. influenzae": {
		{"Belgium", "Europe", day(2019, 5, 5)},
	},
	"N. meningitidis": {
		{"Belgium", "Europe", day(2018, 7, 7)},
	},
	"S. agalactiae": {
		{"Brazil", "South America", day(2020, 1, 15)},
		{"Brazil", "South America", day(2020, 6, 1)},
	},
}

const policyCSV = `CountryName,CountryCode,RegionName,RegionCode,Date,C1_School closing,C2_Workplace closing,C3_Cancel public events,C4_Restrictions on gatherings,C5_Close public transport,C6_Stay at home requirements,C7_Restrictions on internal movement,C8_International travel controls,H1_Public information campaigns,StringencyIndex,GovernmentResponseIndex,ContainmentHealthIndex,EconomicSupportIndex
Belgium,BEL,,,20200309,1,1,1,1,0,0,0,1,2,40,30,35,10
Belgium,BEL,,,20200310,1,1,1,1,0,0,0,1,2,60,30,35,10
Belgium,BEL,,,20200316,3,3,2,4,1,2,1,3,2,,70,72,50
Brazil,BRA,,,20200101,0,0,0,0,0,0,0,0,0,0,0,0,0
United Kingdom,GBR,,,20200525,3,3,2,4,1,2,2,3,2,70,65,68,50
United Kingdom,GBR,Wales,UKL,20200525,3,3,2,4,1,2,2,3,2,75,65,68,50
`

const mobilityCSV = `country_region_code,country_region,sub_region_1,sub_region_2,metro_area,iso_3166_2_code,census_fips_code,date,retail_and_recreation_percent_change_from_baseline,grocery_and_pharmacy_percent_change_from_baseline,parks_percent_change_from_baseline,transit_stations_percent_change_from_baseline,workplaces_percent_change_from_baseline,residential_percent_change_from_baseline
BE,Belgium,,,,,,2020-03-02,1,2,3,4,-5,2
BE,Belgium,,,,,,2020-03-03,0,1,2,3,-30,10
BE,Belgium,Flanders,,,,,2020-03-02,1,2,3,4,-5,2
GB,United Kingdom,,,,,,2020-03-02,0,0,0,0,-2,1
CZ,Czechia,,,,,,2020-03-02,0,0,0,0,-1,
`

// WriteIsolates writes an isolate workbook holding the export header and rows.
func WriteIsolates(path string, rows [][]any) error {
	return xlsx.Write(path, xlsx.Sheet{Name: "isolates", Rows: append([][]any{isolateHeader}, rows...)})
}

// WriteDataDir writes the fixture inputs named by cfg into a temporary
// directory and returns it.
func WriteDataDir(t *testing.T, cfg *config.Config) string {
	t.Helper()
	dir := t.TempDir()

	id := 0
	for _, in := range cfg.Inputs.Isolates {
		var rows [][]any
		for _, iso := range Isolates[in.Species] {
			id++
			y, w := iso.Sampled.ISOWeek()
			rows = append(rows, []any{
				id, "IRIS-" + strings.ReplaceAll(in.Species, ". ", ""), nil, iso.Country, iso.Continent,
				iso.Sampled.Year(), iso.Sampled.Format(time.DateOnly), y, w, iso.Sampled.AddDate(0, 0, 3).Format(time.DateOnly), "no",
			})
		}
		gt.NoError(t, WriteIsolates(filepath.Join(dir, in.Path), rows)).Required()
	}

	gt.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Inputs.Policy), []byte(policyCSV), 0o644)).Required()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Inputs.Mobility), []byte(mobilityCSV), 0o644)).Required()
	return dir
}
