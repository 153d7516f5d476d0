package csv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/gt"

	"iris-stats/connectors/csv"
	"iris-stats/connectors/table"
	"iris-stats/domain/config"
	"iris-stats/domain/isoweek"
	"iris-stats/domain/mobility"
	"iris-stats/domain/policy"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o644)).Required()
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

const policyHeader = "CountryName,CountryCode,RegionName,RegionCode,Date,C1_School closing,C2_Workplace closing,C3_Cancel public events," +
	"C4_Restrictions on gatherings,C5_Close public transport,C6_Stay at home requirements,C7_Restrictions on internal movement," +
	"C8_International travel controls,H1_Public information campaigns,StringencyIndex,GovernmentResponseIndex,ContainmentHealthIndex,EconomicSupportIndex\n"

func TestReadPolicy(t *testing.T) {
	path := writeFile(t, "oxcgrt.csv", policyHeader+
		"Belgium,BEL,,,20200316,3,3,2,4,0,1,0,3,2,81.48,70.1,75.2,50\n"+
		"United Kingdom,GBR,Scotland,UKM,20200316,,,,,,,,,,,,,\n")

	ds, err := csv.ReadPolicy(context.Background(), path)
	gt.NoError(t, err).Required()
	gt.A(t, ds.Records).Length(2)

	be := ds.Records[0]
	gt.Equal(t, be.Country, "Belgium")
	gt.True(t, be.Date.Equal(time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC)))
	gt.Equal(t, be.Values[policy.Stringency], value.Some(81.48))
	gt.Equal(t, be.Values[4], value.Some(3.0))

	uk := ds.Records[1]
	gt.Equal(t, uk.Region, "Scotland")
	gt.False(t, uk.Values[policy.Stringency].Present())
}

func TestReadPolicyMissingColumn(t *testing.T) {
	path := writeFile(t, "oxcgrt.csv", "CountryName,Date\nBelgium,20200101\n")
	_, err := csv.ReadPolicy(context.Background(), path)
	gt.True(t, errors.Is(err, table.ErrMissingColumn))
}

func TestReadPolicyInvalidValue(t *testing.T) {
	path := writeFile(t, "oxcgrt.csv", policyHeader+"Belgium,BEL,,,20200316,x,3,2,4,0,1,0,3,2,81.48,70.1,75.2,50\n")
	_, err := csv.ReadPolicy(context.Background(), path)
	gt.True(t, errors.Is(err, table.ErrInvalidValue))
}

func TestWritePolicy(t *testing.T) {
	in := writeFile(t, "oxcgrt.csv", policyHeader+"United Kingdom,GBR,Scotland,UKM,20191230,,,,,,,,,,10,,,\n")
	ds, err := csv.ReadPolicy(context.Background(), in)
	gt.NoError(t, err).Required()
	records := policy.Reconcile(config.Default(), ds.Records)

	out := filepath.Join(t.TempDir(), "nested", "publication_dataset_oxcgrt.csv")
	gt.NoError(t, csv.WritePolicy(out, ds.Header, records)).Required()

	lines := readLines(t, out)
	gt.A(t, lines).Length(2)
	gt.True(t, strings.HasSuffix(lines[0], ",EconomicSupportIndex,week,year"))
	gt.True(t, strings.HasPrefix(lines[1], "Scotland,GBR,Scotland,UKM,2019-12-30,"))
	gt.True(t, strings.HasSuffix(lines[1], ",10,,,,1,2020"))
}

const mobilityHeader = "country_region_code,country_region,sub_region_1,sub_region_2,metro_area,iso_3166_2_code,census_fips_code,date," +
	"retail_and_recreation_percent_change_from_baseline,grocery_and_pharmacy_percent_change_from_baseline,parks_percent_change_from_baseline," +
	"transit_stations_percent_change_from_baseline,workplaces_percent_change_from_baseline,residential_percent_change_from_baseline\n"

func TestMobilityRoundTrip(t *testing.T) {
	in := writeFile(t, "mobility.csv", mobilityHeader+
		"CZ,Czechia,,,,,,2020-03-02,1,2,3,4,-5,6\n"+
		"CZ,Czechia,Prague,,,,,2020-03-02,1,2,3,4,-5,6\n"+
		"BE,Belgium,,,,,,2020-03-01,,,,,-10,\n")

	ds, err := csv.ReadMobility(context.Background(), in)
	gt.NoError(t, err).Required()
	gt.A(t, ds.Records).Length(3)
	gt.Equal(t, ds.Records[1].SubRegion1, "Prague")

	selected := mobility.Select(config.Default(), ds.Records)
	gt.A(t, selected).Length(2)

	dir := t.TempDir()
	wide := filepath.Join(dir, "publication_dataset_google.csv")
	gt.NoError(t, csv.WriteMobility(wide, ds.Header, selected)).Required()
	lines := readLines(t, wide)
	gt.A(t, lines).Length(3)
	gt.True(t, strings.HasSuffix(lines[0], ",Workplaces,Residential,week"))
	gt.Equal(t, lines[1], "BE,Belgium,,,,,,2020-03-01,,,,,-10,,9")
	gt.Equal(t, lines[2], "CZ,Czech Republic,,,,,,2020-03-02,1,2,3,4,-5,6,10")

	long := filepath.Join(dir, "figure_3_data.csv")
	gt.NoError(t, csv.WriteMobilityLong(long, mobility.Long(selected, []string{"Residential", "Workplaces"}))).Required()
	want := []string{
		"country_region,date,Metric,Percent change",
		"Belgium,2020-03-01,Workplaces,-10",
		"Czech Republic,2020-03-02,Workplaces,-5",
		"Belgium,2020-03-01,Residential,",
		"Czech Republic,2020-03-02,Residential,6",
	}
	if diff := cmp.Diff(want, readLines(t, long)); diff != "" {
		t.Errorf("figure_3_data.csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteIsolates(t *testing.T) {
	obs, err := surveillance.AssignWeeks([]surveillance.Observation{{
		ID: "7", Isolate: "IRIS-7", Species: "S. agalactiae", Country: "Hong Kong", Continent: "Asia", Year: "2019",
		Sampled:  time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC),
		Received: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
	}})
	gt.NoError(t, err).Required()

	out := filepath.Join(t.TempDir(), "publication_dataset_iris.csv")
	gt.NoError(t, csv.WriteIsolates(out, obs)).Required()
	want := []string{
		"id,isolate,aliases,species,country,continent,year,date_sampled,isoyear_sampled,week_sampled,date_received,non_culture",
		"7,IRIS-7,,S. agalactiae,Hong Kong,Asia,2019,2019-12-30,2020,1,2020-01-02,",
	}
	if diff := cmp.Diff(want, readLines(t, out)); diff != "" {
		t.Errorf("publication_dataset_iris.csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJoined(t *testing.T) {
	k := isoweek.Key{Year: 2020, Week: 11}
	w := policy.Weekly{Bucket: policy.Bucket{Country: "Belgium", Key: k}, Values: make([]value.Maybe[float64], len(policy.Fields))}
	w.Values[policy.Stringency] = value.Some(40.5)
	j := &surveillance.Joined{Rows: []surveillance.JoinedRow{
		{Row: surveillance.Row{ScopeKey: surveillance.ScopeKey{Species: "S. pneumoniae", Country: "Belgium", Key: k}, Count: 2, Cumulative: 30}, Policy: value.Some(w)},
		{Row: surveillance.Row{ScopeKey: surveillance.ScopeKey{Species: "S. pneumoniae", Country: "Belgium", Key: isoweek.Key{Year: 2018, Week: 1}}}},
	}}

	out := filepath.Join(t.TempDir(), "figure_2_data.csv")
	gt.NoError(t, csv.WriteJoined(out, j)).Required()
	lines := readLines(t, out)
	gt.A(t, lines).Length(3)
	gt.True(t, strings.HasPrefix(lines[0], "species,country,Year sampled,Week of year,count,Cumulative isolate count,CountryName,year,week,Stringency Index,"))
	gt.Equal(t, lines[1], "S. pneumoniae,Belgium,2020,11,2,30,Belgium,2020,11,40.5"+strings.Repeat(",", len(policy.Fields)-1))
	gt.Equal(t, lines[2], "S. pneumoniae,Belgium,2018,1,0,0"+strings.Repeat(",", 3+len(policy.Fields)))
}
