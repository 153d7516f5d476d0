package surveillance_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"iris-stats/domain/config"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

func summaryInput(t *testing.T) []surveillance.Observation {
	t.Helper()
	keyed, err := surveillance.AssignWeeks([]surveillance.Observation{
		obs("S. pneumoniae", "Belgium", "Europe", day(2018, 3, 1)),
		obs("S. pneumoniae", "Belgium", "Europe", day(2018, 4, 1)),
		obs("S. pneumoniae", "Brazil", "South America", day(2019, 3, 1)),
		obs("N. meningitidis", "Belgium", "Europe", day(2020, 2, 1)),
	})
	gt.NoError(t, err).Required()
	return keyed
}

func TestLabContinentBreakdown(t *testing.T) {
	p := surveillance.LabContinentBreakdown(config.Default(), summaryInput(t))

	gt.Equal(t, p.Index, "continent")
	gt.Equal(t, p.Rows, []string{"Europe", "South America", "All"})
	gt.Equal(t, p.Columns, [][]string{{"S. pneumoniae"}, {"N. meningitidis"}, {"All"}})

	gt.Equal(t, p.Cell("Europe", "S. pneumoniae"), value.Some(1))
	gt.Equal(t, p.Cell("Europe", "N. meningitidis"), value.Some(2))
	gt.Equal(t, p.Cell("South America", "S. pneumoniae"), value.Some(1))
	gt.False(t, p.Cell("South America", "N. meningitidis").Present())

	// Belgium reports both species but counts once in the margin.
	gt.Equal(t, p.Cell("Europe", "All"), value.Some(2))
	gt.Equal(t, p.Cell("All", "S. pneumoniae"), value.Some(2))
	gt.Equal(t, p.Cell("All", "N. meningitidis"), value.Some(2))
	gt.Equal(t, p.Cell("All", "All"), value.Some(3))
}

func TestCountryBreakdown(t *testing.T) {
	p := surveillance.CountryBreakdown(config.Default(), summaryInput(t))

	gt.Equal(t, p.Rows, []string{"Belgium", "Brazil", "Iceland", "All"})
	gt.Equal(t, p.Cell("Belgium", "S. pneumoniae"), value.Some(2))
	gt.Equal(t, p.Cell("Belgium", "N. meningitidis"), value.Some(1))
	gt.Equal(t, p.Cell("Belgium", "All"), value.Some(3))
	gt.Equal(t, p.Cell("Brazil", "S. pneumoniae"), value.Some(1))
	gt.False(t, p.Cell("Brazil", "N. meningitidis").Present())

	t.Run("carve-out shows zero not blank", func(t *testing.T) {
		gt.Equal(t, p.Cell("Iceland", "N. meningitidis"), value.Some(0))
		gt.Equal(t, p.Cell("Iceland", "All"), value.Some(0))
		gt.False(t, p.Cell("Iceland", "S. pneumoniae").Present())
	})

	gt.Equal(t, p.Cell("All", "S. pneumoniae"), value.Some(3))
	gt.Equal(t, p.Cell("All", "N. meningitidis"), value.Some(1))
	gt.Equal(t, p.Cell("All", "All"), value.Some(4))
}

func TestCountryTimeBreakdown(t *testing.T) {
	p := surveillance.CountryTimeBreakdown(config.Default(), summaryInput(t))

	gt.Equal(t, p.Headers, []string{"species", "isoyear_sampled"})
	gt.Equal(t, p.Columns, [][]string{
		{"S. pneumoniae", "2018"},
		{"S. pneumoniae", "2019"},
		{"N. meningitidis", "2020"},
		{"All", ""},
	})
	gt.Equal(t, p.Cell("Belgium", "S. pneumoniae", "2018"), value.Some(2))
	gt.False(t, p.Cell("Belgium", "S. pneumoniae", "2019").Present())
	gt.Equal(t, p.Cell("Brazil", "S. pneumoniae", "2019"), value.Some(1))
	gt.Equal(t, p.Cell("Iceland", "N. meningitidis", "2020"), value.Some(0))
	gt.Equal(t, p.Cell("All", "All", ""), value.Some(4))
}

func TestSummaryWithoutCarveouts(t *testing.T) {
	p := surveillance.CountryBreakdown(noCarveouts(), summaryInput(t))
	gt.Equal(t, p.Rows, []string{"Belgium", "Brazil", "All"})
}
