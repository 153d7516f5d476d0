package config

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"iris-stats/domain/isoweek"
)

var ErrInvalidConfig = goerr.New("invalid configuration")

// Mode tells the scope builder whether a carve-out forces a species/country
// pair into scope or out of it.
type Mode string

const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// Carveout is a manually recorded exception to the participation rule that
// cannot be derived from the data, e.g. a country that took part but
// recovered no isolates of a species.
type Carveout struct {
	Species   string `yaml:"species"`
	Country   string `yaml:"country"`
	Continent string `yaml:"continent"`
	Mode      Mode   `yaml:"mode"`
	Reason    string `yaml:"reason"`
}

// Subdivision describes a source that reports an aggregate entity alongside
// rows disaggregated by a secondary field.
type Subdivision struct {
	Aggregate string   `yaml:"aggregate"`
	Parts     []string `yaml:"parts"`
}

// IsolateInput binds one workbook to its species.
type IsolateInput struct {
	Species string `yaml:"species"`
	Path    string `yaml:"path"`
}

// Date is a calendar date written as YYYY-MM-DD in YAML.
type Date struct {
	time.Time
}

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(node.Value))
	if err != nil {
		return goerr.Wrap(err, "failed to parse date", goerr.V("value", node.Value), goerr.V("line", node.Line))
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Format(time.DateOnly), nil
}

// Config is every constant a run depends on. It is passed explicitly into
// each stage.
type Config struct {
	Study struct {
		Start        Date  `yaml:"start"`
		End          Date  `yaml:"end"`
		Years        []int `yaml:"years"`
		WeeksPerYear int   `yaml:"weeks_per_year"`
		// FinalWeek truncates the last study year. Zero derives it from End.
		FinalWeek    int  `yaml:"final_week"`
		PandemicWeek int  `yaml:"pandemic_week"`
		PandemicDate Date `yaml:"pandemic_date"`
	} `yaml:"study"`

	Species []string `yaml:"species"`

	Inputs struct {
		Isolates []IsolateInput `yaml:"isolates"`
		Policy   string         `yaml:"policy"`
		Mobility string         `yaml:"mobility"`
	} `yaml:"inputs"`

	Reconcile struct {
		IsolateAliases     map[string]string `yaml:"isolate_aliases"`
		MobilityAliases    map[string]string `yaml:"mobility_aliases"`
		PolicySubdivisions []Subdivision     `yaml:"policy_subdivisions"`
	} `yaml:"reconcile"`

	// MobilityCountries lists the participating countries as the mobility
	// report names them, with the UK nations grouped as United Kingdom.
	MobilityCountries []string `yaml:"mobility_countries"`
	MobilityMetrics   []string `yaml:"mobility_metrics"`

	Carveouts []Carveout `yaml:"carveouts"`

	Palette struct {
		Anchors map[int]string `yaml:"anchors"`
		Missing string         `yaml:"missing"`
	} `yaml:"palette"`
}

// Default returns the configuration of the published analysis.
func Default() *Config {
	var c Config
	c.Study.Start = NewDate(2018, time.January, 1)
	c.Study.End = NewDate(2020, time.May, 31)
	c.Study.Years = []int{2018, 2019, 2020}
	c.Study.WeeksPerYear = 52
	c.Study.PandemicWeek = 11
	c.Study.PandemicDate = NewDate(2020, time.March, 9)

	c.Species = []string{"S. pneumoniae", "H. influenzae", "N. meningitidis", "S. agalactiae"}

	c.Inputs.Isolates = []IsolateInput{
		{Species: "S. pneumoniae", Path: "IRIS_Sp_13102020.xlsx"},
		{Species: "H. influenzae", Path: "IRIS_Hi_13102020.xlsx"},
		{Species: "N. meningitidis", Path: "IRIS_Nm_13102020.xlsx"},
		{Species: "S. agalactiae", Path: "IRIS_Sa_13102020.xlsx"},
	}
	c.Inputs.Policy = "oxcgrt_13102020.csv"
	c.Inputs.Mobility = "global_mobility_report_13102020.csv"

	c.Reconcile.IsolateAliases = map[string]string{
		"The Netherlands":       "Netherlands",
		"China [Hong Kong]":     "Hong Kong",
		"UK [Scotland]":         "Scotland",
		"UK [England]":          "England",
		"UK [Northern Ireland]": "Northern Ireland",
		"UK [Wales]":            "Wales",
	}
	c.Reconcile.MobilityAliases = map[string]string{
		"Czechia": "Czech Republic",
	}
	c.Reconcile.PolicySubdivisions = []Subdivision{
		{Aggregate: "United Kingdom", Parts: []string{"England", "Scotland", "Wales", "Northern Ireland"}},
	}

	c.MobilityCountries = []string{
		"Belgium", "Brazil", "Canada", "China", "Czech Republic", "Denmark", "Finland", "France",
		"Germany", "Hong Kong", "Iceland", "Ireland", "Israel", "Luxembourg", "Netherlands", "New Zealand",
		"Poland", "South Africa", "South Korea", "Spain", "Sweden", "Switzerland", "United Kingdom",
	}
	c.MobilityMetrics = []string{"Residential", "Workplaces"}

	c.Carveouts = []Carveout{
		{
			Species:   "N. meningitidis",
			Country:   "Iceland",
			Continent: "Europe",
			Mode:      ModeInclude,
			Reason:    "Iceland participated but recovered no N. meningitidis during the study period",
		},
	}

	c.Palette.Anchors = map[int]string{
		0:   "#d6debf",
		10:  "#aecea1",
		20:  "#98C59A",
		30:  "#82bb92",
		40:  "#5ea28d",
		50:  "#54938C",
		60:  "#49838a",
		70:  "#3e5f7e",
		80:  "#383c65",
		90:  "#2b1e3e",
		100: "#000000",
	}
	c.Palette.Missing = "#d9cdc3"
	return &c
}

// Window is the inclusive study window.
func (c *Config) Window() isoweek.Window {
	return isoweek.Window{Start: c.Study.Start.Time, End: c.Study.End.Time}
}

// FinalYear is the truncated last study year.
func (c *Config) FinalYear() int {
	return c.Study.Years[len(c.Study.Years)-1]
}

// WeeksIn returns the number of in-scope ISO weeks of a study year.
func (c *Config) WeeksIn(year int) int {
	if year == c.FinalYear() {
		return c.finalWeek()
	}
	return c.Study.WeeksPerYear
}

func (c *Config) finalWeek() int {
	if c.Study.FinalWeek > 0 {
		return c.Study.FinalWeek
	}
	return isoweek.Of(c.Study.End.Time).Week
}

// HasSpecies reports whether s is one of the configured species.
func (c *Config) HasSpecies(s string) bool {
	return slices.Contains(c.Species, s)
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Study.Start.IsZero() || c.Study.End.IsZero() {
		return goerr.Wrap(ErrInvalidConfig, "study window is required")
	}
	if c.Study.End.Before(c.Study.Start.Time) {
		return goerr.Wrap(ErrInvalidConfig, "study end is before study start",
			goerr.V("start", c.Study.Start.Format(time.DateOnly)),
			goerr.V("end", c.Study.End.Format(time.DateOnly)))
	}
	if len(c.Study.Years) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one study year is required")
	}
	if !slices.IsSorted(c.Study.Years) || len(slices.Compact(slices.Clone(c.Study.Years))) != len(c.Study.Years) {
		return goerr.Wrap(ErrInvalidConfig, "study years must be strictly ascending", goerr.V("years", c.Study.Years))
	}
	if first := isoweek.Of(c.Study.Start.Time).Year; first != c.Study.Years[0] {
		return goerr.Wrap(ErrInvalidConfig, "study start is outside the first study year",
			goerr.V("iso_year", first), goerr.V("first_year", c.Study.Years[0]))
	}
	end := isoweek.Of(c.Study.End.Time)
	if end.Year != c.FinalYear() {
		return goerr.Wrap(ErrInvalidConfig, "study end is outside the final study year",
			goerr.V("iso_year", end.Year), goerr.V("final_year", c.FinalYear()))
	}
	if c.Study.WeeksPerYear < 1 || c.Study.WeeksPerYear > 53 {
		return goerr.Wrap(ErrInvalidConfig, "weeks per year must be within 1..53", goerr.V("weeks_per_year", c.Study.WeeksPerYear))
	}
	if c.Study.FinalWeek != 0 && c.Study.FinalWeek != end.Week {
		return goerr.Wrap(ErrInvalidConfig, "final week does not match the study end",
			goerr.V("final_week", c.Study.FinalWeek), goerr.V("end_week", end.Week))
	}
	if len(c.Species) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one species is required")
	}
	for _, in := range c.Inputs.Isolates {
		if !c.HasSpecies(in.Species) {
			return goerr.Wrap(ErrInvalidConfig, "isolate input names an unknown species", goerr.V("species", in.Species), goerr.V("path", in.Path))
		}
	}
	for _, co := range c.Carveouts {
		if !c.HasSpecies(co.Species) {
			return goerr.Wrap(ErrInvalidConfig, "carve-out names an unknown species", goerr.V("species", co.Species))
		}
		if co.Country == "" {
			return goerr.Wrap(ErrInvalidConfig, "carve-out country is required", goerr.V("species", co.Species))
		}
		if co.Mode != ModeInclude && co.Mode != ModeExclude {
			return goerr.Wrap(ErrInvalidConfig, "carve-out mode must be include or exclude",
				goerr.V("mode", co.Mode), goerr.V("country", co.Country))
		}
	}
	return c.validatePalette()
}

func (c *Config) validatePalette() error {
	if _, ok := c.Palette.Anchors[0]; !ok {
		return goerr.Wrap(ErrInvalidConfig, "palette needs an anchor at 0")
	}
	if _, ok := c.Palette.Anchors[100]; !ok {
		return goerr.Wrap(ErrInvalidConfig, "palette needs an anchor at 100")
	}
	missing, err := ParseHex(c.Palette.Missing)
	if err != nil {
		return goerr.Wrap(ErrInvalidConfig, "invalid missing colour", goerr.V("colour", c.Palette.Missing))
	}
	for at, hex := range c.Palette.Anchors {
		if at < 0 || at > 100 {
			return goerr.Wrap(ErrInvalidConfig, "palette anchor out of range", goerr.V("anchor", at))
		}
		col, err := ParseHex(hex)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid palette colour", goerr.V("anchor", at), goerr.V("colour", hex))
		}
		if col == missing {
			return goerr.Wrap(ErrInvalidConfig, "missing colour collides with a palette anchor",
				goerr.V("anchor", at), goerr.V("colour", hex))
		}
	}
	return nil
}

// ParseHex parses #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, goerr.New("colour is not #rrggbb", goerr.V("colour", s))
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, goerr.Wrap(err, "failed to parse colour", goerr.V("colour", s))
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
