package chart_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"iris-stats/connectors/chart"
	"iris-stats/domain/config"
	"iris-stats/domain/mobility"
	"iris-stats/domain/policy"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

func TestColormap(t *testing.T) {
	cfg := config.Default()
	cm, err := chart.NewColormap(cfg.Palette.Anchors, cfg.Palette.Missing)
	gt.NoError(t, err).Required()

	t.Run("anchors map exactly", func(t *testing.T) {
		gt.Equal(t, cm.At(value.Some(0.0)), color.RGBA{R: 0xd6, G: 0xde, B: 0xbf, A: 0xff})
		gt.Equal(t, cm.At(value.Some(50.0)), color.RGBA{R: 0x54, G: 0x93, B: 0x8c, A: 0xff})
		gt.Equal(t, cm.At(value.Some(100.0)), color.RGBA{A: 0xff})
	})

	t.Run("between anchors interpolates", func(t *testing.T) {
		gt.Equal(t, cm.At(value.Some(5.0)), color.RGBA{R: 194, G: 214, B: 176, A: 0xff})
	})

	t.Run("out of range clamps", func(t *testing.T) {
		gt.Equal(t, cm.At(value.Some(-3.0)), cm.At(value.Some(0.0)))
		gt.Equal(t, cm.At(value.Some(120.0)), cm.At(value.Some(100.0)))
	})

	t.Run("absent index is the missing sentinel", func(t *testing.T) {
		gt.Equal(t, cm.At(value.None[float64]()), color.RGBA{R: 0xd9, G: 0xcd, B: 0xc3, A: 0xff})
		gt.Equal(t, cm.Missing(), cm.At(value.None[float64]()))
	})

	t.Run("no valid index collides with the sentinel", func(t *testing.T) {
		for v := 0.0; v <= 100; v += 0.5 {
			gt.True(t, cm.At(value.Some(v)) != cm.Missing())
		}
	})

	_, err = chart.NewColormap(map[int]string{0: "#000000"}, "#ffffff")
	gt.Error(t, err)
	_, err = chart.NewColormap(map[int]string{0: "#000000", 100: "nope"}, "#ffffff")
	gt.Error(t, err)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func table(t *testing.T, cfg *config.Config) *surveillance.Table {
	t.Helper()
	keyed, err := surveillance.AssignWeeks([]surveillance.Observation{
		{Species: "S. pneumoniae", Country: "Belgium", Sampled: day(2018, 2, 1)},
		{Species: "S. pneumoniae", Country: "Belgium", Sampled: day(2019, 2, 1)},
		{Species: "S. pneumoniae", Country: "Brazil", Sampled: day(2020, 2, 1)},
		{Species: "H. influenzae", Country: "Brazil", Sampled: day(2020, 3, 1)},
	})
	gt.NoError(t, err).Required()
	tbl, err := surveillance.Align(surveillance.BuildScope(cfg, keyed), keyed)
	gt.NoError(t, err).Required()
	return tbl
}

func assertWritten(t *testing.T, base string) {
	t.Helper()
	for _, format := range chart.Formats {
		st, err := os.Stat(base + "." + format)
		gt.NoError(t, err).Required()
		gt.True(t, st.Size() > 0)
	}
}

func TestFigure1(t *testing.T) {
	cfg := config.Default()
	base := filepath.Join(t.TempDir(), "figure_1")
	gt.NoError(t, chart.Figure1(base, cfg, surveillance.Global(cfg, table(t, cfg)))).Required()
	assertWritten(t, base)
}

func TestFigure2(t *testing.T) {
	cfg := config.Default()
	cm, err := chart.NewColormap(cfg.Palette.Anchors, cfg.Palette.Missing)
	gt.NoError(t, err).Required()

	w := policy.Weekly{Bucket: policy.Bucket{Country: "Brazil"}, Values: make([]value.Maybe[float64], len(policy.Fields))}
	w.Key.Year, w.Key.Week = 2020, 10
	w.Values[policy.Stringency] = value.Some(62.0)
	joined := surveillance.Join(table(t, cfg), map[policy.Bucket]policy.Weekly{w.Bucket: w})

	base := filepath.Join(t.TempDir(), "figure_2_Spneumoniae")
	gt.NoError(t, chart.Figure2(base, cfg, cm, joined.Species("S. pneumoniae"))).Required()
	assertWritten(t, base)
}

func TestFigure3(t *testing.T) {
	cfg := config.Default()
	var records []mobility.Record
	for d := 0; d < 30; d++ {
		r := mobility.Record{Country: "Belgium", Date: day(2020, 2, 15).AddDate(0, 0, d), Values: make([]value.Maybe[float64], len(mobility.Metrics))}
		r.Values[mobility.MetricIndex("Residential")] = value.Some(float64(d) / 2)
		if d%7 != 0 {
			r.Values[mobility.MetricIndex("Workplaces")] = value.Some(-float64(d))
		}
		records = append(records, r)
	}

	base := filepath.Join(t.TempDir(), "figure_3")
	gt.NoError(t, chart.Figure3(base, cfg, mobility.Long(records, cfg.MobilityMetrics))).Required()
	assertWritten(t, base)
}

func TestFigure3WithoutData(t *testing.T) {
	base := filepath.Join(t.TempDir(), "figure_3")
	gt.NoError(t, chart.Figure3(base, config.Default(), nil))
	_, err := os.Stat(base + ".png")
	gt.True(t, os.IsNotExist(err))
}
