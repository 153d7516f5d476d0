package coverage_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"iris-stats/command/coverage"
	"iris-stats/command/ingest"
	"iris-stats/command/ingest/ingesttest"
	"iris-stats/command/run"
	"iris-stats/domain/config"
	"iris-stats/domain/surveillance"
)

func TestBuild(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	in, err := ingest.Load(ctx, cfg, ingesttest.WriteDataDir(t, cfg))
	gt.NoError(t, err).Required()

	r := coverage.Build(cfg, in)
	gt.A(t, r.PolicyGaps).Equal([]string{"Canada"})
	gt.A(t, r.Countries).Equal([]string{"Belgium", "Brazil", "Canada", "Iceland", "Wales"})

	cases := []struct {
		pair surveillance.Pair
		want string
	}{
		{surveillance.Pair{Species: "S. pneumoniae", Country: "Belgium"}, "5"},
		{surveillance.Pair{Species: "S. pneumoniae", Country: "Canada"}, "0 (1)"},
		{surveillance.Pair{Species: "S. pneumoniae", Country: "Wales"}, "1"},
		{surveillance.Pair{Species: "N. meningitidis", Country: "Iceland"}, "0 [include]"},
		{surveillance.Pair{Species: "H. influenzae", Country: "Brazil"}, "-"},
	}
	for _, tc := range cases {
		t.Run(tc.pair.Species+"/"+tc.pair.Country, func(t *testing.T) {
			gt.V(t, r.Cell(tc.pair)).Equal(tc.want)
		})
	}

	gt.True(t, r.InScope(surveillance.Pair{Species: "S. pneumoniae", Country: "Canada"}))
	gt.False(t, r.InScope(surveillance.Pair{Species: "H. influenzae", Country: "Brazil"}))
}

func TestBuildExcluded(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	in, err := ingest.Load(ctx, cfg, ingesttest.WriteDataDir(t, cfg))
	gt.NoError(t, err).Required()

	cfg.Carveouts = append(cfg.Carveouts, config.Carveout{
		Species: "S. pneumoniae", Country: "Canada", Mode: config.ModeExclude,
	})
	r := coverage.Build(cfg, in)
	p := surveillance.Pair{Species: "S. pneumoniae", Country: "Canada"}
	gt.False(t, r.InScope(p))
	gt.V(t, r.Cell(p)).Equal("0 (1) [exclude]")
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	dir := ingesttest.WriteDataDir(t, cfg)
	before, err := os.ReadDir(dir)
	gt.NoError(t, err).Required()

	var buf bytes.Buffer
	gt.NoError(t, coverage.Run(context.Background(), run.Options{DataDir: dir}, &buf)).Required()

	out := buf.String()
	for _, want := range []string{"policy tracker", "mobility report", "S. agalactiae", "Iceland", "0 [include]"} {
		gt.S(t, out).Contains(want)
	}

	after, err := os.ReadDir(dir)
	gt.NoError(t, err).Required()
	gt.A(t, after).Length(len(before))
}

func TestRunMissingInput(t *testing.T) {
	var buf bytes.Buffer
	err := coverage.Run(context.Background(), run.Options{DataDir: t.TempDir()}, &buf)
	gt.Error(t, err)
	gt.V(t, buf.Len()).Equal(0)
}
