// Package run executes the full analysis: ingest, align, join, and write
// every table, dataset, and figure.
package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"iris-stats/command/ingest"
	"iris-stats/connectors/chart"
	cfgloader "iris-stats/connectors/config"
	"iris-stats/connectors/csv"
	"iris-stats/connectors/output"
	"iris-stats/connectors/xlsx"
	"iris-stats/domain/config"
	"iris-stats/domain/mobility"
	"iris-stats/domain/policy"
	"iris-stats/domain/surveillance"
)

// Options are the run flags.
type Options struct {
	DataDir    string
	OutDir     string
	ConfigPath string
	SkipCharts bool
}

// Flags binds the input and config flags shared with the coverage command.
func (o *Options) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data",
			Usage:       "Directory holding the isolate workbooks, tracker and mobility report",
			Value:       ".",
			Sources:     cli.EnvVars("IRIS_DATA"),
			Destination: &o.DataDir,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "YAML file overriding the study configuration",
			Sources:     cli.EnvVars("CONFIG_PATH"),
			Destination: &o.ConfigPath,
		},
	}
}

func Command() *cli.Command {
	var opts Options
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full analysis and write all outputs",
		Flags: append(opts.Flags(),
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Parent directory of the timestamped output tree",
				Value:       ".",
				Sources:     cli.EnvVars("IRIS_OUT"),
				Destination: &opts.OutDir,
			},
			&cli.BoolFlag{
				Name:        "skip-charts",
				Usage:       "Write tables and datasets only",
				Destination: &opts.SkipCharts,
			},
		),
		Action: func(ctx context.Context, _ *cli.Command) error {
			_, err := Run(ctx, opts)
			return err
		},
	}
}

// Run executes the pipeline and returns the output tree. Outputs are written
// in pipeline order, so a failure leaves the earlier ones on disk.
func Run(ctx context.Context, opts Options) (*output.Layout, error) {
	logger := ctxlog.From(ctx).With(slog.String("run_id", uuid.NewString()))
	ctx = ctxlog.With(ctx, logger)

	cfg, err := cfgloader.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	in, err := ingest.Load(ctx, cfg, opts.DataDir)
	if err != nil {
		return nil, err
	}
	in.Coverage(cfg).Warn(ctx)

	layout, err := output.Create(opts.OutDir, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("output.created", "root", layout.Root)

	isolates := surveillance.InWindow(in.Isolates, cfg.Window())
	logger.Info("window.isolates", "kept", len(isolates), "dropped", len(in.Isolates)-len(isolates))

	if err := writeSummaries(layout, cfg, isolates); err != nil {
		return nil, err
	}

	scope := surveillance.BuildScope(cfg, in.Isolates)
	table, err := surveillance.Align(scope, isolates)
	if err != nil {
		return nil, err
	}
	logger.Info("align.done", "pairs", len(scope.Pairs), "rows", len(table.Rows), "isolates", table.Total())
	if table.Dropped > 0 {
		logger.Info("align.excluded", "isolates", table.Dropped, "pairs", len(scope.Excluded))
	}

	if err := figure1(layout, cfg, table, opts.SkipCharts); err != nil {
		return nil, err
	}
	if err := figure2(ctx, layout, cfg, in.Policy, scope, table, opts.SkipCharts); err != nil {
		return nil, err
	}
	if err := figure3(ctx, layout, cfg, in.Mobility, opts.SkipCharts); err != nil {
		return nil, err
	}

	logger.Info("run.done", "root", layout.Root)
	return layout, nil
}

func writeSummaries(layout *output.Layout, cfg *config.Config, isolates []surveillance.Observation) error {
	err := xlsx.Write(layout.SummaryBook(),
		xlsx.PivotSheet("lab_continent_breakdown", surveillance.LabContinentBreakdown(cfg, isolates)),
		xlsx.PivotSheet("country_breakdown", surveillance.CountryBreakdown(cfg, isolates)),
		xlsx.PivotSheet("country_time_breakdown", surveillance.CountryTimeBreakdown(cfg, isolates)),
	)
	if err != nil {
		return err
	}
	return csv.WriteIsolates(layout.IsolateDataset(), isolates)
}

func figure1(layout *output.Layout, cfg *config.Config, table *surveillance.Table, skipCharts bool) error {
	global := surveillance.Global(cfg, table)
	if err := xlsx.Write(layout.Figure1Data(), figure1Sheets(cfg, global)...); err != nil {
		return err
	}
	if skipCharts {
		return nil
	}
	return chart.Figure1(layout.Figure1Base(), cfg, global)
}

func figure2(ctx context.Context, layout *output.Layout, cfg *config.Config, ds *policy.Dataset, scope *surveillance.Scope, table *surveillance.Table, skipCharts bool) error {
	logger := ctxlog.From(ctx)

	countries := lo.Uniq(lo.Map(scope.Pairs, func(p surveillance.Pair, _ int) string { return p.Country }))
	selected := policy.Select(cfg, ds.Records, countries)
	if err := csv.WritePolicy(layout.PolicyDataset(), ds.Header, selected); err != nil {
		return err
	}

	joined := surveillance.Join(table, policy.WeeklyMeans(selected))
	logger.Info("join.done", "rows", len(joined.Rows), "missing", joined.Missing(), "missing_weeks", len(joined.MissingBuckets()))
	if err := csv.WriteJoined(layout.Figure2Data(), joined); err != nil {
		return err
	}
	if skipCharts {
		return nil
	}

	cmap, err := chart.NewColormap(cfg.Palette.Anchors, cfg.Palette.Missing)
	if err != nil {
		return err
	}
	for _, species := range cfg.Species {
		rows := joined.Species(species)
		if len(rows) == 0 {
			logger.Warn("figure_2.skipped", "species", species, "reason", "no participating countries")
			continue
		}
		if err := chart.Figure2(layout.Figure2Base(species), cfg, cmap, rows); err != nil {
			return err
		}
	}
	return nil
}

func figure3(ctx context.Context, layout *output.Layout, cfg *config.Config, ds *mobility.Dataset, skipCharts bool) error {
	selected := mobility.Select(cfg, ds.Records)
	ctxlog.From(ctx).Info("mobility.selected", "rows", len(selected))
	if err := csv.WriteMobility(layout.MobilityDataset(), ds.Header, selected); err != nil {
		return err
	}

	long := mobility.Long(selected, cfg.MobilityMetrics)
	if err := csv.WriteMobilityLong(layout.Figure3Data(), long); err != nil {
		return err
	}
	if skipCharts {
		return nil
	}
	return chart.Figure3(layout.Figure3Base(), cfg, long)
}
