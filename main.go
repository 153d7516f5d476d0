package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"iris-stats/command/coverage"
	"iris-stats/command/run"
	"iris-stats/connectors/logging"
)

// Reproduces the IRIS invasive bacterial surveillance analysis: isolate
// counts aligned onto the ISO week grid, joined to the government response
// tracker and the community mobility report.
// Usage:
//   iris-stats run -data ./data [-out .] [-config study.yml] [-skip-charts]
//   iris-stats coverage -data ./data
// ENV: IRIS_DATA, IRIS_OUT, CONFIG_PATH, IRIS_LOG_LEVEL, IRIS_LOG_FORMAT

func main() {
	var logOpts logging.Options

	app := &cli.Command{
		Name:  "iris-stats",
		Usage: "Invasive bacterial surveillance against pandemic response measures",
		Flags: logOpts.Flags(),
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			logger, err := logOpts.Configure(os.Stderr)
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			run.Command(),
			coverage.Command(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("iris-stats failed", "error", err)
		os.Exit(1)
	}
}
