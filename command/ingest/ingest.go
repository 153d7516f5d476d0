// Package ingest loads the three input sources and reconciles their country
// vocabularies. It is shared by the run and coverage commands.
package ingest

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/samber/lo"

	"iris-stats/connectors/csv"
	"iris-stats/connectors/xlsx"
	"iris-stats/domain/config"
	"iris-stats/domain/mobility"
	"iris-stats/domain/policy"
	"iris-stats/domain/reconcile"
	"iris-stats/domain/surveillance"
)

// Inputs are the loaded sources. Isolates cover the full export, before the
// study window filter, with canonical countries and ISO weeks assigned.
// Policy records carry their subdivided country and ISO week. Mobility
// records are as loaded; aliasing happens on selection.
type Inputs struct {
	Isolates []surveillance.Observation
	Policy   *policy.Dataset
	Mobility *mobility.Dataset
}

func Load(ctx context.Context, cfg *config.Config, dir string) (*Inputs, error) {
	logger := ctxlog.From(ctx)

	var loaded []surveillance.Observation
	for _, in := range cfg.Inputs.Isolates {
		obs, err := xlsx.ReadIsolates(ctx, filepath.Join(dir, in.Path), in.Species)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, obs...)
	}
	loaded = surveillance.Reconcile(loaded, reconcile.Aliases(cfg.Reconcile.IsolateAliases))
	keyed, err := surveillance.AssignWeeks(loaded)
	if err != nil {
		return nil, err
	}
	logger.Info("ingest.isolates.done", "rows", len(keyed))

	pol, err := csv.ReadPolicy(ctx, filepath.Join(dir, cfg.Inputs.Policy))
	if err != nil {
		return nil, err
	}
	pol.Records = policy.Reconcile(cfg, pol.Records)

	mob, err := csv.ReadMobility(ctx, filepath.Join(dir, cfg.Inputs.Mobility))
	if err != nil {
		return nil, err
	}

	return &Inputs{Isolates: keyed, Policy: pol, Mobility: mob}, nil
}

// Coverage lists vocabulary gaps between the sources.
type Coverage struct {
	// PolicyGaps are isolate countries the policy tracker does not cover.
	PolicyGaps []string
	// MobilityGaps are tracked countries missing from the mobility report.
	MobilityGaps []string
}

// Coverage compares the isolate countries with the tracker and the tracked
// mobility countries with the report.
func (in *Inputs) Coverage(cfg *config.Config) Coverage {
	isolates := lo.Uniq(lo.Map(in.Isolates, func(o surveillance.Observation, _ int) string { return o.Country }))
	return Coverage{
		PolicyGaps:   reconcile.Missing(isolates, policy.Countries(in.Policy.Records)),
		MobilityGaps: reconcile.Missing(cfg.MobilityCountries, mobility.Countries(in.Mobility.Records, reconcile.Aliases(cfg.Reconcile.MobilityAliases))),
	}
}

// Warn logs every gap. Gaps never stop a run.
func (c Coverage) Warn(ctx context.Context) {
	logger := ctxlog.From(ctx)
	for _, country := range c.PolicyGaps {
		logger.Warn("reconcile.policy.uncovered", "country", country)
	}
	for _, country := range c.MobilityGaps {
		logger.Warn("reconcile.mobility.uncovered", "country", country)
	}
}
