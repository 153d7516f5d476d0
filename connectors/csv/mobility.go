package csv

import (
	"context"
	"slices"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"

	"iris-stats/connectors/table"
	"iris-stats/domain/mobility"
	"iris-stats/domain/value"
)

// ReadMobility loads the community mobility report.
func ReadMobility(ctx context.Context, path string) (*mobility.Dataset, error) {
	head, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	idx := table.NewIndex(head)
	required := append([]string{mobility.ColumnCountry, mobility.ColumnSubRegion1, mobility.ColumnDate}, lo.Map(mobility.Metrics, func(m mobility.Metric, _ int) string { return m.Column })...)
	if err := idx.Require(path, required...); err != nil {
		return nil, err
	}

	ds := &mobility.Dataset{Header: head, Records: make([]mobility.Record, 0, len(rows))}
	for n, rec := range rows {
		line := n + 2
		date, err := table.ParseDate(idx.Get(rec, mobility.ColumnDate))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid mobility date", goerr.V("path", path), goerr.V("row", line))
		}
		r := mobility.Record{
			CountryCode: idx.Get(rec, mobility.ColumnCountryCode),
			Country:     idx.Get(rec, mobility.ColumnCountry),
			SubRegion1:  idx.Get(rec, mobility.ColumnSubRegion1),
			SubRegion2:  idx.Get(rec, mobility.ColumnSubRegion2),
			Metro:       idx.Get(rec, mobility.ColumnMetro),
			Date:        date,
			Values:      make([]value.Maybe[float64], len(mobility.Metrics)),
			Raw:         rec,
		}
		for i, m := range mobility.Metrics {
			if r.Values[i], err = table.ParseFloat(idx.Get(rec, m.Column)); err != nil {
				return nil, goerr.Wrap(err, "invalid mobility value", goerr.V("path", path), goerr.V("row", line), goerr.V("column", m.Column))
			}
		}
		ds.Records = append(ds.Records, r)
	}

	ctxlog.From(ctx).Info("ingest.mobility.loaded", "path", path, "rows", len(ds.Records))
	return ds, nil
}

// WriteMobility writes the selected national rows with display metric names
// and the ISO week.
func WriteMobility(path string, header []string, records []mobility.Record) error {
	idx := table.NewIndex(header)
	country, hasCountry := idx.Position(mobility.ColumnCountry)
	date, hasDate := idx.Position(mobility.ColumnDate)

	return writeAll(path, append(mobility.DisplayHeader(header), "week"), func(write func([]string) error) error {
		for _, r := range records {
			row := make([]string, len(header))
			copy(row, r.Raw)
			if hasCountry {
				row[country] = r.Country
			}
			if hasDate {
				row[date] = formatDate(r.Date)
			}
			if err := write(append(row, strconv.Itoa(r.Week.Week))); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMobilityLong writes the melted series behind the mobility figure.
func WriteMobilityLong(path string, points []mobility.Point) error {
	header := []string{mobility.ColumnCountry, mobility.ColumnDate, "Metric", "Percent change"}
	return writeAll(path, slices.Clone(header), func(write func([]string) error) error {
		for _, p := range points {
			if err := write([]string{p.Country, formatDate(p.Date), p.Metric, value.FormatFloat(p.Value)}); err != nil {
				return err
			}
		}
		return nil
	})
}
