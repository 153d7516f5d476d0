package csv

import (
	"context"
	"slices"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"

	"iris-stats/connectors/table"
	"iris-stats/domain/policy"
	"iris-stats/domain/value"
)

// ReadPolicy loads the government response tracker. Dates are YYYYMMDD.
func ReadPolicy(ctx context.Context, path string) (*policy.Dataset, error) {
	head, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	idx := table.NewIndex(head)
	required := append([]string{policy.ColumnCountry, policy.ColumnDate}, lo.Map(policy.Fields, func(f policy.Field, _ int) string { return f.Column })...)
	if err := idx.Require(path, required...); err != nil {
		return nil, err
	}

	ds := &policy.Dataset{Header: head, Records: make([]policy.Record, 0, len(rows))}
	for n, rec := range rows {
		line := n + 2
		date, err := table.ParseDate(idx.Get(rec, policy.ColumnDate))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid tracker date", goerr.V("path", path), goerr.V("row", line))
		}
		r := policy.Record{
			Country: idx.Get(rec, policy.ColumnCountry),
			Region:  idx.Get(rec, policy.ColumnRegion),
			Date:    date,
			Values:  make([]value.Maybe[float64], len(policy.Fields)),
			Raw:     rec,
		}
		for i, f := range policy.Fields {
			if r.Values[i], err = table.ParseFloat(idx.Get(rec, f.Column)); err != nil {
				return nil, goerr.Wrap(err, "invalid tracker value", goerr.V("path", path), goerr.V("row", line), goerr.V("column", f.Column))
			}
		}
		ds.Records = append(ds.Records, r)
	}

	ctxlog.From(ctx).Info("ingest.policy.loaded", "path", path, "rows", len(ds.Records))
	return ds, nil
}

// WritePolicy writes the selected tracker rows with their reconciled
// country, ISO date, and the week and year they join on.
func WritePolicy(path string, header []string, records []policy.Record) error {
	idx := table.NewIndex(header)
	country, hasCountry := idx.Position(policy.ColumnCountry)
	date, hasDate := idx.Position(policy.ColumnDate)

	return writeAll(path, append(slices.Clone(header), "week", "year"), func(write func([]string) error) error {
		for _, r := range records {
			row := make([]string, len(header))
			copy(row, r.Raw)
			if hasCountry {
				row[country] = r.Country
			}
			if hasDate {
				row[date] = formatDate(r.Date)
			}
			row = append(row, strconv.Itoa(r.Week.Week), strconv.Itoa(r.Week.Year))
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
