// Package xlsx reads the species isolate workbooks and writes the summary
// and figure data workbooks.
package xlsx

import (
	"context"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"iris-stats/connectors/table"
	"iris-stats/domain/isoweek"
	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

// Isolate workbook columns.
const (
	ColumnID           = "id"
	ColumnIsolate      = "isolate"
	ColumnAliases      = "aliases"
	ColumnCountry      = "country"
	ColumnContinent    = "continent"
	ColumnYear         = "year"
	ColumnDateSampled  = "date_sampled"
	ColumnISOYear      = "isoyear_sampled"
	ColumnWeek         = "week_sampled"
	ColumnDateReceived = "date_received"
	ColumnNonCulture   = "non_culture"
)

var requiredIsolateColumns = []string{ColumnID, ColumnIsolate, ColumnCountry, ColumnContinent, ColumnDateSampled}

// ReadIsolates loads the first sheet of an isolate export and tags every row
// with species.
func ReadIsolates(ctx context.Context, path, species string) ([]surveillance.Observation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open isolate workbook", goerr.V("path", path))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, goerr.Wrap(table.ErrMissingColumn, "isolate workbook has no sheets", goerr.V("path", path))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read isolate sheet", goerr.V("path", path), goerr.V("sheet", sheets[0]))
	}
	if len(rows) == 0 {
		return nil, goerr.Wrap(table.ErrMissingColumn, "isolate sheet has no header row", goerr.V("path", path))
	}

	idx := table.NewIndex(rows[0])
	if err := idx.Require(path, requiredIsolateColumns...); err != nil {
		return nil, err
	}

	out := make([]surveillance.Observation, 0, len(rows)-1)
	for n, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		line := n + 2
		o := surveillance.Observation{
			ID:         idx.Get(rec, ColumnID),
			Isolate:    idx.Get(rec, ColumnIsolate),
			Aliases:    idx.Get(rec, ColumnAliases),
			Species:    species,
			Country:    idx.Get(rec, ColumnCountry),
			Continent:  idx.Get(rec, ColumnContinent),
			Year:       idx.Get(rec, ColumnYear),
			NonCulture: idx.Get(rec, ColumnNonCulture),
		}
		if o.Sampled, err = cellDate(idx.Get(rec, ColumnDateSampled)); err != nil {
			return nil, goerr.Wrap(err, "invalid sample date", goerr.V("path", path), goerr.V("row", line), goerr.V("id", o.ID))
		}
		if o.Received, err = cellDate(idx.Get(rec, ColumnDateReceived)); err != nil {
			return nil, goerr.Wrap(err, "invalid received date", goerr.V("path", path), goerr.V("row", line), goerr.V("id", o.ID))
		}
		if o.Reported, err = reportedWeek(idx.Get(rec, ColumnISOYear), idx.Get(rec, ColumnWeek)); err != nil {
			return nil, goerr.Wrap(err, "invalid reported week", goerr.V("path", path), goerr.V("row", line), goerr.V("id", o.ID))
		}
		out = append(out, o)
	}

	ctxlog.From(ctx).Info("ingest.isolates.loaded", "path", path, "species", species, "rows", len(out))
	return out, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

// cellDate accepts either a textual date or a raw Excel serial. A blank
// cell yields the zero time.
func cellDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := table.ParseDate(s); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, goerr.Wrap(table.ErrInvalidValue, "not a date", goerr.V("value", s))
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, goerr.Wrap(table.ErrInvalidValue, "not a date serial", goerr.V("value", s))
	}
	return isoweek.Day(t.Round(time.Second)), nil
}

func reportedWeek(year, week string) (value.Maybe[isoweek.Key], error) {
	y, err := table.ParseInt(year)
	if err != nil {
		return value.None[isoweek.Key](), err
	}
	w, err := table.ParseInt(week)
	if err != nil {
		return value.None[isoweek.Key](), err
	}
	yv, yok := y.Get()
	wv, wok := w.Get()
	if !yok || !wok {
		return value.None[isoweek.Key](), nil
	}
	return value.Some(isoweek.Key{Year: yv, Week: wv}), nil
}
