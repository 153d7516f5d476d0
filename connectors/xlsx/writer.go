package xlsx

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"iris-stats/domain/surveillance"
	"iris-stats/domain/value"
)

// Sheet is one worksheet. A nil cell is left blank.
type Sheet struct {
	Name string
	Rows [][]any
}

// Write saves sheets, in order, as a new workbook at path.
func Write(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return goerr.Wrap(err, "failed to name sheet", goerr.V("sheet", s.Name))
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return goerr.Wrap(err, "failed to add sheet", goerr.V("sheet", s.Name))
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return goerr.Wrap(err, "invalid cell position", goerr.V("row", r+1), goerr.V("col", c+1))
				}
				if err := f.SetCellValue(s.Name, cell, v); err != nil {
					return goerr.Wrap(err, "failed to set cell", goerr.V("sheet", s.Name), goerr.V("cell", cell))
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return goerr.Wrap(err, "failed to save workbook", goerr.V("path", path))
	}
	return nil
}

// Cell converts an optional value to a cell, nil when absent.
func Cell[T any](m value.Maybe[T]) any {
	v, ok := m.Get()
	if !ok {
		return nil
	}
	return v
}

// PivotSheet lays a pivot out as pandas does: one row per header level
// starting with the level name, then a row holding the index name, then
// the data rows.
func PivotSheet(name string, p *surveillance.Pivot) Sheet {
	s := Sheet{Name: name}
	for level, header := range p.Headers {
		row := []any{header}
		for _, col := range p.Columns {
			if col[level] == "" {
				row = append(row, nil)
				continue
			}
			row = append(row, col[level])
		}
		s.Rows = append(s.Rows, row)
	}
	s.Rows = append(s.Rows, []any{p.Index})
	for i, label := range p.Rows {
		row := []any{label}
		for j := range p.Columns {
			row = append(row, Cell(p.Cells[i][j]))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}
