package chart

import (
	"image/color"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Formats are the file formats every figure is written in.
var Formats = []string{"png", "svg"}

const (
	panelWidth  = 4 * vg.Inch
	panelHeight = 3.5 * vg.Inch
)

var (
	black = color.RGBA{A: 0xff}
	red   = color.RGBA{R: 0xed, A: 0xff}
	navy  = color.RGBA{R: 0x01, G: 0x13, B: 0x52, A: 0xff}
	grey  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// yearDashes styles the study years in order: dotted, dashed, then solid.
var yearDashes = [][]vg.Length{
	{vg.Points(1), vg.Points(2)},
	{vg.Points(5), vg.Points(3)},
	nil,
}

func dashesFor(i, n int) []vg.Length {
	if i == n-1 || i >= len(yearDashes) {
		return nil
	}
	return yearDashes[i]
}

// wrap lays panels out row-major with cols columns, padding the last row
// with blank panels.
func wrap(panels []*plot.Plot, cols int) [][]*plot.Plot {
	if cols > len(panels) {
		cols = len(panels)
	}
	var rows [][]*plot.Plot
	for len(panels) > 0 {
		n := min(cols, len(panels))
		row := append([]*plot.Plot{}, panels[:n]...)
		for len(row) < cols {
			blank := plot.New()
			blank.HideAxes()
			row = append(row, blank)
		}
		rows = append(rows, row)
		panels = panels[n:]
	}
	return rows
}

// saveGrid renders the panel grid to base.png and base.svg.
func saveGrid(base string, grid [][]*plot.Plot) error {
	if len(grid) == 0 {
		return goerr.New("figure has no panels", goerr.V("path", base))
	}
	rows, cols := len(grid), len(grid[0])
	for _, format := range Formats {
		c, err := draw.NewFormattedCanvas(vg.Length(cols)*panelWidth, vg.Length(rows)*panelHeight, format)
		if err != nil {
			return goerr.Wrap(err, "failed to create canvas", goerr.V("format", format))
		}
		tiles := draw.Tiles{
			Rows: rows, Cols: cols,
			PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
			PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
			PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
		}
		canvases := plot.Align(grid, tiles, draw.New(c))
		for j := range grid {
			for i, p := range grid[j] {
				p.Draw(canvases[j][i])
			}
		}

		path := base + "." + format
		f, err := os.Create(path)
		if err != nil {
			return goerr.Wrap(err, "failed to create figure file", goerr.V("path", path))
		}
		if _, err := c.WriteTo(f); err != nil {
			f.Close()
			return goerr.Wrap(err, "failed to write figure", goerr.V("path", path))
		}
		if err := f.Close(); err != nil {
			return goerr.Wrap(err, "failed to close figure file", goerr.V("path", path))
		}
	}
	return nil
}

func line(xys plotter.XYs, col color.Color, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build line")
	}
	l.LineStyle.Color = col
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Dashes = dashes
	return l, nil
}

func vertical(x, ymin, ymax float64, col color.Color, dashes []vg.Length) (*plotter.Line, error) {
	l, err := line(plotter.XYs{{X: x, Y: ymin}, {X: x, Y: ymax}}, col, dashes)
	if l != nil {
		l.LineStyle.Width = vg.Points(1)
	}
	return l, err
}

func horizontal(y, xmin, xmax float64, col color.Color) (*plotter.Line, error) {
	l, err := line(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}}, col, nil)
	if l != nil {
		l.LineStyle.Width = vg.Points(1)
	}
	return l, err
}

// ceiling is the y-axis maximum for a panel whose largest value is v.
func ceiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.05
}
