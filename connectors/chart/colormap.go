// Package chart renders the publication figures with gonum/plot.
package chart

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"

	"iris-stats/domain/config"
	"iris-stats/domain/value"
)

type stop struct {
	at  float64
	col color.RGBA
}

// Colormap maps a 0..100 index onto a piecewise-linear palette. An absent
// index maps to the reserved missing colour.
type Colormap struct {
	stops   []stop
	missing color.RGBA
}

func NewColormap(anchors map[int]string, missing string) (*Colormap, error) {
	if len(anchors) < 2 {
		return nil, goerr.New("colormap needs at least two anchors", goerr.V("anchors", len(anchors)))
	}
	m, err := config.ParseHex(missing)
	if err != nil {
		return nil, err
	}
	cm := &Colormap{missing: m}
	for _, at := range lo.Keys(anchors) {
		col, err := config.ParseHex(anchors[at])
		if err != nil {
			return nil, err
		}
		cm.stops = append(cm.stops, stop{at: float64(at), col: col})
	}
	slices.SortFunc(cm.stops, func(a, b stop) int { return cmp.Compare(a.at, b.at) })
	return cm, nil
}

// At returns the colour of v, clamped to the palette range.
func (c *Colormap) At(v value.Maybe[float64]) color.RGBA {
	x, ok := v.Get()
	if !ok || math.IsNaN(x) {
		return c.missing
	}
	first, last := c.stops[0], c.stops[len(c.stops)-1]
	if x <= first.at {
		return first.col
	}
	if x >= last.at {
		return last.col
	}
	i, _ := slices.BinarySearchFunc(c.stops, x, func(s stop, x float64) int { return cmp.Compare(s.at, x) })
	hi := c.stops[i]
	if hi.at == x {
		return hi.col
	}
	low := c.stops[i-1]
	f := (x - low.at) / (hi.at - low.at)
	mix := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + f*(float64(b)-float64(a)))) }
	return color.RGBA{R: mix(low.col.R, hi.col.R), G: mix(low.col.G, hi.col.G), B: mix(low.col.B, hi.col.B), A: 0xff}
}

// Missing is the colour of an absent index.
func (c *Colormap) Missing() color.RGBA {
	return c.missing
}
