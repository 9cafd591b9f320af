package grid

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

// Measurements describes the timing-mark grid of one page. Origin is the
// center of the top-left mark; gaps are the distance between adjacent mark
// centers. Units are whatever the marks were measured in.
type Measurements struct {
	Origin     vec.Vec2
	ColumnGap  float64
	RowGap     float64
	NumColumns int
	NumRows    int
}

// GridToPixel converts grid units to a position on the page.
func (m Measurements) GridToPixel(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m.Origin.X + p.X*m.ColumnGap,
		Y: m.Origin.Y + p.Y*m.RowGap,
	}
}

// PixelToGrid converts a position on the page to grid units.
func (m Measurements) PixelToGrid(p vec.Vec2) vec.Vec2 {
	d := p.Sub(m.Origin)
	return vec.Vec2{X: d.X / m.ColumnGap, Y: d.Y / m.RowGap}
}

// Offset returns a copy with the origin moved by d.
func (m Measurements) Offset(d vec.Vec2) Measurements {
	m.Origin = m.Origin.Add(d)
	return m
}

// Measure derives the grid from the boxes of every timing mark on a page.
// Marks along the top edge give the columns, marks down the left edge the
// rows. Corner marks drawn by both edges are counted once.
func Measure(marks []render.Measurement) (Measurements, error) {
	if len(marks) == 0 {
		return Measurements{}, errors.New(errors.ErrCodeInvalidInput, "no timing marks found")
	}

	tol := math.Inf(1)
	centers := make([]vec.Vec2, len(marks))
	for i, m := range marks {
		centers[i] = m.Center()
		tol = min(tol, min(m.Width, m.Height)/2)
	}
	if tol <= 0 {
		return Measurements{}, errors.New(errors.ErrCodeInvalidInput, "timing mark with empty box")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for _, c := range centers {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
	}

	var topXs, leftYs []float64
	for _, c := range centers {
		if math.Abs(c.Y-minY) <= tol {
			topXs = append(topXs, c.X)
		}
		if math.Abs(c.X-minX) <= tol {
			leftYs = append(leftYs, c.Y)
		}
	}
	topXs = distinct(topXs, tol)
	leftYs = distinct(leftYs, tol)
	if len(topXs) < 2 || len(leftYs) < 2 {
		return Measurements{}, errors.New(errors.ErrCodeInvalidInput,
			"timing mark border incomplete: %d columns, %d rows", len(topXs), len(leftYs))
	}

	return Measurements{
		Origin:     vec.Vec2{X: topXs[0], Y: leftYs[0]},
		ColumnGap:  (topXs[len(topXs)-1] - topXs[0]) / float64(len(topXs)-1),
		RowGap:     (leftYs[len(leftYs)-1] - leftYs[0]) / float64(len(leftYs)-1),
		NumColumns: len(topXs),
		NumRows:    len(leftYs),
	}, nil
}

// distinct sorts vs and merges values closer than tol.
func distinct(vs []float64, tol float64) []float64 {
	slices.Sort(vs)
	var out []float64
	for _, v := range vs {
		if len(out) > 0 && v-out[len(out)-1] <= tol {
			continue
		}
		out = append(out, v)
	}
	return out
}
