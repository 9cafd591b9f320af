package native

import (
	"maps"

	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/ballotgrid/pkg/render"
)

// Box is a laid-out node. Coordinates are pixels from the root's top-left
// corner with y growing downward.
type Box struct {
	Node          *render.Node
	X, Y          float64
	Width, Height float64
	FontSize      float64
	Bold          bool
	Lines         []Line // Set for text leaves
	Children      []*Box
}

// Line is one wrapped line of a text leaf.
type Line struct {
	Text     string
	X        float64 // Left edge
	Baseline float64
	Width    float64
}

// Right returns the right edge of the box.
func (b *Box) Right() float64 { return b.X + b.Width }

// Bottom returns the bottom edge of the box.
func (b *Box) Bottom() float64 { return b.Y + b.Height }

// Center returns the midpoint of the box.
func (b *Box) Center() vec.Vec2 {
	return vec.Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Measurement converts the box to the oracle's measurement record.
func (b *Box) Measurement() render.Measurement {
	return render.Measurement{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Width,
		Height: b.Height,
		Data:   maps.Clone(b.Node.Data),
	}
}

// Walk visits the box tree in document order.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

func (b *Box) shift(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.Walk(func(c *Box) {
		c.X += dx
		c.Y += dy
		for i := range c.Lines {
			c.Lines[i].X += dx
			c.Lines[i].Baseline += dy
		}
	})
}
