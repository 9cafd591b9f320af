package render

import "image/color"

// Direction is the main axis of a container.
type Direction int

const (
	// Column stacks children vertically (the default).
	Column Direction = iota
	// Row places children side by side.
	Row
)

// Align positions children (or text lines) on the cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Position selects normal flow or absolute placement.
type Position int

const (
	// Static nodes take part in their parent's flow.
	Static Position = iota
	// Absolute nodes are placed at Left/Top relative to the parent's
	// border box and do not affect the parent's size.
	Absolute
)

// Edges holds per-side lengths.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns edges of equal length on all sides.
func Uniform(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// Style holds the layout and paint properties of a node. All lengths are
// pixels. Zero values mean "auto" for sizes and "inherit" for FontSize.
type Style struct {
	Width, Height float64
	Padding       Edges
	Border        float64 // Uniform border width
	Radius        float64 // Corner radius for painted boxes
	Direction     Direction
	Gap           float64 // Space between flow children
	Grow          float64 // Share of leftover main-axis space
	Align         Align   // Cross-axis alignment of children
	Position      Position
	Left, Top     float64

	FontSize  float64
	Bold      bool
	TextAlign Align

	Background color.Color // nil: transparent
	Color      color.Color // Text and border color; nil: black
}
