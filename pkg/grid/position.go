package grid

import "math"

// PositionType distinguishes printed options from write-in slots.
type PositionType string

const (
	TypeOption  PositionType = "option"
	TypeWriteIn PositionType = "write-in"
)

// Side is the face of a sheet.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// SheetSide returns the sheet number (1-based) and side of a page index.
func SheetSide(pageIndex int) (int, Side) {
	side := Front
	if pageIndex%2 == 1 {
		side = Back
	}
	return pageIndex/2 + 1, side
}

// PageIndex is the inverse of SheetSide.
func PageIndex(sheet int, side Side) int {
	idx := (sheet - 1) * 2
	if side == Back {
		idx++
	}
	return idx
}

// Rect is a rectangle in grid units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Outset extends a bubble position by grid units on each side.
type Outset struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Around returns the rectangle spanned by the outset around (column, row),
// rounded like grid coordinates.
func (o Outset) Around(column, row float64) Rect {
	return Rect{
		X:      roundGrid(column - o.Left),
		Y:      roundGrid(row - o.Top),
		Width:  roundGrid(o.Left + o.Right),
		Height: roundGrid(o.Top + o.Bottom),
	}
}

// DefaultOptionBounds is the area around a bubble that the scanner reads as
// belonging to the option.
var DefaultOptionBounds = Outset{Top: 1, Left: 1, Right: 9, Bottom: 1}

// DefaultWriteInArea is the area where a write-in name is written, to the
// right of its bubble.
var DefaultWriteInArea = Outset{Top: 0.8, Left: -1, Right: 9, Bottom: 0.4}

// Position locates one vote target. Column and Row are grid units.
type Position struct {
	Type         PositionType `json:"type"`
	SheetNumber  int          `json:"sheetNumber"`
	Side         Side         `json:"side"`
	Column       float64      `json:"column"`
	Row          float64      `json:"row"`
	ContestID    string       `json:"contestId"`
	OptionID     string       `json:"optionId,omitempty"`
	WriteInIndex *int         `json:"writeInIndex,omitempty"`
	WriteInArea  *Rect        `json:"writeInArea,omitempty"`
}

// PageIndex returns the zero-based page index of the position.
func (p Position) PageIndex() int {
	return PageIndex(p.SheetNumber, p.Side)
}

// Equal reports whether two positions are identical.
func (p Position) Equal(o Position) bool {
	if p.Type != o.Type || p.SheetNumber != o.SheetNumber || p.Side != o.Side ||
		p.Column != o.Column || p.Row != o.Row ||
		p.ContestID != o.ContestID || p.OptionID != o.OptionID {
		return false
	}
	if (p.WriteInIndex == nil) != (o.WriteInIndex == nil) ||
		p.WriteInIndex != nil && *p.WriteInIndex != *o.WriteInIndex {
		return false
	}
	if (p.WriteInArea == nil) != (o.WriteInArea == nil) ||
		p.WriteInArea != nil && *p.WriteInArea != *o.WriteInArea {
		return false
	}
	return true
}

// Layout is the persisted vote-position table of one ballot style. It is
// read by the scan interpreter; its JSON shape must stay stable.
type Layout struct {
	BallotStyleID              string     `json:"ballotStyleId"`
	OptionBoundsFromTargetMark Outset     `json:"optionBoundsFromTargetMark"`
	GridPositions              []Position `json:"gridPositions"`
}

// NumSheets returns the number of sheets referenced by the layout.
func (l Layout) NumSheets() int {
	n := 0
	for _, p := range l.GridPositions {
		n = max(n, p.SheetNumber)
	}
	return n
}

// gridPrecision is the number of decimal places kept for grid coordinates.
const gridPrecision = 1e4

func roundGrid(v float64) float64 {
	return math.Round(v*gridPrecision) / gridPrecision
}
