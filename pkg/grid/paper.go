package grid

import (
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// Physical constants of the timing-mark border, in inches.
const (
	TimingMarkWidth  = 0.1875
	TimingMarkHeight = 0.0625
	MarginX          = 0.19685 // 5mm
	MarginY          = 0.16667 // 1/6in
	BubbleWidth      = 0.2
	BubbleHeight     = 0.13
)

// PaperSize names a supported ballot paper size.
type PaperSize string

const (
	Letter   PaperSize = "letter"
	Legal    PaperSize = "legal"
	Custom17 PaperSize = "custom-8.5x17"
	Custom18 PaperSize = "custom-8.5x18"
	Custom21 PaperSize = "custom-8.5x21"
	Custom22 PaperSize = "custom-8.5x22"
)

var paperHeights = map[PaperSize]float64{
	Letter:   11,
	Legal:    14,
	Custom17: 17,
	Custom18: 18,
	Custom21: 21,
	Custom22: 22,
}

// PaperSizes lists the supported sizes, shortest first.
var PaperSizes = []PaperSize{Letter, Legal, Custom17, Custom18, Custom21, Custom22}

// ParsePaperSize validates s as a paper size. The empty string is letter.
func ParsePaperSize(s string) (PaperSize, error) {
	if s == "" {
		return Letter, nil
	}
	p := PaperSize(s)
	if _, ok := paperHeights[p]; !ok {
		return "", fmt.Errorf("unknown paper size %q", s)
	}
	return p, nil
}

// Dimensions returns the width and height in inches.
func (p PaperSize) Dimensions() (width, height float64) {
	h, ok := paperHeights[p]
	if !ok {
		h = paperHeights[Letter]
	}
	return 8.5, h
}

// TimingMarkGrid returns the number of timing marks along the top edge and
// down the left edge.
func (p PaperSize) TimingMarkGrid() (columns, rows int) {
	w, h := p.Dimensions()
	return int(w * 4), int(h*4) - 3
}

// Measurements returns the nominal grid for the paper size in the given
// unit (96 for pixels, 72 for points).
func (p PaperSize) Measurements(unitsPerInch float64) Measurements {
	w, h := p.Dimensions()
	cols, rows := p.TimingMarkGrid()
	origin := vec.Vec2{
		X: (MarginX + TimingMarkWidth/2) * unitsPerInch,
		Y: (MarginY + TimingMarkHeight/2) * unitsPerInch,
	}
	gridW := (w - 2*MarginX - TimingMarkWidth) * unitsPerInch
	gridH := (h - 2*MarginY - TimingMarkHeight) * unitsPerInch
	return Measurements{
		Origin:     origin,
		ColumnGap:  gridW / float64(cols-1),
		RowGap:     gridH / float64(rows-1),
		NumColumns: cols,
		NumRows:    rows,
	}
}

// Calibration is a per-printer correction of the grid origin, in
// millimeters. It is supplied when marks are drawn and never persisted.
type Calibration struct {
	OffsetMmX float64 `json:"offsetMmX" toml:"offset_mm_x"`
	OffsetMmY float64 `json:"offsetMmY" toml:"offset_mm_y"`
}

// Points returns the offset in PDF points.
func (c Calibration) Points() vec.Vec2 {
	return vec.Vec2{X: c.OffsetMmX * 72 / 25.4, Y: c.OffsetMmY * 72 / 25.4}
}

// PointGeometry returns the grid of a paper size in PDF points with the
// calibration applied once to the origin.
func PointGeometry(p PaperSize, c Calibration) Measurements {
	return p.Measurements(72).Offset(c.Points())
}
