package sink

import (
	"image/color"
	"math"
)

// Path is the subset of the fpdf path API used to draw shapes.
type Path interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y float64)
	ClosePath()
	DrawPath(styleStr string)
}

// kappa is the control-point offset, relative to the radius, of a cubic
// Bezier approximating a quarter circle.
var kappa = 4 * (math.Sqrt2 - 1) / 3

// RoundedRect draws a rectangle with corners of radius r, clamped to half
// the shorter side. Straight edges of zero length are skipped, so a radius
// of h/2 gives a pill of two lines and four quarter circles. style is an
// fpdf paint style: "F", "D" or "FD".
func RoundedRect(p Path, x, y, w, h, r float64, style string) {
	r = max(0, min(r, w/2, h/2))
	k := r * kappa
	right, bottom := x+w, y+h

	p.MoveTo(x+r, y)
	if w > 2*r {
		p.LineTo(right-r, y)
	}
	p.CurveBezierCubicTo(right-r+k, y, right, y+r-k, right, y+r)
	if h > 2*r {
		p.LineTo(right, bottom-r)
	}
	p.CurveBezierCubicTo(right, bottom-r+k, right-r+k, bottom, right-r, bottom)
	if w > 2*r {
		p.LineTo(x+r, bottom)
	}
	p.CurveBezierCubicTo(x+r-k, bottom, x, bottom-r+k, x, bottom-r)
	if h > 2*r {
		p.LineTo(x, y+r)
	}
	p.CurveBezierCubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.ClosePath()
	p.DrawPath(style)
}

// RGB returns the 8-bit components of c.
func RGB(c color.Color) (r, g, b int) {
	cr, cg, cb, _ := c.RGBA()
	return int(cr >> 8), int(cg >> 8), int(cb >> 8)
}
