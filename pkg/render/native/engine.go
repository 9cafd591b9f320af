package native

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ballotgrid/pkg/render"
)

const (
	// DefaultFontSize is the root font size in pixels.
	DefaultFontSize = 12.0
	// DefaultLineHeight is the line box height as a multiple of font size.
	DefaultLineHeight = 1.2
)

// Engine lays out content trees. An Engine is immutable after construction
// and safe for concurrent use; each layout pass owns its font faces.
type Engine struct {
	fontSize   float64
	lineHeight float64
	logger     *log.Logger
}

var _ render.Oracle = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithFontSize sets the root font size in pixels.
func WithFontSize(px float64) Option {
	return func(e *Engine) { e.fontSize = px }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(m float64) Option {
	return func(e *Engine) { e.lineHeight = m }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		fontSize:   DefaultFontSize,
		lineHeight: DefaultLineHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Layout lays out the tree rooted at root. The root is placed at the origin;
// its width is Style.Width or, when unset, its intrinsic width.
func (e *Engine) Layout(root *render.Node) (*Box, error) {
	if root == nil {
		return nil, fmt.Errorf("nil root")
	}
	l := &layouter{lineHeight: e.lineHeight, faces: newFaceSet()}
	defer l.faces.close()

	w := root.Style.Width
	if w <= 0 {
		var err error
		if w, err = l.intrinsicWidth(root, e.fontSize); err != nil {
			return nil, err
		}
	}
	return l.layout(root, 0, 0, w, 0, e.fontSize)
}

// Measure implements render.Oracle.
func (e *Engine) Measure(ctx context.Context, root *render.Node, selector string) ([]render.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel, err := render.ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	box, err := e.Layout(root)
	if err != nil {
		return nil, err
	}
	var out []render.Measurement
	box.Walk(func(b *Box) {
		if sel.Matches(b.Node) {
			out = append(out, b.Measurement())
		}
	})
	e.logger.Debug("measured", "selector", selector, "matches", len(out))
	return out, nil
}

type layouter struct {
	lineHeight float64
	faces      *faceSet
}

func alignOffset(a render.Align, avail, size float64) float64 {
	switch a {
	case render.AlignCenter:
		return (avail - size) / 2
	case render.AlignEnd:
		return avail - size
	}
	return 0
}

func inheritFontSize(n *render.Node, inherited float64) float64 {
	if n.Style.FontSize > 0 {
		return n.Style.FontSize
	}
	return inherited
}

// layout places n with its border box at (x, y) and the given width. A
// positive height forces the box height; otherwise Style.Height or the
// content height is used.
func (l *layouter) layout(n *render.Node, x, y, width, height, inheritedFS float64) (*Box, error) {
	st := n.Style
	fs := inheritFontSize(n, inheritedFS)
	b := &Box{Node: n, X: x, Y: y, Width: width, FontSize: fs, Bold: st.Bold}

	inset := st.Border
	ix := x + inset + st.Padding.Left
	iy := y + inset + st.Padding.Top
	iw := max(0, width-2*inset-st.Padding.Horizontal())

	fixedH := height
	if fixedH <= 0 {
		fixedH = st.Height
	}
	var ih float64
	if fixedH > 0 {
		ih = max(0, fixedH-2*inset-st.Padding.Vertical())
	}

	var (
		contentH float64
		err      error
	)
	children := make([]*Box, len(n.Children))
	switch {
	case n.IsText():
		b.Lines, contentH, err = l.text(n, ix, iy, iw, fs)
		children = nil
	case st.Direction == render.Row:
		contentH, err = l.row(n, children, ix, iy, iw, ih, fs)
	default:
		contentH, err = l.column(n, children, ix, iy, iw, ih, fs)
	}
	if err != nil {
		return nil, err
	}

	if fixedH > 0 {
		b.Height = fixedH
	} else {
		b.Height = contentH + 2*inset + st.Padding.Vertical()
	}

	for i, c := range children {
		if n.Children[i].Style.Position != render.Absolute {
			if c != nil {
				b.Children = append(b.Children, c)
			}
			continue
		}
		child := n.Children[i]
		w := child.Style.Width
		if w <= 0 {
			if w, err = l.intrinsicWidth(child, fs); err != nil {
				return nil, err
			}
		}
		cb, err := l.layout(child, x+child.Style.Left, y+child.Style.Top, w, 0, fs)
		if err != nil {
			return nil, err
		}
		b.Children = append(b.Children, cb)
	}
	return b, nil
}

func (l *layouter) text(n *render.Node, ix, iy, iw, fs float64) ([]Line, float64, error) {
	face, err := l.faces.face(fs, n.Style.Bold)
	if err != nil {
		return nil, 0, err
	}
	lh := fs * l.lineHeight
	m := face.Metrics()
	ascent, descent := toFloat(m.Ascent), toFloat(m.Descent)
	half := (lh - ascent - descent) / 2

	texts := wrapText(face, n.Text, iw)
	lines := make([]Line, len(texts))
	for i, s := range texts {
		w := measureString(face, s)
		lines[i] = Line{
			Text:     s,
			X:        ix + alignOffset(n.Style.TextAlign, iw, w),
			Baseline: iy + float64(i)*lh + half + ascent,
			Width:    w,
		}
	}
	return lines, float64(len(lines)) * lh, nil
}

// column stacks flow children top to bottom. Children with Grow share the
// space left over when the inner height is fixed.
func (l *layouter) column(n *render.Node, out []*Box, ix, iy, iw, ih, fs float64) (float64, error) {
	st := n.Style
	var (
		flow      []int
		total     float64
		totalGrow float64
	)
	for i, c := range n.Children {
		if c.Style.Position == render.Absolute {
			continue
		}
		w := iw
		if c.Style.Width > 0 {
			w = c.Style.Width
		}
		cb, err := l.layout(c, 0, 0, w, 0, fs)
		if err != nil {
			return 0, err
		}
		out[i] = cb
		flow = append(flow, i)
		total += cb.Height
		totalGrow += c.Style.Grow
	}
	if len(flow) > 1 {
		total += st.Gap * float64(len(flow)-1)
	}

	if ih > 0 && totalGrow > 0 && total < ih {
		extra := ih - total
		for _, i := range flow {
			c := n.Children[i]
			if c.Style.Grow <= 0 {
				continue
			}
			cb, err := l.layout(c, 0, 0, out[i].Width, out[i].Height+extra*c.Style.Grow/totalGrow, fs)
			if err != nil {
				return 0, err
			}
			out[i] = cb
		}
		total = ih
	}

	cy := iy
	for _, i := range flow {
		cb := out[i]
		cb.shift(ix+alignOffset(st.Align, iw, cb.Width), cy)
		cy += cb.Height + st.Gap
	}
	return total, nil
}

// row places flow children left to right. Fixed widths are honored, auto
// children take their intrinsic width and Grow children share the rest.
func (l *layouter) row(n *render.Node, out []*Box, ix, iy, iw, ih, fs float64) (float64, error) {
	st := n.Style
	var flow []int
	for i, c := range n.Children {
		if c.Style.Position != render.Absolute {
			flow = append(flow, i)
		}
	}
	if len(flow) == 0 {
		return 0, nil
	}

	widths := make(map[int]float64, len(flow))
	avail := iw - st.Gap*float64(len(flow)-1)
	var totalGrow float64
	for _, i := range flow {
		c := n.Children[i]
		if c.Style.Width > 0 {
			widths[i] = c.Style.Width
			avail -= c.Style.Width
		}
	}
	for _, i := range flow {
		c := n.Children[i]
		switch {
		case c.Style.Width > 0:
		case c.Style.Grow > 0:
			totalGrow += c.Style.Grow
		default:
			w, err := l.intrinsicWidth(c, fs)
			if err != nil {
				return 0, err
			}
			w = min(w, max(0, avail))
			widths[i] = w
			avail -= w
		}
	}
	for _, i := range flow {
		c := n.Children[i]
		if c.Style.Width <= 0 && c.Style.Grow > 0 {
			widths[i] = max(0, avail) * c.Style.Grow / totalGrow
		}
	}

	var rowH float64
	for _, i := range flow {
		cb, err := l.layout(n.Children[i], 0, 0, widths[i], 0, fs)
		if err != nil {
			return 0, err
		}
		out[i] = cb
		rowH = max(rowH, cb.Height)
	}

	crossH := max(rowH, ih)
	cx := ix
	for _, i := range flow {
		cb := out[i]
		cb.shift(cx, iy+alignOffset(st.Align, crossH, cb.Height))
		cx += widths[i] + st.Gap
	}
	return rowH, nil
}

// intrinsicWidth returns the width n needs to set its content without
// wrapping.
func (l *layouter) intrinsicWidth(n *render.Node, inheritedFS float64) (float64, error) {
	st := n.Style
	if st.Width > 0 {
		return st.Width, nil
	}
	fs := inheritFontSize(n, inheritedFS)
	pad := 2*st.Border + st.Padding.Horizontal()
	if n.IsText() {
		face, err := l.faces.face(fs, st.Bold)
		if err != nil {
			return 0, err
		}
		return maxLineWidth(face, n.Text) + pad, nil
	}
	var w float64
	count := 0
	for _, c := range n.Children {
		if c.Style.Position == render.Absolute {
			continue
		}
		cw, err := l.intrinsicWidth(c, fs)
		if err != nil {
			return 0, err
		}
		if st.Direction == render.Row {
			w += cw
		} else {
			w = max(w, cw)
		}
		count++
	}
	if st.Direction == render.Row && count > 1 {
		w += st.Gap * float64(count-1)
	}
	return w + pad, nil
}
