package render

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Measurement is the laid-out bounding box of one matched node, in pixels
// relative to the root's top-left corner, plus the node's data attributes.
type Measurement struct {
	X, Y          float64
	Width, Height float64
	Data          map[string]string
}

// Center returns the midpoint of the box.
func (m Measurement) Center() vec.Vec2 {
	return vec.Vec2{X: m.X + m.Width/2, Y: m.Y + m.Height/2}
}

// Rect returns the box as a rectangle (y grows downward).
func (m Measurement) Rect() rect.Rect {
	return rect.Rect{LLx: m.X, LLy: m.Y, URx: m.X + m.Width, URy: m.Y + m.Height}
}

// Oracle lays out a content tree and reports the boxes of the nodes that
// match a selector, in document order.
type Oracle interface {
	Measure(ctx context.Context, root *Node, selector string) ([]Measurement, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, root *Node, selector string) ([]Measurement, error)

// Measure calls f.
func (f OracleFunc) Measure(ctx context.Context, root *Node, selector string) ([]Measurement, error) {
	return f(ctx, root, selector)
}

// Pool bounds concurrent use of an Oracle.
type Pool struct {
	oracle Oracle
	sem    *semaphore.Weighted
}

// NewPool wraps oracle so that at most capacity Measure calls run at once.
// Capacity below 1 is treated as 1.
func NewPool(oracle Oracle, capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{oracle: oracle, sem: semaphore.NewWeighted(int64(capacity))}
}

// Measure waits for a free slot, then delegates to the wrapped oracle.
func (p *Pool) Measure(ctx context.Context, root *Node, selector string) ([]Measurement, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire oracle: %w", err)
	}
	defer p.sem.Release(1)
	return p.oracle.Measure(ctx, root, selector)
}

// MeasureOne measures selector and requires exactly one match.
func MeasureOne(ctx context.Context, o Oracle, root *Node, selector string) (Measurement, error) {
	ms, err := o.Measure(ctx, root, selector)
	if err != nil {
		return Measurement{}, err
	}
	if len(ms) != 1 {
		return Measurement{}, fmt.Errorf("selector %q matched %d nodes, want 1", selector, len(ms))
	}
	return ms[0], nil
}
