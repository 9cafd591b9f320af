// Package native is a box and flow layout engine for ballot content trees.
//
// It implements [render.Oracle] without a browser: containers stack their
// children in a column or a row, Grow distributes leftover space, absolute
// children are placed at fixed offsets, and text leaves wrap at word
// boundaries using the Go fonts measured through golang.org/x/image.
//
//	eng := native.New()
//	box, err := eng.Layout(page)    // full box tree, used by the PDF sink
//	ms, err := eng.Measure(ctx, page, ".bubble")
//
// The engine is deterministic: the same tree always produces the same
// boxes, which is what lets grid layouts be compared across variants.
package native
