// Package render defines the content tree handed to a layout engine and the
// narrow measurement contract that pagination and grid extraction depend on.
//
// # Overview
//
// Ballot templates build a tree of [Node] values: boxes with a [Style], text
// leaves, and metadata attached through data attributes. A measurement
// [Oracle] lays the tree out and reports, for every node matching a
// selector, its pixel bounding box and its data attributes:
//
//	ms, err := oracle.Measure(ctx, page, ".bubble")
//	for _, m := range ms {
//	    center := m.Center()
//	    contestID := m.Data["contest-id"]
//	}
//
// Any engine that lays out boxes and text satisfies the contract. The
// [native] subpackage is the built-in implementation.
//
// # Selectors
//
// Selectors are single compound selectors: a tag, an id (#content-slot), one
// or more classes (.timing-mark), or a combination (div.contest). Descendant
// combinators are not supported; ballot templates tag the nodes they need
// to find directly.
//
// # Capacity
//
// Oracles can be scarce. [NewPool] wraps an oracle and bounds the number of
// concurrent Measure calls, so independent ballot styles can be paginated
// in parallel without oversubscribing the engine.
//
// Units are CSS pixels at 96 per inch throughout; see [PixelsPerInch].
//
// [native]: github.com/matzehuels/ballotgrid/pkg/render/native
package render
