// Package paginate splits content of unknown length into pages.
//
// Each iteration renders a page frame holding an empty content slot, asks a
// [render.Oracle] for the slot size, then asks the content generator to fill
// exactly that space. The generator returns what it placed and the props
// describing what is left:
//
//	pages, err := paginate.Paginate(ctx, oracle, paginate.Spec[Props]{
//	    Initial: props,
//	    Frame:   frame,
//	    Content: content,
//	})
//
// Pages are always produced in pairs; an odd count gets a blank page. A
// generator that cannot place anything on an empty page fails the run with
// LAYOUT_IMPOSSIBLE rather than looping.
package paginate
