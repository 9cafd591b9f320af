// Package columns packs measured elements into fixed-height columns.
//
// # Packing
//
// [Pack] preserves element order and never splits an element. Elements
// that do not fit are returned as leftovers for the next page. When all
// elements fit, every order-preserving packing is considered and the one
// with the shortest tallest column is kept:
//
//	res := columns.Pack(contests, 3, slotHeight, gap)
//	if len(res.Leftover) > 0 {
//	    // continue on the next page
//	}
//
// The search is exponential in the number of column breaks, which is
// bounded by the column count. A ballot page holds tens of contests, not
// thousands.
//
// # Sections
//
// [LayOutSectionsInColumns] adds headers. A section header is repeated at
// the top of every column holding the section's content, a subsection
// header only where its own children continue in a new column. Headers with
// nothing under them still take a slot. Leftover sections keep just the
// unplaced part of the tree.
package columns
