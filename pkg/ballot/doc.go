// Package ballot builds the printable pages of a ballot style.
//
// [GenerateStyles] groups precincts by district set and turns each distinct
// candidate ordering into a ballot style. [RenderPages] lays out one
// [Variant] of a style: a page frame with the timing-mark border, a header
// on the first page and a footer on every page, and content slots filled
// with contests.
//
// # Content
//
// Candidate contests flow through a "Candidate Contests" section with one
// subsection per district, packed into [Options.Columns] columns. Ballot
// measures follow in their own columns once every candidate contest has
// been placed. Contests are never split across columns or pages.
//
// Every bubble carries its contest and option id (or write-in index) as
// data attributes, which is what grid extraction reads back.
//
// # Variants
//
// Precinct name, ballot type and ballot mode only change header text held
// in fixed-height boxes, so all variants of a style share one vote-position
// table.
package ballot
