// Package marks draws the vote marks of test decks onto ballot pages.
//
// # Matching
//
// [MatchVotes] turns a set of votes into the grid positions of one ballot
// style. Cross-endorsed candidates appear once per party line; a vote names
// the candidate and the parties it was cast under, and the line with the
// same party set is marked.
//
// # Overlay
//
// [Generate] draws a filled pill, slightly larger than the printed bubble,
// at each matched position using the nominal timing-mark grid of the paper
// size in points. A [grid.Calibration] shifts the grid origin to correct
// for printer offsets. Write-in names are printed inside the write-in area
// and shrink once if they do not fit.
//
// Marks are drawn either on empty pages or on top of a base PDF, which must
// have exactly one page per sheet side of the ballot style, all of the
// election's paper size.
package marks
