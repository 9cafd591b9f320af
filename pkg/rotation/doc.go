// Package rotation computes the candidate order of every contest for each
// precinct or split.
//
// # Strategies
//
// A [Strategy] returns raw orderings. [Identity] keeps the declared order,
// [Statutory] sorts by last name and rotates each precinct to a start point
// chosen by a [StartRule], and [Alphabetical] starts each precinct's list at
// the precinct name's initial.
//
// The start rule is the jurisdiction-specific part of statutory rotation.
// [LetterRule] starts every precinct at one letter; [CycleOffsetRule] also
// advances one candidate per precinct. Other rules plug in through the
// interface.
//
// # Deduplication
//
// Every strategy runs through [ComputeOrderings], which merges orderings
// with identical candidate orders. Each merged ordering becomes one ballot
// style, so precincts that rotate identically share a style:
//
//	orderings, err := rotation.ComputeOrderings(rotation.NewStatutory(nil), rotation.Input{
//	    Election:          e,
//	    Contests:          e.ContestsIn(districts),
//	    PrecinctsOrSplits: precincts,
//	})
//
// Cross-endorsed candidates rotate as one block; their party lines stay
// adjacent in declared order.
package rotation
