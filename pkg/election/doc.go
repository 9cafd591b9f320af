// Package election defines the election data model: parties, districts,
// precincts and their splits, contests, ballot styles and vote sets.
//
// # Contests
//
// A [Contest] is either a [*CandidateContest] or a [*YesNoContest]. The set
// is closed; code that needs to treat both kinds goes through
// [MatchContest], which takes one handler per kind:
//
//	title := election.MatchContest(c,
//	    func(c *election.CandidateContest) string { return c.Title },
//	    func(c *election.YesNoContest) string { return c.Title },
//	)
//
// In JSON, contests carry a "type" field of "candidate" or "yesno".
//
// # Cross-Endorsements
//
// A candidate running on several party lines appears once per line, with
// the same ID and a different PartyIDs set. [CandidateRef] is the identity
// used in orderings; two refs name the same entry when the id and the
// party set match.
//
// # Grid Layouts
//
// After a ballot build, the vote-position table of every ballot style is
// stored in [Election.GridLayouts]. Mark overlays and the scan interpreter
// read it from there.
package election
