package marks

import (
	"slices"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
)

// Mark is a vote target to fill. WriteInName is set for write-in votes.
type Mark struct {
	Position    grid.Position
	WriteInName string
}

// MatchVotes resolves votes to the grid positions of a ballot style.
//
// A cross-endorsed candidate has one bubble per party line, all with the
// candidate's id. The Nth bubble of a candidate id pairs with the Nth
// entry of that id in the style's candidate order, and a vote marks the
// bubble whose entry has the vote's party set. A vote without parties marks
// the candidate's first entry. The kth write-in vote of a contest marks
// write-in slot k.
//
// Votes for contests, candidates or options that are not on the style, and
// more write-ins than slots, are PRECONDITION_FAILED. Marks are returned
// in layout order.
func MatchVotes(e *election.Election, style *election.BallotStyle, layout *grid.Layout, votes election.Votes) ([]Mark, error) {
	fail := func(format string, args ...any) *errors.Error {
		return errors.New(errors.ErrCodePreconditionFailed, format, args...).With("ballot_style", style.ID)
	}

	byContest := make(map[string][]int)
	for i, p := range layout.GridPositions {
		byContest[p.ContestID] = append(byContest[p.ContestID], i)
	}

	marked := make(map[int]string)
	contestIDs := slices.Sorted(mapsKeys(votes))
	for _, cid := range contestIDs {
		c, ok := e.Contest(cid)
		if !ok {
			return nil, fail("vote for unknown contest").With("contest", cid)
		}
		positions := byContest[cid]
		if len(positions) == 0 {
			return nil, fail("contest is not on the ballot style").With("contest", cid)
		}

		var err *errors.Error
		switch c := c.(type) {
		case *election.CandidateContest:
			err = matchCandidates(e, style, c, layout, positions, votes[cid], marked)
		case *election.YesNoContest:
			err = matchOptions(layout, positions, votes[cid], marked)
		}
		if err != nil {
			return nil, err.With("ballot_style", style.ID).With("contest", cid)
		}
	}

	out := make([]Mark, 0, len(marked))
	for i, p := range layout.GridPositions {
		if name, ok := marked[i]; ok {
			out = append(out, Mark{Position: p, WriteInName: name})
		}
	}
	return out, nil
}

func matchCandidates(e *election.Election, style *election.BallotStyle, c *election.CandidateContest, layout *grid.Layout, positions []int, votes []election.Vote, marked map[int]string) *errors.Error {
	// Pair each option bubble with its ordered entry by occurrence.
	type target struct {
		ref election.CandidateRef
		pos int
	}
	refs := e.OrderedCandidates(style, c)
	seen := make(map[string]int)
	var targets []target
	writeIns := make(map[int]int)
	for _, i := range positions {
		p := layout.GridPositions[i]
		if p.Type == grid.TypeWriteIn {
			writeIns[*p.WriteInIndex] = i
			continue
		}
		n := seen[p.OptionID]
		seen[p.OptionID]++
		ref, ok := nthRef(refs, p.OptionID, n)
		if !ok {
			return errors.New(errors.ErrCodePreconditionFailed,
				"layout has %d bubbles for candidate %q, ordering has fewer entries", n+1, p.OptionID)
		}
		targets = append(targets, target{ref: ref, pos: i})
	}

	writeIn := 0
	for _, v := range votes {
		if v.WriteIn {
			i, ok := writeIns[writeIn]
			if !ok {
				return errors.New(errors.ErrCodePreconditionFailed, "too many write-in votes").
					With("write_in_index", writeIn)
			}
			marked[i] = v.Name
			writeIn++
			continue
		}
		found := false
		for _, t := range targets {
			if t.ref.ID != v.ID {
				continue
			}
			if v.PartyIDs == nil || election.SamePartySet(t.ref.PartyIDs, v.PartyIDs) {
				marked[t.pos] = ""
				found = true
				break
			}
		}
		if !found {
			return errors.New(errors.ErrCodePreconditionFailed, "vote for unknown candidate").
				With("option", v.ID).
				With("parties", v.PartyIDs)
		}
	}
	return nil
}

func matchOptions(layout *grid.Layout, positions []int, votes []election.Vote, marked map[int]string) *errors.Error {
	for _, v := range votes {
		i := slices.IndexFunc(positions, func(i int) bool { return layout.GridPositions[i].OptionID == v.ID })
		if i < 0 {
			return errors.New(errors.ErrCodePreconditionFailed, "vote for unknown option").With("option", v.ID)
		}
		marked[positions[i]] = ""
	}
	return nil
}

// nthRef returns the nth (zero-based) entry of refs with the given id.
func nthRef(refs []election.CandidateRef, id string, n int) (election.CandidateRef, bool) {
	for _, r := range refs {
		if r.ID != id {
			continue
		}
		if n == 0 {
			return r, true
		}
		n--
	}
	return election.CandidateRef{}, false
}

func mapsKeys(v election.Votes) func(func(string) bool) {
	return func(yield func(string) bool) {
		for k := range v {
			if !yield(k) {
				return
			}
		}
	}
}
