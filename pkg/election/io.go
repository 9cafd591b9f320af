package election

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
)

// Read decodes and validates an election definition.
func Read(r io.Reader) (*Election, error) {
	var e Election
	dec := json.NewDecoder(r)
	if err := dec.Decode(&e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidElection, err, "decode election")
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// ReadFile reads an election definition from path.
func ReadFile(path string) (*Election, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open election: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes the election as indented JSON.
func Write(w io.Writer, e *Election) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteFile writes the election to path.
func WriteFile(path string, e *Election) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create election file: %w", err)
	}
	if err := Write(f, e); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadVotes decodes a vote set.
func ReadVotes(r io.Reader) (Votes, error) {
	var v Votes
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode votes")
	}
	return v, nil
}

func invalid(format string, args ...any) *errors.Error {
	return errors.New(errors.ErrCodeInvalidElection, format, args...)
}

// Validate checks that ids are well formed and unique and that every
// reference resolves.
func (e *Election) Validate() error {
	if e.PaperSize != "" {
		if _, err := grid.ParsePaperSize(string(e.PaperSize)); err != nil {
			return invalid("%v", err)
		}
	}

	seen := func(kind string) func(id string) error {
		ids := make(map[string]bool)
		return func(id string) error {
			if err := errors.ValidateID(kind, id); err != nil {
				return err
			}
			if ids[id] {
				return invalid("duplicate %s id %q", kind, id)
			}
			ids[id] = true
			return nil
		}
	}

	party := seen("party")
	for _, p := range e.Parties {
		if err := party(p.ID); err != nil {
			return err
		}
	}
	district := seen("district")
	for _, d := range e.Districts {
		if err := district(d.ID); err != nil {
			return err
		}
	}
	checkDistricts := func(ids []string, owner string) error {
		for _, id := range ids {
			if _, ok := e.District(id); !ok {
				return invalid("%s references unknown district %q", owner, id)
			}
		}
		return nil
	}

	precinct := seen("precinct")
	for _, p := range e.Precincts {
		if err := precinct(p.ID); err != nil {
			return err
		}
		if err := checkDistricts(p.DistrictIDs, "precinct "+p.ID); err != nil {
			return err
		}
		split := seen("split")
		for _, s := range p.Splits {
			if err := split(s.ID); err != nil {
				return err
			}
			if err := checkDistricts(s.DistrictIDs, "split "+s.ID); err != nil {
				return err
			}
		}
	}

	contest := seen("contest")
	for _, c := range e.Contests {
		if err := contest(c.ContestID()); err != nil {
			return err
		}
		if _, ok := e.District(c.ContestDistrictID()); !ok {
			return invalid("contest references unknown district %q", c.ContestDistrictID()).
				With("contest", c.ContestID())
		}
		err := MatchContest(c, e.validateCandidateContest, func(c *YesNoContest) error {
			if c.YesOption.ID == "" || c.NoOption.ID == "" || c.YesOption.ID == c.NoOption.ID {
				return invalid("yes/no contest needs two distinct option ids").With("contest", c.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	style := seen("ballot style")
	for _, s := range e.BallotStyles {
		if err := style(s.ID); err != nil {
			return err
		}
		if err := checkDistricts(s.DistrictIDs, "ballot style "+s.ID); err != nil {
			return err
		}
		for _, ps := range s.PrecinctsOrSplits {
			if _, ok := e.DistrictIDsFor(ps); !ok {
				return invalid("ballot style references unknown precinct %q", ps.String()).
					With("ballot_style", s.ID)
			}
		}
		for contestID, refs := range s.OrderedCandidatesByContest {
			c, ok := e.Contest(contestID)
			cc, isCandidate := c.(*CandidateContest)
			if !ok || !isCandidate {
				return invalid("ordering for unknown candidate contest %q", contestID).
					With("ballot_style", s.ID)
			}
			if len(refs) != len(cc.Candidates) {
				return invalid("ordering has %d candidates, contest has %d", len(refs), len(cc.Candidates)).
					With("ballot_style", s.ID).With("contest", contestID)
			}
			for _, ref := range refs {
				if _, ok := cc.Candidate(ref); !ok {
					return invalid("ordering references unknown candidate %q", ref.ID).
						With("ballot_style", s.ID).With("contest", contestID)
				}
			}
		}
	}

	for _, l := range e.GridLayouts {
		if _, ok := e.BallotStyle(l.BallotStyleID); !ok {
			return invalid("grid layout for unknown ballot style %q", l.BallotStyleID)
		}
	}
	return nil
}

func (e *Election) validateCandidateContest(c *CandidateContest) error {
	if c.Seats < 1 {
		return invalid("contest must have at least one seat").With("contest", c.ID)
	}
	var refs []CandidateRef
	for _, cand := range c.Candidates {
		if err := errors.ValidateID("candidate", cand.ID); err != nil {
			return err
		}
		for _, pid := range cand.PartyIDs {
			if _, ok := e.Party(pid); !ok {
				return invalid("candidate %q references unknown party %q", cand.ID, pid).With("contest", c.ID)
			}
		}
		ref := cand.Ref()
		if slices.ContainsFunc(refs, ref.SameCandidate) {
			return invalid("duplicate candidate %q with the same parties", cand.ID).With("contest", c.ID)
		}
		refs = append(refs, ref)
	}
	if c.PartyID != "" {
		if _, ok := e.Party(c.PartyID); !ok {
			return invalid("contest references unknown party %q", c.PartyID).With("contest", c.ID)
		}
	}
	return nil
}
