package election_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/election/electiontest"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
)

func TestRoundTrip(t *testing.T) {
	e := electiontest.Fixture()
	e.BallotStyles = []election.BallotStyle{{
		ID:                "1_en",
		DistrictIDs:       []string{"city"},
		PrecinctsOrSplits: []election.PrecinctOrSplit{{PrecinctID: "ashland"}},
	}}

	var buf bytes.Buffer
	if err := election.Write(&buf, e); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"type": "yesno"`) {
		t.Errorf("encoded contests missing type discriminator:\n%s", buf.String())
	}

	got, err := election.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(e, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadUnknownContestType(t *testing.T) {
	_, err := election.Read(strings.NewReader(`{"id":"x","contests":[{"type":"ranked","id":"c"}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidElection) {
		t.Errorf("error = %v, want INVALID_ELECTION", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *election.Election)
	}{
		{"duplicate district", func(e *election.Election) {
			e.Districts = append(e.Districts, e.Districts[0])
		}},
		{"unknown contest district", func(e *election.Election) {
			e.Contests[0].(*election.CandidateContest).DistrictID = "nowhere"
		}},
		{"unknown party", func(e *election.Election) {
			e.Contests[0].(*election.CandidateContest).Candidates[0].PartyIDs = []string{"tea"}
		}},
		{"zero seats", func(e *election.Election) {
			e.Contests[0].(*election.CandidateContest).Seats = 0
		}},
		{"duplicate cross-endorsement", func(e *election.Election) {
			c := e.Contests[1].(*election.CandidateContest)
			c.Candidates = append(c.Candidates, election.Candidate{ID: "alice-adams", PartyIDs: []string{"wf", "dem"}})
		}},
		{"yes/no same options", func(e *election.Election) {
			y := e.Contests[3].(*election.YesNoContest)
			y.NoOption.ID = y.YesOption.ID
		}},
		{"bad id", func(e *election.Election) {
			e.Precincts[0].ID = "has space"
		}},
		{"style with unknown precinct", func(e *election.Election) {
			e.BallotStyles = []election.BallotStyle{{
				ID:                "1_en",
				DistrictIDs:       []string{"city"},
				PrecinctsOrSplits: []election.PrecinctOrSplit{{PrecinctID: "bakersfield", SplitID: "east"}},
			}}
		}},
		{"ordering for unknown candidate", func(e *election.Election) {
			e.BallotStyles = []election.BallotStyle{{
				ID:          "1_en",
				DistrictIDs: []string{"city"},
				OrderedCandidatesByContest: map[string][]election.CandidateRef{
					"mayor": {{ID: "x"}, {ID: "y"}, {ID: "z"}},
				},
			}}
		}},
		{"paper size", func(e *election.Election) {
			e.PaperSize = "a4"
		}},
		{"grid layout for unknown style", func(e *election.Election) {
			e.GridLayouts = []grid.Layout{{BallotStyleID: "9_en"}}
		}},
	}

	if err := electiontest.Fixture().Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := electiontest.Fixture()
			tt.mutate(e)
			if err := e.Validate(); !errors.Is(err, errors.ErrCodeInvalidElection) {
				t.Errorf("Validate() = %v, want INVALID_ELECTION", err)
			}
		})
	}
}

func TestMatchContest(t *testing.T) {
	e := electiontest.Fixture()
	var kinds []string
	for _, c := range e.Contests {
		kinds = append(kinds, election.MatchContest(c,
			func(c *election.CandidateContest) string { return "candidate:" + c.ID },
			func(c *election.YesNoContest) string { return "yesno:" + c.ID },
		))
	}
	want := []string{"candidate:mayor", "candidate:council", "candidate:school-board", "yesno:prop-1"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("MatchContest mismatch (-want +got):\n%s", diff)
	}
}

func TestLookups(t *testing.T) {
	e := electiontest.Fixture()

	ids, ok := e.DistrictIDsFor(election.PrecinctOrSplit{PrecinctID: "bakersfield", SplitID: "north"})
	if !ok || !cmp.Equal(ids, []string{"city", "school"}) {
		t.Errorf("DistrictIDsFor(bakersfield/north) = %v, %v", ids, ok)
	}
	if name := e.PrecinctName(election.PrecinctOrSplit{PrecinctID: "bakersfield", SplitID: "south"}); name != "Bakersfield - South" {
		t.Errorf("PrecinctName = %q", name)
	}

	all := e.PrecinctsOrSplits()
	if len(all) != 4 {
		t.Errorf("PrecinctsOrSplits() returned %d entries, want 4", len(all))
	}

	contests := e.ContestsIn([]string{"school"})
	if len(contests) != 1 || contests[0].ContestID() != "school-board" {
		t.Errorf("ContestsIn(school) = %v", contests)
	}

	council, _ := e.Contest("council")
	cc := council.(*election.CandidateContest)
	style := &election.BallotStyle{ID: "1_en"}
	refs := e.OrderedCandidates(style, cc)
	if len(refs) != len(cc.Candidates) || refs[1].ID != "alice-adams" || refs[1].PartyIDs[0] != "rep" {
		t.Errorf("OrderedCandidates fallback = %v", refs)
	}
	cand, ok := cc.Candidate(election.CandidateRef{ID: "alice-adams", PartyIDs: []string{"wf", "dem"}})
	if !ok || cand.PartyIDs[0] != "dem" {
		t.Errorf("Candidate(alice wf+dem) = %v, %v", cand, ok)
	}
}

func TestSamePartySet(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{[]string{"a", "b"}, []string{"b", "a"}, true},
		{[]string{"a"}, []string{"a", "b"}, false},
		{[]string{"a"}, nil, false},
	}
	for _, tt := range tests {
		if got := election.SamePartySet(tt.a, tt.b); got != tt.want {
			t.Errorf("SamePartySet(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
