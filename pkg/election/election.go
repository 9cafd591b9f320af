package election

import (
	"slices"
	"strings"

	"github.com/matzehuels/ballotgrid/pkg/grid"
)

// Party is a political party.
type Party struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName,omitempty"`
	Abbrev   string `json:"abbrev,omitempty"`
}

// District is a geographic area that contests belong to.
type District struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PrecinctSplit is part of a precinct that votes in a different set of
// districts than the rest of it.
type PrecinctSplit struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DistrictIDs []string `json:"districtIds"`
}

// Precinct is a voting location. A precinct either has DistrictIDs or is
// divided into Splits.
type Precinct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DistrictIDs []string        `json:"districtIds,omitempty"`
	Splits      []PrecinctSplit `json:"splits,omitempty"`
}

// PrecinctOrSplit identifies a whole precinct (SplitID empty) or one split.
type PrecinctOrSplit struct {
	PrecinctID string `json:"precinctId"`
	SplitID    string `json:"splitId,omitempty"`
}

// String returns "precinct" or "precinct/split".
func (p PrecinctOrSplit) String() string {
	if p.SplitID == "" {
		return p.PrecinctID
	}
	return p.PrecinctID + "/" + p.SplitID
}

// CandidateRef is one entry of a candidate ordering.
type CandidateRef struct {
	ID       string   `json:"id"`
	PartyIDs []string `json:"partyIds,omitempty"`
}

// SameCandidate reports whether r and o name the same candidate with the
// same set of party affiliations, ignoring order.
func (r CandidateRef) SameCandidate(o CandidateRef) bool {
	return r.ID == o.ID && SamePartySet(r.PartyIDs, o.PartyIDs)
}

// SamePartySet reports whether a and b contain the same party ids.
func SamePartySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// BallotStyle is a distinct ballot: a set of districts, the precincts and
// splits that vote on it, and the candidate order for each contest.
type BallotStyle struct {
	ID                         string                    `json:"id"`
	GroupID                    string                    `json:"groupId,omitempty"`
	DistrictIDs                []string                  `json:"districtIds"`
	PrecinctsOrSplits          []PrecinctOrSplit         `json:"precinctsOrSplits"`
	PartyID                    string                    `json:"partyId,omitempty"`
	LanguageCode               string                    `json:"languageCode,omitempty"`
	OrderedCandidatesByContest map[string][]CandidateRef `json:"orderedCandidatesByContest,omitempty"`
}

// BallotType is the voting channel a ballot is printed for.
type BallotType string

const (
	BallotTypePrecinct BallotType = "precinct"
	BallotTypeAbsentee BallotType = "absentee"
)

// BallotMode controls the watermark and purpose of a printed ballot.
type BallotMode string

const (
	BallotModeOfficial BallotMode = "official"
	BallotModeTest     BallotMode = "test"
	BallotModeSample   BallotMode = "sample"
)

// Vote is one selection in a contest. For candidate contests ID is the
// candidate id (or empty for a write-in) and PartyIDs disambiguates a
// cross-endorsed candidate. For yes/no contests ID is the option id.
type Vote struct {
	ID       string   `json:"id,omitempty"`
	PartyIDs []string `json:"partyIds,omitempty"`
	WriteIn  bool     `json:"isWriteIn,omitempty"`
	Name     string   `json:"name,omitempty"`
}

// Votes maps contest ids to the selections in that contest.
type Votes map[string][]Vote

// County is the jurisdiction running the election.
type County struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Election is a complete election definition. GridLayouts is filled in by
// the ballot build and persisted alongside the definition.
type Election struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	State        string         `json:"state"`
	County       County         `json:"county"`
	Seal         string         `json:"seal,omitempty"`
	PaperSize    grid.PaperSize `json:"paperSize,omitempty"`
	Parties      []Party        `json:"parties"`
	Districts    []District     `json:"districts"`
	Precincts    []Precinct     `json:"precincts"`
	Contests     Contests       `json:"contests"`
	BallotStyles []BallotStyle  `json:"ballotStyles"`
	GridLayouts  []grid.Layout  `json:"gridLayouts,omitempty"`
}

// Paper returns the paper size, defaulting to letter.
func (e *Election) Paper() grid.PaperSize {
	if e.PaperSize == "" {
		return grid.Letter
	}
	return e.PaperSize
}

// Contest returns the contest with the given id.
func (e *Election) Contest(id string) (Contest, bool) {
	for _, c := range e.Contests {
		if c.ContestID() == id {
			return c, true
		}
	}
	return nil, false
}

// Party returns the party with the given id.
func (e *Election) Party(id string) (*Party, bool) {
	for i := range e.Parties {
		if e.Parties[i].ID == id {
			return &e.Parties[i], true
		}
	}
	return nil, false
}

// District returns the district with the given id.
func (e *Election) District(id string) (*District, bool) {
	for i := range e.Districts {
		if e.Districts[i].ID == id {
			return &e.Districts[i], true
		}
	}
	return nil, false
}

// Precinct returns the precinct with the given id.
func (e *Election) Precinct(id string) (*Precinct, bool) {
	for i := range e.Precincts {
		if e.Precincts[i].ID == id {
			return &e.Precincts[i], true
		}
	}
	return nil, false
}

// BallotStyle returns the ballot style with the given id.
func (e *Election) BallotStyle(id string) (*BallotStyle, bool) {
	for i := range e.BallotStyles {
		if e.BallotStyles[i].ID == id {
			return &e.BallotStyles[i], true
		}
	}
	return nil, false
}

// GridLayout returns the persisted vote-position table of a ballot style.
func (e *Election) GridLayout(ballotStyleID string) (*grid.Layout, bool) {
	for i := range e.GridLayouts {
		if e.GridLayouts[i].BallotStyleID == ballotStyleID {
			return &e.GridLayouts[i], true
		}
	}
	return nil, false
}

// ContestsIn returns the contests of the given districts in election order.
func (e *Election) ContestsIn(districtIDs []string) []Contest {
	var out []Contest
	for _, c := range e.Contests {
		if slices.Contains(districtIDs, c.ContestDistrictID()) {
			out = append(out, c)
		}
	}
	return out
}

// ContestsForStyle returns the contests that appear on a ballot style.
func (e *Election) ContestsForStyle(s *BallotStyle) []Contest {
	out := e.ContestsIn(s.DistrictIDs)
	if s.PartyID == "" {
		return out
	}
	return slices.DeleteFunc(out, func(c Contest) bool {
		cc, ok := c.(*CandidateContest)
		return ok && cc.PartyID != "" && cc.PartyID != s.PartyID
	})
}

// OrderedCandidates returns the candidate order of a contest on a ballot
// style, falling back to the declared order.
func (e *Election) OrderedCandidates(s *BallotStyle, c *CandidateContest) []CandidateRef {
	if refs, ok := s.OrderedCandidatesByContest[c.ID]; ok {
		return refs
	}
	refs := make([]CandidateRef, len(c.Candidates))
	for i, cand := range c.Candidates {
		refs[i] = cand.Ref()
	}
	return refs
}

// Candidate returns the candidate entry of c matching ref.
func (c *CandidateContest) Candidate(ref CandidateRef) (*Candidate, bool) {
	for i := range c.Candidates {
		if c.Candidates[i].Ref().SameCandidate(ref) {
			return &c.Candidates[i], true
		}
	}
	return nil, false
}

// DistrictIDsFor returns the districts of a precinct or split.
func (e *Election) DistrictIDsFor(ps PrecinctOrSplit) ([]string, bool) {
	p, ok := e.Precinct(ps.PrecinctID)
	if !ok {
		return nil, false
	}
	if ps.SplitID == "" {
		return p.DistrictIDs, true
	}
	for _, s := range p.Splits {
		if s.ID == ps.SplitID {
			return s.DistrictIDs, true
		}
	}
	return nil, false
}

// PrecinctName returns the display name of a precinct or split.
func (e *Election) PrecinctName(ps PrecinctOrSplit) string {
	p, ok := e.Precinct(ps.PrecinctID)
	if !ok {
		return ps.String()
	}
	if ps.SplitID == "" {
		return p.Name
	}
	for _, s := range p.Splits {
		if s.ID == ps.SplitID {
			return strings.TrimSpace(p.Name + " - " + s.Name)
		}
	}
	return p.Name
}

// PrecinctsOrSplits lists every whole precinct (when it has no splits) and
// every split, in election order.
func (e *Election) PrecinctsOrSplits() []PrecinctOrSplit {
	var out []PrecinctOrSplit
	for _, p := range e.Precincts {
		if len(p.Splits) == 0 {
			out = append(out, PrecinctOrSplit{PrecinctID: p.ID})
			continue
		}
		for _, s := range p.Splits {
			out = append(out, PrecinctOrSplit{PrecinctID: p.ID, SplitID: s.ID})
		}
	}
	return out
}
