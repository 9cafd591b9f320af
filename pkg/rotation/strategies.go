package rotation

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/ballotgrid/pkg/election"
)

// Strategy names accepted by Parse.
const (
	NameIdentity     = "identity"
	NameStatutory    = "statutory"
	NameAlphabetical = "alphabetical"
)

// Identity keeps the declared candidate order for every precinct.
type Identity struct{}

func (Identity) Name() string { return NameIdentity }

// Orderings returns a single ordering covering all precincts.
func (Identity) Orderings(in Input) ([]Ordering, error) {
	order := make(map[string][]election.CandidateRef)
	for _, c := range candidateContests(in.Contests) {
		order[c.ID] = refs(c.Candidates)
	}
	return []Ordering{{
		OrderedCandidatesByContest: order,
		PrecinctsOrSplits:          slices.Clone(in.PrecinctsOrSplits),
	}}, nil
}

// StartRule decides where statutory rotation begins for a precinct: the
// first candidate whose name key sorts at or after Letter, advanced by
// Offset candidates.
type StartRule interface {
	Start(precinctIndex int, ps election.PrecinctOrSplit) (letter string, offset int)
}

// LetterRule starts every precinct at the same letter.
type LetterRule struct {
	Letter string
}

func (r LetterRule) Start(int, election.PrecinctOrSplit) (string, int) {
	return r.Letter, 0
}

// CycleOffsetRule starts at Letter and advances one candidate per precinct,
// beginning Cycle candidates in.
type CycleOffsetRule struct {
	Letter string
	Cycle  int
}

func (r CycleOffsetRule) Start(precinctIndex int, _ election.PrecinctOrSplit) (string, int) {
	return r.Letter, r.Cycle + precinctIndex
}

// Statutory sorts candidates by last name, then first name, and rotates
// each contest to the start point given by Rule.
type Statutory struct {
	Rule StartRule
}

// NewStatutory returns a statutory strategy. A nil rule starts at "A".
func NewStatutory(rule StartRule) *Statutory {
	if rule == nil {
		rule = LetterRule{Letter: "A"}
	}
	return &Statutory{Rule: rule}
}

func (*Statutory) Name() string { return NameStatutory }

// Orderings returns one ordering per precinct or split.
func (s *Statutory) Orderings(in Input) ([]Ordering, error) {
	col := collate.New(language.English, collate.IgnoreCase)
	contests := candidateContests(in.Contests)

	sorted := make(map[string][][]election.Candidate, len(contests))
	for _, c := range contests {
		cands := slices.Clone(c.Candidates)
		slices.SortStableFunc(cands, func(a, b election.Candidate) int {
			if d := col.CompareString(lastKey(a), lastKey(b)); d != 0 {
				return d
			}
			return col.CompareString(a.FirstName, b.FirstName)
		})
		sorted[c.ID] = blocks(cands)
	}

	out := make([]Ordering, 0, len(in.PrecinctsOrSplits))
	for i, ps := range in.PrecinctsOrSplits {
		letter, offset := s.Rule.Start(i, ps)
		order := make(map[string][]election.CandidateRef, len(contests))
		for _, c := range contests {
			bs := sorted[c.ID]
			start := SearchBoundary(bs, func(b []election.Candidate) bool {
				return col.CompareString(lastKey(b[0]), letter) >= 0
			})
			order[c.ID] = flatten(Rotate(bs, start+offset))
		}
		out = append(out, Ordering{
			OrderedCandidatesByContest: order,
			PrecinctsOrSplits:          []election.PrecinctOrSplit{ps},
		})
	}
	return out, nil
}

// lastKey is the last name, falling back to the first name and then the
// display name.
func lastKey(c election.Candidate) string {
	switch {
	case c.LastName != "":
		return c.LastName
	case c.FirstName != "":
		return c.FirstName
	}
	return c.Name
}

func flatten(bs [][]election.Candidate) []election.CandidateRef {
	var out []election.CandidateRef
	for _, b := range bs {
		out = append(out, refs(b)...)
	}
	return out
}

// Alphabetical sorts candidates by name and starts each precinct's list at
// the first name at or after the precinct name's initial. It produces
// visibly different ballots per precinct for test decks.
type Alphabetical struct{}

func (Alphabetical) Name() string { return NameAlphabetical }

// Orderings returns one ordering per precinct or split.
func (Alphabetical) Orderings(in Input) ([]Ordering, error) {
	if in.Election == nil {
		return nil, fmt.Errorf("precinct names require the election")
	}
	col := collate.New(language.English, collate.IgnoreCase)
	fold := cases.Fold()
	initial := func(s string) string {
		r, _ := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return ""
		}
		return fold.String(string(r))
	}

	contests := candidateContests(in.Contests)
	sorted := make(map[string][][]election.Candidate, len(contests))
	for _, c := range contests {
		cands := slices.Clone(c.Candidates)
		slices.SortStableFunc(cands, func(a, b election.Candidate) int {
			return col.CompareString(a.Name, b.Name)
		})
		sorted[c.ID] = blocks(cands)
	}

	out := make([]Ordering, 0, len(in.PrecinctsOrSplits))
	for _, ps := range in.PrecinctsOrSplits {
		letter := initial(in.Election.PrecinctName(ps))
		order := make(map[string][]election.CandidateRef, len(contests))
		for _, c := range contests {
			bs := sorted[c.ID]
			start := SearchBoundary(bs, func(b []election.Candidate) bool {
				return col.CompareString(initial(b[0].Name), letter) >= 0
			})
			order[c.ID] = flatten(Rotate(bs, start))
		}
		out = append(out, Ordering{
			OrderedCandidatesByContest: order,
			PrecinctsOrSplits:          []election.PrecinctOrSplit{ps},
		})
	}
	return out, nil
}

// Parse returns the strategy with the given name. The statutory strategy
// uses rule, or starts at "A" when rule is nil.
func Parse(name string, rule StartRule) (Strategy, error) {
	switch name {
	case "", NameIdentity:
		return Identity{}, nil
	case NameStatutory:
		return NewStatutory(rule), nil
	case NameAlphabetical:
		return Alphabetical{}, nil
	}
	return nil, fmt.Errorf("unknown rotation strategy %q", name)
}
