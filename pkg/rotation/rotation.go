package rotation

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/matzehuels/ballotgrid/pkg/election"
)

// Ordering is the candidate order of every candidate contest, shared by a
// list of precincts and splits.
type Ordering struct {
	OrderedCandidatesByContest map[string][]election.CandidateRef `json:"orderedCandidatesByContest"`
	PrecinctsOrSplits          []election.PrecinctOrSplit         `json:"precinctsOrSplits"`
}

// Input is what a strategy orders: the contests on a ballot and the
// precincts and splits that vote on it.
type Input struct {
	Election          *election.Election
	Contests          []election.Contest
	PrecinctsOrSplits []election.PrecinctOrSplit
	// DistrictIDs restricts Contests to these districts when non-nil.
	DistrictIDs []string
}

// Strategy computes candidate orderings. Strategies may return one
// ordering per precinct; [ComputeOrderings] merges identical ones.
type Strategy interface {
	Name() string
	Orderings(in Input) ([]Ordering, error)
}

// ComputeOrderings runs the strategy and deduplicates its result.
func ComputeOrderings(s Strategy, in Input) ([]Ordering, error) {
	if in.DistrictIDs != nil {
		in.Contests = slices.DeleteFunc(slices.Clone(in.Contests), func(c election.Contest) bool {
			return !slices.Contains(in.DistrictIDs, c.ContestDistrictID())
		})
	}
	orderings, err := s.Orderings(in)
	if err != nil {
		return nil, fmt.Errorf("%s rotation: %w", s.Name(), err)
	}
	return Deduplicate(orderings), nil
}

// Deduplicate merges orderings whose candidate orders are identical. The
// merged ordering lists every precinct or split of its group once, in
// first-seen order. Groups keep the order of their first member.
func Deduplicate(orderings []Ordering) []Ordering {
	var out []Ordering
	index := make(map[string]int)
	for _, o := range orderings {
		key := orderingKey(o.OrderedCandidatesByContest)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Ordering{OrderedCandidatesByContest: o.OrderedCandidatesByContest})
		}
		for _, ps := range o.PrecinctsOrSplits {
			if !slices.Contains(out[i].PrecinctsOrSplits, ps) {
				out[i].PrecinctsOrSplits = append(out[i].PrecinctsOrSplits, ps)
			}
		}
	}
	return out
}

// orderingKey encodes candidate orders canonically. JSON sorts map keys and
// keeps slice order, so equal keys mean order-sensitive equality.
func orderingKey(m map[string][]election.CandidateRef) string {
	data, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("encode ordering: %v", err))
	}
	return string(data)
}

// SearchBoundary returns the first index at which pred becomes true in
// items, where pred is false for a prefix of items and true for the rest.
// It returns len(items) when pred is never true.
func SearchBoundary[T any](items []T, pred func(T) bool) int {
	return sort.Search(len(items), func(i int) bool { return pred(items[i]) })
}

// Rotate returns items cyclically shifted so that items[start] comes first.
func Rotate[T any](items []T, start int) []T {
	n := len(items)
	if n == 0 {
		return nil
	}
	start = ((start % n) + n) % n
	out := make([]T, 0, n)
	out = append(out, items[start:]...)
	return append(out, items[:start]...)
}

// candidateContests returns the candidate contests among cs.
func candidateContests(cs []election.Contest) []*election.CandidateContest {
	var out []*election.CandidateContest
	for _, c := range cs {
		if cc := election.MatchContest(c,
			func(c *election.CandidateContest) *election.CandidateContest { return c },
			func(*election.YesNoContest) *election.CandidateContest { return nil },
		); cc != nil {
			out = append(out, cc)
		}
	}
	return out
}

func refs(cands []election.Candidate) []election.CandidateRef {
	out := make([]election.CandidateRef, len(cands))
	for i, c := range cands {
		out[i] = c.Ref()
	}
	return out
}

// blocks groups adjacent entries of the same candidate so that rotation
// never separates the party lines of a cross-endorsed candidate.
func blocks(cands []election.Candidate) [][]election.Candidate {
	var out [][]election.Candidate
	for i, c := range cands {
		if i > 0 && cands[i-1].ID == c.ID {
			out[len(out)-1] = append(out[len(out)-1], c)
			continue
		}
		out = append(out, []election.Candidate{c})
	}
	return out
}
