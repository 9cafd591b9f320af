package ballot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

// DefaultLanguage is the language code of generated ballot styles.
const DefaultLanguage = "en"

// GenerateStyles derives the ballot styles of an election. Precincts and
// splits are grouped by district set; each group gets one style per
// distinct candidate ordering the strategy produces. In a primary, each
// group is further split by party.
//
// Style ids are "1_en", "2_en" and so on, in precinct order. Groups of one
// district set share a GroupID.
func GenerateStyles(e *election.Election, strategy rotation.Strategy) ([]election.BallotStyle, error) {
	type group struct {
		districtIDs []string
		precincts   []election.PrecinctOrSplit
	}
	var groups []*group
	byKey := make(map[string]*group)
	for _, ps := range e.PrecinctsOrSplits() {
		ids, ok := e.DistrictIDsFor(ps)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "precinct %s", ps)
		}
		if len(ids) == 0 {
			continue
		}
		sorted := slices.Sorted(slices.Values(ids))
		key := strings.Join(sorted, ",")
		g, ok := byKey[key]
		if !ok {
			g = &group{districtIDs: sorted}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.precincts = append(g.precincts, ps)
	}

	parties := primaryParties(e)
	var styles []election.BallotStyle
	for gi, g := range groups {
		for _, party := range parties {
			contests := e.ContestsForStyle(&election.BallotStyle{DistrictIDs: g.districtIDs, PartyID: party})
			if len(contests) == 0 {
				continue
			}
			orderings, err := rotation.ComputeOrderings(strategy, rotation.Input{
				Election:          e,
				Contests:          contests,
				PrecinctsOrSplits: g.precincts,
				DistrictIDs:       g.districtIDs,
			})
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "compute candidate orderings").
					With("districts", strings.Join(g.districtIDs, ","))
			}
			for _, o := range orderings {
				styles = append(styles, election.BallotStyle{
					ID:                         fmt.Sprintf("%d_%s", len(styles)+1, DefaultLanguage),
					GroupID:                    groupID(gi, party),
					DistrictIDs:                g.districtIDs,
					PrecinctsOrSplits:          o.PrecinctsOrSplits,
					PartyID:                    party,
					LanguageCode:               DefaultLanguage,
					OrderedCandidatesByContest: o.OrderedCandidatesByContest,
				})
			}
		}
	}
	return styles, nil
}

// primaryParties returns the parties with partisan contests, or a single
// empty party for a general election.
func primaryParties(e *election.Election) []string {
	var out []string
	for _, c := range e.Contests {
		if cc, ok := c.(*election.CandidateContest); ok && cc.PartyID != "" && !slices.Contains(out, cc.PartyID) {
			out = append(out, cc.PartyID)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func groupID(index int, party string) string {
	if party == "" {
		return fmt.Sprint(index + 1)
	}
	return fmt.Sprintf("%d-%s", index+1, party)
}
