// Package electiontest provides a small election definition for tests.
package electiontest

import "github.com/matzehuels/ballotgrid/pkg/election"

// Fixture returns a fresh election with two districts, three precincts
// (one of them split), three candidate contests and a ballot measure.
// The council contest has three cross-endorsed candidates.
func Fixture() *election.Election {
	return &election.Election{
		ID:     "general-2024",
		Title:  "General Election",
		Date:   "2024-11-05",
		State:  "State of Hamilton",
		County: election.County{ID: "franklin", Name: "Franklin County"},
		Parties: []election.Party{
			{ID: "dem", Name: "Democrat", FullName: "Democratic Party", Abbrev: "D"},
			{ID: "rep", Name: "Republican", FullName: "Republican Party", Abbrev: "R"},
			{ID: "wf", Name: "Working Families", FullName: "Working Families Party", Abbrev: "WF"},
		},
		Districts: []election.District{
			{ID: "city", Name: "City of Lincoln"},
			{ID: "school", Name: "Lincoln School District"},
		},
		Precincts: []election.Precinct{
			{ID: "ashland", Name: "Ashland", DistrictIDs: []string{"city"}},
			{
				ID:   "bakersfield",
				Name: "Bakersfield",
				Splits: []election.PrecinctSplit{
					{ID: "north", Name: "North", DistrictIDs: []string{"city", "school"}},
					{ID: "south", Name: "South", DistrictIDs: []string{"city"}},
				},
			},
			{ID: "zion", Name: "Zion", DistrictIDs: []string{"city", "school"}},
		},
		Contests: election.Contests{
			&election.CandidateContest{
				ID:            "mayor",
				DistrictID:    "city",
				Title:         "Mayor",
				Seats:         1,
				AllowWriteIns: true,
				Candidates: []election.Candidate{
					{ID: "martha-jones", Name: "Martha Jones", FirstName: "Martha", LastName: "Jones", PartyIDs: []string{"dem"}},
					{ID: "john-zorro", Name: "John Zorro", FirstName: "John", LastName: "Zorro", PartyIDs: []string{"rep"}},
					{ID: "larry-smith", Name: "Larry Smith", FirstName: "Larry", LastName: "Smith", PartyIDs: []string{"wf"}},
				},
			},
			&election.CandidateContest{
				ID:            "council",
				DistrictID:    "city",
				Title:         "City Council",
				Seats:         2,
				AllowWriteIns: true,
				Candidates: []election.Candidate{
					{ID: "alice-adams", Name: "Alice Adams", FirstName: "Alice", LastName: "Adams", PartyIDs: []string{"dem", "wf"}},
					{ID: "alice-adams", Name: "Alice Adams", FirstName: "Alice", LastName: "Adams", PartyIDs: []string{"rep"}},
					{ID: "bob-brown", Name: "Bob Brown", FirstName: "Bob", LastName: "Brown", PartyIDs: []string{"rep"}},
					{ID: "carol-cruz", Name: "Carol Cruz", FirstName: "Carol", LastName: "Cruz", PartyIDs: []string{"dem"}},
					{ID: "carol-cruz", Name: "Carol Cruz", FirstName: "Carol", LastName: "Cruz", PartyIDs: []string{"wf"}},
					{ID: "dave-diaz", Name: "Dave Diaz", FirstName: "Dave", LastName: "Diaz", PartyIDs: []string{"dem", "rep"}},
					{ID: "dave-diaz", Name: "Dave Diaz", FirstName: "Dave", LastName: "Diaz", PartyIDs: []string{"wf"}},
				},
			},
			&election.CandidateContest{
				ID:         "school-board",
				DistrictID: "school",
				Title:      "School Board",
				Seats:      1,
				Candidates: []election.Candidate{
					{ID: "erin-evans", Name: "Erin Evans", FirstName: "Erin", LastName: "Evans"},
					{ID: "frank-ford", Name: "Frank Ford", FirstName: "Frank", LastName: "Ford"},
				},
			},
			&election.YesNoContest{
				ID:          "prop-1",
				DistrictID:  "city",
				Title:       "Proposition 1",
				Description: "Shall the city issue bonds to repair the public library?",
				YesOption:   election.Option{ID: "prop-1-yes", Label: "Yes"},
				NoOption:    election.Option{ID: "prop-1-no", Label: "No"},
			},
		},
		BallotStyles: []election.BallotStyle{},
	}
}
