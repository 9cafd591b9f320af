package ballot

import (
	"strconv"
	"strings"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

const (
	contestClass = "contest"
	bubbleClass  = "bubble"
)

func bubble(contestID string) *render.Node {
	h := render.Inches(grid.BubbleHeight)
	return render.El("div", render.Style{
		Width:  render.Inches(grid.BubbleWidth),
		Height: h,
		Border: 1,
		Radius: h / 2,
	}).WithClass(bubbleClass).WithData(grid.DataContestID, contestID)
}

func optionRow(b *render.Node, label ...*render.Node) *render.Node {
	return render.El("div", render.Style{Direction: render.Row, Gap: 8},
		b,
		render.El("div", render.Style{Grow: 1, Gap: 1}, label...),
	).WithClass("option")
}

func contestBox(id string, children ...*render.Node) *render.Node {
	return render.El("div", render.Style{Border: 1, Gap: 6, Padding: render.Edges{Bottom: 6}}, children...).
		WithClass(contestClass).
		WithData(grid.DataContestID, id)
}

func contestTitle(title, subtitle string) *render.Node {
	n := render.El("div", render.Style{Background: lightGray, Padding: render.Uniform(6), Gap: 2},
		render.Text(title, render.Style{FontSize: fontHeading, Bold: true}))
	if subtitle != "" {
		n.Append(render.Text(subtitle, render.Style{FontSize: fontSmall}))
	}
	return n
}

// candidateContest returns the markup of a candidate contest with its
// candidates in the style's order followed by one write-in row per seat.
func candidateContest(e *election.Election, style *election.BallotStyle, c *election.CandidateContest) (*render.Node, error) {
	phrase, err := VoteForPhrase(c.Seats)
	if err != nil {
		if ee, ok := errors.As(err); ok {
			return nil, ee.With("contest", c.ID)
		}
		return nil, err
	}

	options := render.El("div", render.Style{Gap: 8, Padding: render.Edges{Left: 6, Right: 6}})
	for _, ref := range e.OrderedCandidates(style, c) {
		cand, ok := c.Candidate(ref)
		if !ok {
			return nil, errors.New(errors.ErrCodePreconditionFailed, "ordering names unknown candidate %q", ref.ID).
				With("contest", c.ID).
				With("ballot_style", style.ID)
		}
		label := []*render.Node{render.Text(cand.Name, render.Style{Bold: true})}
		if parties := partyNames(e, cand.PartyIDs); parties != "" {
			label = append(label, render.Text(parties, render.Style{FontSize: fontSmall}))
		}
		options.Append(optionRow(bubble(c.ID).WithData(grid.DataOptionID, cand.ID), label...))
	}
	if c.AllowWriteIns {
		for i := 0; i < c.Seats; i++ {
			options.Append(optionRow(
				bubble(c.ID).WithData(grid.DataWriteInIndex, strconv.Itoa(i)),
				render.El("div", render.Style{Height: render.Inches(grid.BubbleHeight)}),
				render.El("div", render.Style{Height: 1, Background: black}).WithClass("write-in-line"),
				render.Text("write-in", render.Style{FontSize: fontSmall}),
			))
		}
	}
	return contestBox(c.ID, contestTitle(c.Title, phrase), options), nil
}

// yesNoContest returns the markup of a ballot measure.
func yesNoContest(c *election.YesNoContest) *render.Node {
	body := render.El("div", render.Style{Gap: 8, Padding: render.Edges{Left: 6, Right: 6}})
	if c.Description != "" {
		body.Append(render.Text(c.Description, render.Style{}))
	}
	for _, o := range c.Options() {
		body.Append(optionRow(
			bubble(c.ID).WithData(grid.DataOptionID, o.ID),
			render.Text(o.Label, render.Style{Bold: true}),
		))
	}
	return contestBox(c.ID, contestTitle(c.Title, ""), body)
}

func contestNode(e *election.Election, style *election.BallotStyle, c election.Contest) (*render.Node, error) {
	type result struct {
		node *render.Node
		err  error
	}
	r := election.MatchContest(c,
		func(c *election.CandidateContest) result {
			n, err := candidateContest(e, style, c)
			return result{n, err}
		},
		func(c *election.YesNoContest) result { return result{yesNoContest(c), nil} },
	)
	return r.node, r.err
}

func sectionHeader(title string) *render.Node {
	return render.El("div", render.Style{Background: black, Color: white, Padding: render.Uniform(6)},
		render.Text(title, render.Style{FontSize: fontHeading, Bold: true}),
	).WithClass("section-header")
}

func districtHeader(name string) *render.Node {
	return render.El("div", render.Style{Padding: render.Edges{Top: 2, Bottom: 2}},
		render.Text(name, render.Style{Bold: true}),
	).WithClass("district-header")
}

func partyNames(e *election.Election, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.Party(id); ok {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}
