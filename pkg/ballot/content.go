package ballot

import (
	"context"
	"slices"

	"github.com/matzehuels/ballotgrid/pkg/columns"
	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/paginate"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

// Props is the pagination state of a ballot: the contests not yet placed,
// in ballot order.
type Props struct {
	Remaining []string
}

func equalProps(a, b Props) bool { return slices.Equal(a.Remaining, b.Remaining) }

const measuredClass = "measured"

// element is a measured unit of ballot content. Headers have no contest.
type element struct {
	contestID string
	node      *render.Node
	height    float64
}

func (e element) Height() float64 { return e.height }

// generator fills content slots with contests. Candidate contests flow
// through district sections in Options.Columns columns; ballot measures
// follow in Options.MeasureColumns columns once every candidate contest
// is placed.
type generator struct {
	oracle   render.Oracle
	election *election.Election
	style    *election.BallotStyle
	opts     Options
	nodes    map[string]*render.Node
	heights  map[heightKey]float64
}

type heightKey struct {
	id    string
	width float64
}

func newGenerator(oracle render.Oracle, e *election.Election, style *election.BallotStyle, contests []election.Contest, opts Options) (*generator, error) {
	g := &generator{
		oracle:   oracle,
		election: e,
		style:    style,
		opts:     opts,
		nodes:    make(map[string]*render.Node, len(contests)),
		heights:  make(map[heightKey]float64),
	}
	for _, c := range contests {
		n, err := contestNode(e, style, c)
		if err != nil {
			if ee, ok := errors.As(err); ok {
				return nil, ee.With("ballot_style", style.ID)
			}
			return nil, err
		}
		g.nodes[c.ContestID()] = n
	}
	return g, nil
}

// Content implements the paginate content callback.
func (g *generator) Content(ctx context.Context, props Props, slot paginate.Dimensions, page int) (paginate.Page[Props], error) {
	body := render.El("div", render.Style{Gap: g.opts.Gap})
	if len(props.Remaining) == 0 {
		return paginate.Page[Props]{Content: body}, nil
	}

	var candidates, measures []election.Contest
	for _, id := range props.Remaining {
		c, ok := g.election.Contest(id)
		if !ok {
			return paginate.Page[Props]{}, errors.New(errors.ErrCodeNotFound, "contest %q", id)
		}
		if _, ok := c.(*election.YesNoContest); ok {
			measures = append(measures, c)
		} else {
			candidates = append(candidates, c)
		}
	}

	height := slot.Height
	placed := 0
	var next []string

	if len(candidates) > 0 {
		width := columnWidth(slot.Width, g.opts.Columns, g.opts.Gap)
		sections, err := g.candidateSections(ctx, candidates, width)
		if err != nil {
			return paginate.Page[Props]{}, err
		}
		res := columns.LayOutSectionsInColumns(sections, g.opts.Columns, height, g.opts.Gap)
		if n := countContests(res.Columns); n > 0 {
			placed += n
			body.Append(columnsRow(res.Columns, width, g.opts.Gap))
			height -= res.Height + g.opts.Gap
		}
		if len(res.Leftover) > 0 {
			next = leftoverIDs(res.Leftover)
			for _, c := range measures {
				next = append(next, c.ContestID())
			}
			measures = nil
		}
	}

	if len(measures) > 0 {
		leftover, n, err := g.placeMeasures(ctx, body, measures, slot.Width, height)
		if err != nil {
			return paginate.Page[Props]{}, err
		}
		placed += n
		next = append(next, leftover...)
	}

	g.opts.Logger.Debug("placed contests", "ballot_style", g.style.ID, "page", page, "contests", placed, "remaining", len(next))
	if placed == 0 {
		return paginate.Page[Props]{}, errors.New(errors.ErrCodeLayoutImpossible,
			"contest does not fit on an empty page").
			With("ballot_style", g.style.ID).
			With("contest", props.Remaining[0])
	}
	if len(next) == 0 {
		return paginate.Page[Props]{Content: body}, nil
	}
	return paginate.Page[Props]{Content: body, Next: &Props{Remaining: next}}, nil
}

// candidateSections groups candidate contests under a section header and
// one subsection per district, in ballot order.
func (g *generator) candidateSections(ctx context.Context, contests []election.Contest, width float64) ([]columns.Section[element], error) {
	banner := element{node: sectionHeader("Candidate Contests")}
	items := []*element{&banner}

	var subs []columns.Subsection[element]
	var districts []string
	for _, c := range contests {
		did := c.ContestDistrictID()
		if len(districts) == 0 || districts[len(districts)-1] != did {
			name := did
			if d, ok := g.election.District(did); ok {
				name = d.Name
			}
			h := &element{node: districtHeader(name)}
			districts = append(districts, did)
			subs = append(subs, columns.Subsection[element]{Header: h})
			items = append(items, h)
		}
		sub := &subs[len(subs)-1]
		sub.Children = append(sub.Children, element{contestID: c.ContestID(), node: g.nodes[c.ContestID()]})
	}

	// Subsection children are values; measure them in place.
	for i := range subs {
		for j := range subs[i].Children {
			items = append(items, &subs[i].Children[j])
		}
	}
	if err := g.measure(ctx, width, items); err != nil {
		return nil, err
	}
	return []columns.Section[element]{{Header: banner, Subsections: subs}}, nil
}

// placeMeasures packs ballot measures under a full-width header into the
// remaining height. It returns the ids left for the next page.
func (g *generator) placeMeasures(ctx context.Context, body *render.Node, measures []election.Contest, slotWidth, height float64) ([]string, int, error) {
	ids := make([]string, len(measures))
	for i, c := range measures {
		ids[i] = c.ContestID()
	}

	banner := element{node: sectionHeader("Ballot Measures")}
	if err := g.measure(ctx, slotWidth, []*element{&banner}); err != nil {
		return nil, 0, err
	}
	avail := height - banner.height - g.opts.Gap
	if avail <= 0 {
		return ids, 0, nil
	}

	width := columnWidth(slotWidth, g.opts.MeasureColumns, g.opts.Gap)
	elems := make([]element, len(measures))
	items := make([]*element, len(measures))
	for i, c := range measures {
		elems[i] = element{contestID: c.ContestID(), node: g.nodes[c.ContestID()]}
		items[i] = &elems[i]
	}
	if err := g.measure(ctx, width, items); err != nil {
		return nil, 0, err
	}

	res := columns.Pack(elems, g.opts.MeasureColumns, avail, g.opts.Gap)
	n := len(elems) - len(res.Leftover)
	if n == 0 {
		return ids, 0, nil
	}
	body.Append(banner.node.Clone(), columnsRow(res.Columns, width, g.opts.Gap))
	return ids[n:], n, nil
}

// measure sets the height of every item laid out at width, in one oracle
// call. Contest heights are cached per width.
func (g *generator) measure(ctx context.Context, width float64, items []*element) error {
	var pending []*element
	root := render.El("measure", render.Style{Width: width, FontSize: fontBody})
	for _, it := range items {
		if it.contestID != "" {
			if h, ok := g.heights[heightKey{it.contestID, width}]; ok {
				it.height = h
				continue
			}
		}
		pending = append(pending, it)
		root.Append(render.El("div", render.Style{Width: width}, it.node.Clone()).WithClass(measuredClass))
	}
	if len(pending) == 0 {
		return nil
	}

	ms, err := g.oracle.Measure(ctx, root, "."+measuredClass)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "measure contests").With("ballot_style", g.style.ID)
	}
	if len(ms) != len(pending) {
		return errors.New(errors.ErrCodeInternal, "measured %d elements, want %d", len(ms), len(pending))
	}
	for i, it := range pending {
		it.height = ms[i].Height
		if it.contestID != "" {
			g.heights[heightKey{it.contestID, width}] = it.height
		}
	}
	return nil
}

func columnWidth(total float64, n int, gap float64) float64 {
	return (total - gap*float64(n-1)) / float64(n)
}

func columnsRow(cols [][]element, width, gap float64) *render.Node {
	row := render.El("div", render.Style{Direction: render.Row, Gap: gap})
	for _, col := range cols {
		c := render.El("div", render.Style{Width: width, Gap: gap})
		for _, e := range col {
			c.Append(e.node.Clone())
		}
		row.Append(c)
	}
	return row
}

func countContests(cols [][]element) int {
	n := 0
	for _, col := range cols {
		for _, e := range col {
			if e.contestID != "" {
				n++
			}
		}
	}
	return n
}

func leftoverIDs(sections []columns.Section[element]) []string {
	var ids []string
	for _, s := range sections {
		for _, sub := range s.Subsections {
			for _, c := range sub.Children {
				ids = append(ids, c.contestID)
			}
		}
	}
	return ids
}
