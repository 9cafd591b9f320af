package ballot

import (
	"image/color"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/paginate"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

// Font sizes in pixels.
const (
	fontTitle    = 20
	fontHeading  = 15
	fontBody     = 12
	fontSmall    = 10
	footerHeight = 28
)

var (
	black     = color.Black
	white     = color.White
	lightGray = color.Gray{Y: 0xe4}
)

// frame builds the page skeleton of one ballot variant. Everything that
// depends on the variant sits in fixed-height boxes so the content slot,
// and with it every bubble, is at the same place for all variants.
type frame struct {
	election *election.Election
	style    *election.BallotStyle
	variant  Variant
	paper    grid.PaperSize
}

// contentInset is the distance from the page edge to the content area.
func contentInset() render.Edges {
	const spacing = 8
	x := render.Inches(grid.MarginX+grid.TimingMarkWidth) + spacing
	y := render.Inches(grid.MarginY+grid.TimingMarkHeight) + spacing
	return render.Edges{Top: y, Right: x, Bottom: y, Left: x}
}

func (f frame) page(page int, slot *render.Node) *render.Node {
	w, h := f.paper.Dimensions()
	root := render.El("page", render.Style{
		Width:      render.Inches(w),
		Height:     render.Inches(h),
		Padding:    contentInset(),
		Gap:        8,
		FontSize:   fontBody,
		Background: white,
		Color:      black,
	})
	root.Append(timingMarks(f.paper)...)
	if page == 1 {
		root.Append(f.header(), instructions())
	}
	return root.Append(slot, f.footer(page))
}

// Frame returns page n with an empty content slot.
func (f frame) Frame(_ Props, page int) (*render.Node, error) {
	slot := render.El("div", render.Style{Grow: 1}).WithID(strings.TrimPrefix(paginate.SlotSelector, "#"))
	return f.page(page, slot), nil
}

// Blank returns the trailing page of a ballot with an odd page count.
func (f frame) Blank(page int) (*render.Node, error) {
	slot := render.El("div", render.Style{Grow: 1, Align: render.AlignCenter},
		render.Text("This page intentionally left blank", render.Style{FontSize: fontHeading, Bold: true, TextAlign: render.AlignCenter}),
	).WithClass("blank")
	return f.page(page, slot), nil
}

// timingMarks returns the border of the nominal grid. Each corner mark is
// drawn by both of its edges.
func timingMarks(paper grid.PaperSize) []*render.Node {
	m := paper.Measurements(render.PixelsPerInch)
	w := render.Inches(grid.TimingMarkWidth)
	h := render.Inches(grid.TimingMarkHeight)
	mark := func(col, row int) *render.Node {
		c := m.GridToPixel(vec.Vec2{X: float64(col), Y: float64(row)})
		return render.El("div", render.Style{
			Position:   render.Absolute,
			Left:       c.X - w/2,
			Top:        c.Y - h/2,
			Width:      w,
			Height:     h,
			Background: black,
		}).WithClass(strings.TrimPrefix(grid.TimingMarkSelector, "."))
	}

	marks := make([]*render.Node, 0, 2*(m.NumColumns+m.NumRows))
	for i := 0; i < m.NumColumns; i++ {
		marks = append(marks, mark(i, 0), mark(i, m.NumRows-1))
	}
	for j := 0; j < m.NumRows; j++ {
		marks = append(marks, mark(0, j), mark(m.NumColumns-1, j))
	}
	return marks
}

func (f frame) header() *render.Node {
	e := f.election
	fixed := func(height float64, n *render.Node) *render.Node {
		return render.El("div", render.Style{Height: height}, n)
	}
	return render.El("header", render.Style{Gap: 2, Padding: render.Uniform(4)},
		fixed(26, render.Text(modeTitle(f.variant.BallotMode), render.Style{FontSize: fontTitle, Bold: true})),
		render.Text(e.Title, render.Style{FontSize: fontHeading, Bold: true}),
		render.Text(formatDate(e.Date), render.Style{}),
		render.Text(jurisdiction(e), render.Style{}),
		fixed(16, render.Text(f.election.PrecinctName(f.variant.PrecinctOrSplit)+" - "+typeLabel(f.variant.BallotType),
			render.Style{FontSize: fontSmall})),
	).WithClass("ballot-header")
}

func instructions() *render.Node {
	return render.El("div", render.Style{Border: 1, Padding: render.Uniform(6), Gap: 2},
		render.Text("Instructions", render.Style{Bold: true}),
		render.Text("To vote, completely fill in the oval next to your choice.", render.Style{}),
		render.Text("To vote for a person whose name is not on the ballot, fill in the oval and write the name on the line.", render.Style{}),
	).WithClass("instructions")
}

func (f frame) footer(page int) *render.Node {
	return render.El("footer", render.Style{Direction: render.Row, Height: footerHeight, Align: render.AlignCenter, Gap: 4, FontSize: fontSmall},
		render.El("div", render.Style{Grow: 1},
			render.Text("Ballot Style "+f.style.ID, render.Style{}),
		),
		render.Text("Page "+strconv.Itoa(page)+" of", render.Style{}),
		render.Text("?", render.Style{}).WithClass(paginate.TotalPagesClass),
	).WithClass("ballot-footer")
}

func modeTitle(m election.BallotMode) string {
	switch m {
	case election.BallotModeTest:
		return "Test Ballot"
	case election.BallotModeSample:
		return "Sample Ballot"
	}
	return "Official Ballot"
}

func typeLabel(t election.BallotType) string {
	if t == election.BallotTypeAbsentee {
		return "Absentee"
	}
	return "Precinct"
}

func formatDate(s string) string {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return d.Format("January 2, 2006")
}

func jurisdiction(e *election.Election) string {
	switch {
	case e.County.Name == "":
		return e.State
	case e.State == "":
		return e.County.Name
	}
	return e.County.Name + ", " + e.State
}
