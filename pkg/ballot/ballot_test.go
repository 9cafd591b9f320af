package ballot

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/election/electiontest"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/render"
	"github.com/matzehuels/ballotgrid/pkg/render/native"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

func TestVoteForPhrase(t *testing.T) {
	tests := []struct {
		seats   int
		want    string
		wantErr bool
	}{
		{1, "Vote for 1", false},
		{2, "Vote for up to 2", false},
		{10, "Vote for up to 10", false},
		{0, "", true},
		{11, "", true},
		{-1, "", true},
	}
	for _, tt := range tests {
		got, err := VoteForPhrase(tt.seats)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeUnsupported) {
				t.Errorf("VoteForPhrase(%d) error = %v, want UNSUPPORTED", tt.seats, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("VoteForPhrase(%d) = %q, %v, want %q", tt.seats, got, err, tt.want)
		}
	}
}

func TestGenerateStyles(t *testing.T) {
	e := electiontest.Fixture()
	styles, err := GenerateStyles(e, rotation.Identity{})
	if err != nil {
		t.Fatalf("GenerateStyles: %v", err)
	}

	type summary struct {
		ID        string
		GroupID   string
		Districts []string
		Precincts []string
	}
	var got []summary
	for _, s := range styles {
		var ps []string
		for _, p := range s.PrecinctsOrSplits {
			ps = append(ps, p.String())
		}
		got = append(got, summary{s.ID, s.GroupID, s.DistrictIDs, ps})
	}
	want := []summary{
		{"1_en", "1", []string{"city"}, []string{"ashland", "bakersfield/south"}},
		{"2_en", "2", []string{"city", "school"}, []string{"bakersfield/north", "zion"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateStylesRotation(t *testing.T) {
	e := electiontest.Fixture()
	styles, err := GenerateStyles(e, rotation.NewStatutory(rotation.CycleOffsetRule{Letter: "A"}))
	if err != nil {
		t.Fatalf("GenerateStyles: %v", err)
	}
	// Each district group has two precincts that rotate differently.
	if len(styles) != 4 {
		t.Fatalf("got %d styles, want 4", len(styles))
	}
	for i, s := range styles {
		if want := fmt.Sprintf("%d_en", i+1); s.ID != want {
			t.Errorf("style %d id = %q, want %q", i, s.ID, want)
		}
		if len(s.PrecinctsOrSplits) != 1 {
			t.Errorf("style %s covers %d precincts, want 1", s.ID, len(s.PrecinctsOrSplits))
		}
	}
}

func TestGenerateStylesPrimary(t *testing.T) {
	e := electiontest.Fixture()
	e.Contests = append(e.Contests,
		&election.CandidateContest{ID: "gov-dem", DistrictID: "city", Title: "Governor", Seats: 1, PartyID: "dem",
			Candidates: []election.Candidate{{ID: "g1", Name: "G One"}}},
		&election.CandidateContest{ID: "gov-rep", DistrictID: "city", Title: "Governor", Seats: 1, PartyID: "rep",
			Candidates: []election.Candidate{{ID: "g2", Name: "G Two"}}},
	)
	styles, err := GenerateStyles(e, rotation.Identity{})
	if err != nil {
		t.Fatalf("GenerateStyles: %v", err)
	}
	if len(styles) != 4 {
		t.Fatalf("got %d styles, want 4", len(styles))
	}
	if styles[0].PartyID != "dem" || styles[1].PartyID != "rep" || styles[0].GroupID != "1-dem" {
		t.Errorf("unexpected primary styles: %+v", styles[:2])
	}
	for _, c := range e.ContestsForStyle(&styles[0]) {
		if c.ContestID() == "gov-rep" {
			t.Error("dem style contains the rep primary contest")
		}
	}
}

func TestVariants(t *testing.T) {
	style := &election.BallotStyle{PrecinctsOrSplits: []election.PrecinctOrSplit{{PrecinctID: "a"}, {PrecinctID: "b", SplitID: "s"}}}
	vs := Variants(style)
	if len(vs) != 2*len(BallotTypes)*len(BallotModes) {
		t.Fatalf("got %d variants", len(vs))
	}
	if got := vs[len(vs)-1].String(); got != "b_s-absentee-sample" {
		t.Errorf("last variant = %q", got)
	}
}

func styleOf(t *testing.T, e *election.Election, id string) *election.BallotStyle {
	t.Helper()
	styles, err := GenerateStyles(e, rotation.NewStatutory(nil))
	if err != nil {
		t.Fatalf("GenerateStyles: %v", err)
	}
	e.BallotStyles = styles
	s, ok := e.BallotStyle(id)
	if !ok {
		t.Fatalf("no style %s", id)
	}
	return s
}

func count(t *testing.T, pages []*render.Node, selector string) int {
	t.Helper()
	n := 0
	for _, p := range pages {
		nodes, err := render.Select(p, selector)
		if err != nil {
			t.Fatalf("Select(%q): %v", selector, err)
		}
		n += len(nodes)
	}
	return n
}

func TestRenderPages(t *testing.T) {
	e := electiontest.Fixture()
	style := styleOf(t, e, "2_en")
	v := Variants(style)[0]

	pages, err := RenderPages(context.Background(), native.New(), e, style, v, Options{})
	if err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	cols, rows := e.Paper().TimingMarkGrid()
	if got, want := count(t, pages[:1], ".timing-mark"), 2*(cols+rows); got != want {
		t.Errorf("page 1 has %d timing marks, want %d", got, want)
	}
	// mayor 3+1, council 7+2, school board 2, prop-1 2.
	if got := count(t, pages, ".bubble"); got != 17 {
		t.Errorf("got %d bubbles, want 17", got)
	}
	if got := count(t, pages, ".ballot-header"); got != 1 {
		t.Errorf("got %d headers, want 1 (page 1 only)", got)
	}
	for i, p := range pages {
		if total := render.Find(p, ".total-pages"); total == nil || total.Text != "2" {
			t.Errorf("page %d total pages = %v", i+1, total)
		}
	}
	if render.Find(pages[1], ".blank") == nil {
		t.Error("second page is not the blank page")
	}
}

func TestRenderPagesLayoutIsVariantIndependent(t *testing.T) {
	e := electiontest.Fixture()
	style := styleOf(t, e, "1_en")
	oracle := native.New()
	ctx := context.Background()

	var layouts []grid.Layout
	for _, v := range Variants(style) {
		pages, err := RenderPages(ctx, oracle, e, style, v, Options{})
		if err != nil {
			t.Fatalf("RenderPages(%s): %v", v, err)
		}
		l, err := grid.Extract(ctx, oracle, pages, style.ID)
		if err != nil {
			t.Fatalf("Extract(%s): %v", v, err)
		}
		layouts = append(layouts, l)
	}
	if err := grid.CheckConsistent(layouts...); err != nil {
		t.Fatalf("CheckConsistent: %v", err)
	}

	// Candidate bubbles follow the style's order, write-ins last.
	var mayor []string
	for _, p := range layouts[0].GridPositions {
		if p.ContestID != "mayor" {
			continue
		}
		if p.Type == grid.TypeWriteIn {
			mayor = append(mayor, fmt.Sprintf("write-in %d", *p.WriteInIndex))
			continue
		}
		mayor = append(mayor, p.OptionID)
	}
	want := []string{"martha-jones", "larry-smith", "john-zorro", "write-in 0"}
	if diff := cmp.Diff(want, mayor); diff != "" {
		t.Errorf("mayor positions mismatch (-want +got):\n%s", diff)
	}
}

func manyContests(e *election.Election, n int) {
	for i := 0; i < n; i++ {
		c := &election.CandidateContest{
			ID:         fmt.Sprintf("extra-%d", i),
			DistrictID: "city",
			Title:      fmt.Sprintf("Commissioner District %d", i+1),
			Seats:      1,
		}
		for j := 0; j < 6; j++ {
			c.Candidates = append(c.Candidates, election.Candidate{
				ID:   fmt.Sprintf("extra-%d-%d", i, j),
				Name: fmt.Sprintf("Candidate %c%d", 'A'+j, i),
			})
		}
		e.Contests = append(e.Contests, c)
	}
}

func TestRenderPagesMultiplePages(t *testing.T) {
	e := electiontest.Fixture()
	manyContests(e, 24)
	style := styleOf(t, e, "1_en")
	ctx := context.Background()
	oracle := native.New()

	pages, err := RenderPages(ctx, oracle, e, style, Variants(style)[0], Options{})
	if err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	if len(pages) < 2 || len(pages)%2 != 0 {
		t.Fatalf("got %d pages, want an even count of at least 2", len(pages))
	}
	// Every contest is placed exactly once.
	contests := e.ContestsForStyle(style)
	if got := count(t, pages, ".contest"); got != len(contests) {
		t.Errorf("placed %d contests, want %d", got, len(contests))
	}
	// The candidate section header starts every page that holds candidate
	// contests.
	if got := count(t, pages[1:2], ".section-header"); got == 0 {
		t.Error("page 2 has no section header")
	}

	l, err := grid.Extract(ctx, oracle, pages, style.ID)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if l.NumSheets() < 1 {
		t.Errorf("layout spans %d sheets", l.NumSheets())
	}
	var back bool
	for _, p := range l.GridPositions {
		back = back || p.Side == grid.Back
	}
	if !back {
		t.Error("no vote positions on the back of a sheet")
	}
}

func TestRenderPagesUnsupportedSeats(t *testing.T) {
	e := electiontest.Fixture()
	style := styleOf(t, e, "1_en")
	council, _ := e.Contest("council")
	council.(*election.CandidateContest).Seats = MaxSeats + 1

	_, err := RenderPages(context.Background(), native.New(), e, style, Variants(style)[0], Options{})
	ee, ok := errors.As(err)
	if !ok || ee.Code != errors.ErrCodeUnsupported {
		t.Fatalf("error = %v, want UNSUPPORTED", err)
	}
	if c, _ := ee.Field("contest"); c != "council" {
		t.Errorf("contest field = %v, want council", c)
	}
}

func TestRenderPagesContestTooTall(t *testing.T) {
	e := electiontest.Fixture()
	huge := &election.CandidateContest{ID: "huge", DistrictID: "city", Title: "Everyone", Seats: 1}
	for i := 0; i < 120; i++ {
		huge.Candidates = append(huge.Candidates, election.Candidate{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Candidate %d", i)})
	}
	e.Contests = append(e.Contests, huge)
	style := styleOf(t, e, "1_en")

	_, err := RenderPages(context.Background(), native.New(), e, style, Variants(style)[0], Options{})
	ee, ok := errors.As(err)
	if !ok || ee.Code != errors.ErrCodeLayoutImpossible {
		t.Fatalf("error = %v, want LAYOUT_IMPOSSIBLE", err)
	}
	if c, _ := ee.Field("contest"); c != "huge" {
		t.Errorf("contest field = %v, want huge", c)
	}
	if s, _ := ee.Field("ballot_style"); s != "1_en" {
		t.Errorf("ballot_style field = %v, want 1_en", s)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if o.Columns != DefaultColumns || o.MeasureColumns != DefaultMeasureColumns || o.Gap != DefaultGap || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}
	bad := Options{Columns: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative columns: %v", err)
	}
}
