package native

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/ballotgrid/pkg/render"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestColumnStacking(t *testing.T) {
	root := render.El("div", render.Style{Width: 100, Gap: 5, Padding: render.Uniform(10)},
		render.El("div", render.Style{Height: 20}).WithID("a"),
		render.El("div", render.Style{Height: 30}).WithID("b"),
	)

	box, err := New().Layout(root)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !approx(box.Height, 10+20+5+30+10) {
		t.Errorf("root height = %v, want 75", box.Height)
	}
	a, b := box.Children[0], box.Children[1]
	if !approx(a.X, 10) || !approx(a.Y, 10) || !approx(a.Width, 80) {
		t.Errorf("a = (%v,%v,w=%v), want (10,10,w=80)", a.X, a.Y, a.Width)
	}
	if !approx(b.Y, 35) {
		t.Errorf("b.Y = %v, want 35", b.Y)
	}
}

func TestRowGrow(t *testing.T) {
	root := render.El("div", render.Style{Width: 210, Direction: render.Row, Gap: 10},
		render.El("div", render.Style{Grow: 1, Height: 5}),
		render.El("div", render.Style{Width: 50, Height: 10}),
		render.El("div", render.Style{Grow: 1, Height: 5}),
	)

	box, err := New().Layout(root)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	wantX := []float64{0, 80, 140}
	wantW := []float64{70, 50, 70}
	for i, c := range box.Children {
		if !approx(c.X, wantX[i]) || !approx(c.Width, wantW[i]) {
			t.Errorf("child %d = (x=%v, w=%v), want (x=%v, w=%v)", i, c.X, c.Width, wantX[i], wantW[i])
		}
	}
	if !approx(box.Height, 10) {
		t.Errorf("row height = %v, want 10", box.Height)
	}
}

func TestRowAlignCenter(t *testing.T) {
	root := render.El("div", render.Style{Width: 100, Direction: render.Row, Align: render.AlignCenter},
		render.El("div", render.Style{Width: 10, Height: 4}),
		render.El("div", render.Style{Width: 10, Height: 20}),
	)
	box, err := New().Layout(root)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := box.Children[0].Y; !approx(got, 8) {
		t.Errorf("small child Y = %v, want 8", got)
	}
}

func TestColumnGrowFillsFixedHeight(t *testing.T) {
	root := render.El("div", render.Style{Width: 100, Height: 200},
		render.El("div", render.Style{Height: 40}),
		render.El("div", render.Style{Grow: 1}).WithID("slot"),
		render.El("div", render.Style{Height: 20}),
	)
	box, err := New().Layout(root)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	slot := box.Children[1]
	if !approx(slot.Height, 140) || !approx(slot.Y, 40) {
		t.Errorf("slot = (y=%v, h=%v), want (y=40, h=140)", slot.Y, slot.Height)
	}
	if got := box.Children[2].Y; !approx(got, 180) {
		t.Errorf("footer Y = %v, want 180", got)
	}
}

func TestTextWrapping(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		lines int
	}{
		{"wide", 10000, 1},
		{"narrow", 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := render.El("div", render.Style{Width: tt.width},
				render.Text("vote for one candidate", render.Style{FontSize: 10}),
			)
			box, err := New().Layout(root)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			text := box.Children[0]
			if len(text.Lines) != tt.lines {
				t.Fatalf("lines = %d, want %d", len(text.Lines), tt.lines)
			}
			if want := float64(tt.lines) * 10 * DefaultLineHeight; !approx(text.Height, want) {
				t.Errorf("height = %v, want %v", text.Height, want)
			}
			for i := 1; i < len(text.Lines); i++ {
				if text.Lines[i].Baseline <= text.Lines[i-1].Baseline {
					t.Errorf("baselines not increasing at line %d", i)
				}
			}
		})
	}
}

func TestAbsoluteChildDoesNotAffectSize(t *testing.T) {
	root := render.El("div", render.Style{Width: 100},
		render.El("div", render.Style{Height: 10}),
		render.El("div", render.Style{Position: render.Absolute, Left: 50, Top: 500, Width: 5, Height: 5}).WithClass("mark"),
	)
	box, err := New().Layout(root)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !approx(box.Height, 10) {
		t.Errorf("height = %v, want 10", box.Height)
	}
	mark := box.Children[1]
	if !approx(mark.X, 50) || !approx(mark.Y, 500) {
		t.Errorf("mark at (%v,%v), want (50,500)", mark.X, mark.Y)
	}
}

func TestMeasure(t *testing.T) {
	root := render.El("div", render.Style{Width: 100, Gap: 2},
		render.El("div", render.Style{Height: 10}).WithClass("bubble").WithData("option-id", "a"),
		render.El("div", render.Style{Height: 10}),
		render.El("div", render.Style{Height: 10}).WithClass("bubble").WithData("option-id", "b"),
	)

	ms, err := New().Measure(context.Background(), root, ".bubble")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("got %d measurements, want 2", len(ms))
	}
	if ms[0].Data["option-id"] != "a" || ms[1].Data["option-id"] != "b" {
		t.Errorf("measurements out of document order: %v", ms)
	}
	if !approx(ms[1].Y, 24) {
		t.Errorf("second bubble Y = %v, want 24", ms[1].Y)
	}
	c := ms[0].Center()
	if !approx(c.X, 50) || !approx(c.Y, 5) {
		t.Errorf("center = %v, want (50,5)", c)
	}
}

func TestMeasureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Measure(ctx, render.El("div", render.Style{}), "div"); err == nil {
		t.Error("Measure with canceled context succeeded")
	}
}
