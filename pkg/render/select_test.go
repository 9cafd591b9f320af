package render

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{in: "div", want: Selector{Tag: "div"}},
		{in: ".timing-mark", want: Selector{Classes: []string{"timing-mark"}}},
		{in: "#content-slot", want: Selector{ID: "content-slot"}},
		{in: "div.contest.wide", want: Selector{Tag: "div", Classes: []string{"contest", "wide"}}},
		{in: "", wantErr: true},
		{in: "div .contest", wantErr: true},
		{in: ".", wantErr: true},
		{in: "#a#b", wantErr: true},
		{in: ".a div", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelector(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSelector(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil {
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("ParseSelector(%q) mismatch (-want +got):\n%s", tt.in, diff)
				}
			}
		})
	}
}

func TestSelect(t *testing.T) {
	root := El("div", Style{},
		El("div", Style{}).WithClass("contest").WithID("c1"),
		El("section", Style{},
			El("div", Style{}).WithClass("contest").WithID("c2"),
		),
		Text("hello", Style{}),
	)

	nodes, err := Select(root, "div.contest")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	if diff := cmp.Diff([]string{"c1", "c2"}, ids); diff != "" {
		t.Errorf("Select mismatch (-want +got):\n%s", diff)
	}

	if Find(root, "#c2") == nil {
		t.Error("Find(#c2) = nil")
	}
	if Find(root, "#missing") != nil {
		t.Error("Find(#missing) != nil")
	}
}

func TestNodeClone(t *testing.T) {
	orig := El("div", Style{}, Text("a", Style{})).WithClass("x").WithData("k", "v")
	c := orig.Clone()
	c.Children[0].Text = "b"
	c.Data["k"] = "changed"
	c.Classes[0] = "y"
	if orig.Children[0].Text != "a" || orig.Data["k"] != "v" || orig.Classes[0] != "x" {
		t.Error("Clone shares state with original")
	}
	if got := orig.TextContent(); got != "a" {
		t.Errorf("TextContent = %q, want %q", got, "a")
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	var (
		active, peak atomic.Int32
		release      = make(chan struct{})
	)
	slow := OracleFunc(func(ctx context.Context, root *Node, selector string) ([]Measurement, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		active.Add(-1)
		return nil, nil
	})

	pool := NewPool(slow, 2)
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pool.Measure(context.Background(), nil, "div"); err != nil {
				t.Errorf("Measure: %v", err)
			}
		}()
	}
	for i := 0; i < 6; i++ {
		release <- struct{}{}
	}
	wg.Wait()

	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestMeasureOne(t *testing.T) {
	o := OracleFunc(func(ctx context.Context, root *Node, selector string) ([]Measurement, error) {
		if selector == "#one" {
			return []Measurement{{Width: 10, Height: 20}}, nil
		}
		return []Measurement{{}, {}}, nil
	})
	m, err := MeasureOne(context.Background(), o, nil, "#one")
	if err != nil || m.Height != 20 {
		t.Errorf("MeasureOne(#one) = %v, %v", m, err)
	}
	if _, err := MeasureOne(context.Background(), o, nil, ".many"); err == nil {
		t.Error("MeasureOne(.many) succeeded, want error")
	}
}
