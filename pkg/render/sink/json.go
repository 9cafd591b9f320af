package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/ballotgrid/pkg/render"
	"github.com/matzehuels/ballotgrid/pkg/render/native"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	engine   *native.Engine
	classes  []string
	withText bool
}

// WithJSONEngine sets the layout engine.
func WithJSONEngine(e *native.Engine) JSONOption { return func(r *jsonRenderer) { r.engine = e } }

// WithJSONClasses limits output to boxes carrying one of the classes. All
// boxes are exported when none are given.
func WithJSONClasses(classes ...string) JSONOption {
	return func(r *jsonRenderer) { r.classes = classes }
}

// WithJSONText includes text lines.
func WithJSONText() JSONOption { return func(r *jsonRenderer) { r.withText = true } }

type jsonPage struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Boxes  []jsonBox `json:"boxes"`
}

type jsonBox struct {
	Tag     string            `json:"tag"`
	ID      string            `json:"id,omitempty"`
	Classes []string          `json:"classes,omitempty"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Width   float64           `json:"width"`
	Height  float64           `json:"height"`
	Data    map[string]string `json:"data,omitempty"`
	Lines   []string          `json:"lines,omitempty"`
}

// RenderJSON exports the laid-out boxes of every page, in pixels. It is
// meant for inspecting layouts with external tools.
func RenderJSON(pages []*render.Node, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.engine == nil {
		r.engine = native.New()
	}

	out := make([]jsonPage, 0, len(pages))
	for i, p := range pages {
		root, err := r.engine.Layout(p)
		if err != nil {
			return nil, fmt.Errorf("layout page %d: %w", i+1, err)
		}
		page := jsonPage{Width: root.Width, Height: root.Height, Boxes: []jsonBox{}}
		root.Walk(func(b *native.Box) {
			if !r.include(b.Node) {
				return
			}
			jb := jsonBox{
				Tag:     b.Node.Tag,
				ID:      b.Node.ID,
				Classes: b.Node.Classes,
				X:       b.X,
				Y:       b.Y,
				Width:   b.Width,
				Height:  b.Height,
				Data:    b.Node.Data,
			}
			if r.withText {
				for _, l := range b.Lines {
					jb.Lines = append(jb.Lines, l.Text)
				}
			}
			page.Boxes = append(page.Boxes, jb)
		})
		out = append(out, page)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (r jsonRenderer) include(n *render.Node) bool {
	if len(r.classes) == 0 {
		return true
	}
	for _, c := range r.classes {
		if n.HasClass(c) {
			return true
		}
	}
	return false
}
