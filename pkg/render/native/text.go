package native

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/ballotgrid/pkg/fonts"
)

type faceKey struct {
	size float64
	bold bool
}

// faceSet caches faces for a single layout pass.
type faceSet struct {
	faces map[faceKey]font.Face
}

func newFaceSet() *faceSet {
	return &faceSet{faces: make(map[faceKey]font.Face)}
}

func (s *faceSet) face(size float64, bold bool) (font.Face, error) {
	k := faceKey{size, bold}
	if f, ok := s.faces[k]; ok {
		return f, nil
	}
	f, err := fonts.NewFace(size, bold)
	if err != nil {
		return nil, err
	}
	s.faces[k] = f
	return f, nil
}

func (s *faceSet) close() {
	for _, f := range s.faces {
		f.Close()
	}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func measureString(face font.Face, s string) float64 {
	return toFloat(font.MeasureString(face, s))
}

// wrapText breaks text into lines no wider than width. Explicit newlines
// start a new line. A single word wider than width gets a line of its own.
// A width of zero disables wrapping.
func wrapText(face font.Face, text string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if width > 0 && measureString(face, candidate) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// maxLineWidth returns the widest paragraph of text set on a single line.
func maxLineWidth(face font.Face, text string) float64 {
	var w float64
	for _, para := range strings.Split(text, "\n") {
		w = max(w, measureString(face, strings.Join(strings.Fields(para), " ")))
	}
	return w
}
