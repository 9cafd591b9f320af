// Package fonts provides the fonts used for ballot layout and PDF output.
//
// The Go font family ships inside golang.org/x/image, so the same TrueType
// bytes back text measurement in the layout engine and glyph embedding in
// the PDF writer. Measured widths and painted widths therefore agree.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the family name registered with the PDF writer.
const FontFamily = "Go"

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the Go Bold TrueType data.
func BoldTTF() []byte {
	return gobold.TTF
}

// Parsed fonts (computed once on first access).
var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error
)

func parse() {
	parseOnce.Do(func() {
		if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = opentype.Parse(gobold.TTF)
	})
}

// NewFace returns a face for the given size in layout units. The face uses
// 72 DPI so one font unit maps to one layout unit.
//
// Faces are not safe for concurrent use; callers keep one per goroutine.
func NewFace(size float64, isBold bool) (font.Face, error) {
	parse()
	if parseErr != nil {
		return nil, fmt.Errorf("parse font: %w", parseErr)
	}
	f := regular
	if isBold {
		f = bold
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
