package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/ballotgrid/pkg/fonts"
	"github.com/matzehuels/ballotgrid/pkg/render"
	"github.com/matzehuels/ballotgrid/pkg/render/native"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	engine  *native.Engine
	logger  *log.Logger
	created time.Time
}

// WithEngine sets the layout engine. It must be configured like the oracle
// the pages were measured with.
func WithEngine(e *native.Engine) PDFOption {
	return func(r *pdfRenderer) { r.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) PDFOption {
	return func(r *pdfRenderer) { r.logger = l }
}

// WithCreationDate fixes the document date so output is reproducible.
func WithCreationDate(t time.Time) PDFOption {
	return func(r *pdfRenderer) { r.created = t }
}

// NewDocument returns an empty fpdf document in points with the ballot
// fonts registered and automatic page breaks off.
func NewDocument(width, height float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(fonts.FontFamily, "", fonts.RegularTTF())
	pdf.AddUTF8FontFromBytes(fonts.FontFamily, "B", fonts.BoldTTF())
	return pdf
}

// RenderPDF lays out each page and paints it into one PDF. Page sizes come
// from the root nodes' Style.Width and Style.Height in pixels. An odd page
// count gets a trailing blank page of the last page's size.
func RenderPDF(pages []*render.Node, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.engine == nil {
		r.engine = native.New()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}

	boxes := make([]*native.Box, len(pages))
	for i, p := range pages {
		b, err := r.engine.Layout(p)
		if err != nil {
			return nil, fmt.Errorf("layout page %d: %w", i+1, err)
		}
		boxes[i] = b
	}

	first := boxes[0]
	pdf := NewDocument(toPoints(first.Width), toPoints(first.Height))
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}
	for _, b := range boxes {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: toPoints(b.Width), Ht: toPoints(b.Height)})
		paint(pdf, b, color.Black)
	}
	if len(boxes)%2 == 1 {
		last := boxes[len(boxes)-1]
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: toPoints(last.Width), Ht: toPoints(last.Height)})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	r.logger.Debug("rendered pdf", "pages", pdf.PageCount(), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func toPoints(px float64) float64 { return px * render.PointsPerPixel }

// paint draws b and its subtree: background, border, then text. Text
// color is inherited from the nearest ancestor that sets one.
func paint(pdf *fpdf.Fpdf, b *native.Box, textColor color.Color) {
	st := b.Node.Style
	if st.Color != nil {
		textColor = st.Color
	}
	x, y, w, h := toPoints(b.X), toPoints(b.Y), toPoints(b.Width), toPoints(b.Height)

	var style string
	if st.Background != nil {
		pdf.SetFillColor(RGB(st.Background))
		style += "F"
	}
	if st.Border > 0 {
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(toPoints(st.Border))
		style += "D"
	}
	if style != "" && w > 0 && h > 0 {
		if st.Radius > 0 {
			RoundedRect(pdf, x, y, w, h, toPoints(st.Radius), style)
		} else {
			pdf.Rect(x, y, w, h, style)
		}
	}

	if len(b.Lines) > 0 {
		fontStyle := ""
		if b.Bold {
			fontStyle = "B"
		}
		pdf.SetFont(fonts.FontFamily, fontStyle, toPoints(b.FontSize))
		pdf.SetTextColor(RGB(textColor))
		for _, l := range b.Lines {
			pdf.Text(toPoints(l.X), toPoints(l.Baseline), l.Text)
		}
	}

	for _, c := range b.Children {
		paint(pdf, c, textColor)
	}
}
