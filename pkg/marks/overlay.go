package marks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/fonts"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/render/sink"
)

// Mark geometry relative to the printed bubble.
const (
	MarkScale = 1.2

	writeInFontSize    = 10.0
	writeInMinFontSize = 8.0

	// sizeTolerance is the allowed difference, in points, between base PDF
	// pages and the paper size.
	sizeTolerance = 0.5
)

// Params describes one mark overlay.
type Params struct {
	Election      *election.Election
	BallotStyleID string
	Votes         election.Votes

	// Calibration shifts every mark on the page.
	Calibration grid.Calibration

	// BasePDF, when set, is the printed ballot. Marks are drawn on top of
	// its pages instead of on transparent pages.
	BasePDF []byte

	Logger *log.Logger
}

// Generate draws filled bubbles and write-in names for the votes of one
// ballot style at the positions of its persisted grid layout. The output
// has one page per sheet side. Without a base PDF the pages are otherwise
// empty, for printing over pre-printed ballots.
func Generate(ctx context.Context, p Params) ([]byte, error) {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	if p.Election == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "election is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e := p.Election
	style, ok := e.BallotStyle(p.BallotStyleID)
	if !ok {
		return nil, errors.New(errors.ErrCodePreconditionFailed, "ballot style not found").
			With("ballot_style", p.BallotStyleID)
	}
	layout, ok := e.GridLayout(p.BallotStyleID)
	if !ok {
		return nil, errors.New(errors.ErrCodePreconditionFailed, "no grid layout for ballot style").
			With("ballot_style", p.BallotStyleID)
	}
	marks, err := MatchVotes(e, style, layout, p.Votes)
	if err != nil {
		return nil, err
	}

	paper := e.Paper()
	w, h := paper.Dimensions()
	w, h = w*72, h*72
	geometry := grid.PointGeometry(paper, p.Calibration)
	pages := max(2*layout.NumSheets(), 2)

	pdf := sink.NewDocument(w, h)
	var base *basePDF
	if len(p.BasePDF) > 0 {
		b, baseErr := openBase(pdf, p.BasePDF, pages, w, h)
		if baseErr != nil {
			return nil, baseErr.With("ballot_style", p.BallotStyleID)
		}
		base = b
	}

	byPage := make(map[int][]Mark)
	for _, m := range marks {
		byPage[m.Position.PageIndex()] = append(byPage[m.Position.PageIndex()], m)
	}
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		if base != nil {
			base.draw(pdf, i+1, w, h)
		}
		for _, m := range byPage[i] {
			drawMark(pdf, geometry, m)
		}
	}
	if pdf.PageCount()%2 == 1 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write marks pdf")
	}
	p.Logger.Debug("generated marks", "ballot_style", p.BallotStyleID,
		"marks", len(marks), "pages", pages, "base", base != nil)
	return buf.Bytes(), nil
}

// MarkRect returns the filled area of a bubble at pos, in points.
func MarkRect(g grid.Measurements, pos grid.Position) (x, y, w, h float64) {
	c := g.GridToPixel(vec.Vec2{X: pos.Column, Y: pos.Row})
	w = grid.BubbleWidth * 72 * MarkScale
	h = grid.BubbleHeight * 72 * MarkScale
	return c.X - w/2, c.Y - h/2, w, h
}

func drawMark(pdf *fpdf.Fpdf, g grid.Measurements, m Mark) {
	x, y, w, h := MarkRect(g, m.Position)
	pdf.SetFillColor(0, 0, 0)
	sink.RoundedRect(pdf, x, y, w, h, h/2, "F")

	if m.WriteInName == "" || m.Position.WriteInArea == nil {
		return
	}
	area := m.Position.WriteInArea
	origin := g.GridToPixel(vec.Vec2{X: area.X, Y: area.Y})
	areaW := area.Width * g.ColumnGap
	areaH := area.Height * g.RowGap

	size := writeInFontSize
	pdf.SetFont(fonts.FontFamily, "", size)
	if pdf.GetStringWidth(m.WriteInName) > areaW {
		size = writeInMinFontSize
		pdf.SetFont(fonts.FontFamily, "", size)
	}
	desc := pdf.GetFontDesc("", "")
	baseline := origin.Y + areaH/2 + float64(desc.Ascent+desc.Descent)/2000*size
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(origin.X, baseline, m.WriteInName)
}

type basePDF struct {
	imp *gofpdi.Importer
	rs  io.ReadSeeker
}

// openBase validates the base PDF against the expected page geometry.
func openBase(pdf *fpdf.Fpdf, data []byte, pages int, w, h float64) (b *basePDF, err *errors.Error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, errors.New(errors.ErrCodePreconditionFailed, "unreadable base PDF: %v", r)
		}
	}()

	b = &basePDF{imp: gofpdi.NewImporter(), rs: bytes.NewReader(data)}
	b.imp.ImportPageFromStream(pdf, &b.rs, 1, "/MediaBox")
	if pdfErr := pdf.Error(); pdfErr != nil {
		return nil, errors.Wrap(errors.ErrCodePreconditionFailed, pdfErr, "unreadable base PDF")
	}

	sizes := b.imp.GetPageSizes()
	if len(sizes) != pages {
		return nil, errors.New(errors.ErrCodePreconditionFailed,
			"base PDF has %d pages, want %d", len(sizes), pages)
	}
	for n := 1; n <= pages; n++ {
		box := sizes[n]["/MediaBox"]
		if math.Abs(box["w"]-w) > sizeTolerance || math.Abs(box["h"]-h) > sizeTolerance {
			return nil, errors.New(errors.ErrCodePreconditionFailed,
				"base PDF page %d is %s, want %s", n, size(box["w"], box["h"]), size(w, h)).
				With("page", n)
		}
	}
	return b, nil
}

func (b *basePDF) draw(pdf *fpdf.Fpdf, page int, w, h float64) {
	tpl := b.imp.ImportPageFromStream(pdf, &b.rs, page, "/MediaBox")
	b.imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
}

func size(w, h float64) string { return fmt.Sprintf("%.1fx%.1fpt", w, h) }
