package grid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

// Selectors and data attributes that ballot pages carry for extraction.
const (
	TimingMarkSelector = ".timing-mark"
	BubbleSelector     = ".bubble"

	DataContestID    = "contest-id"
	DataOptionID     = "option-id"
	DataWriteInIndex = "write-in-index"
)

// ExtractOption configures Extract.
type ExtractOption func(*extractor)

type extractor struct {
	optionBounds Outset
	writeInArea  Outset
}

// WithOptionBounds sets the option bounds recorded in the layout.
func WithOptionBounds(o Outset) ExtractOption {
	return func(e *extractor) { e.optionBounds = o }
}

// WithWriteInArea sets the outset used to compute write-in areas.
func WithWriteInArea(o Outset) ExtractOption {
	return func(e *extractor) { e.writeInArea = o }
}

// Extract measures every page of a ballot style and builds its
// vote-position table. Pages are in print order: page i is on sheet i/2+1,
// front for even i. Bubbles are recorded in document order.
func Extract(ctx context.Context, oracle render.Oracle, pages []*render.Node, ballotStyleID string, opts ...ExtractOption) (Layout, error) {
	e := extractor{optionBounds: DefaultOptionBounds, writeInArea: DefaultWriteInArea}
	for _, opt := range opts {
		opt(&e)
	}

	layout := Layout{
		BallotStyleID:              ballotStyleID,
		OptionBoundsFromTargetMark: e.optionBounds,
		GridPositions:              []Position{},
	}
	for i, page := range pages {
		positions, err := e.page(ctx, oracle, page, i)
		if err != nil {
			if ee, ok := errors.As(err); ok {
				return Layout{}, ee.With("ballot_style", ballotStyleID).With("page", i+1)
			}
			return Layout{}, fmt.Errorf("ballot style %s page %d: %w", ballotStyleID, i+1, err)
		}
		layout.GridPositions = append(layout.GridPositions, positions...)
	}
	return layout, nil
}

func (e extractor) page(ctx context.Context, oracle render.Oracle, page *render.Node, index int) ([]Position, error) {
	marks, err := oracle.Measure(ctx, page, TimingMarkSelector)
	if err != nil {
		return nil, fmt.Errorf("measure timing marks: %w", err)
	}
	bubbles, err := oracle.Measure(ctx, page, BubbleSelector)
	if err != nil {
		return nil, fmt.Errorf("measure bubbles: %w", err)
	}
	if len(bubbles) == 0 {
		return nil, nil
	}
	m, err := Measure(marks)
	if err != nil {
		return nil, err
	}

	sheet, side := SheetSide(index)
	out := make([]Position, 0, len(bubbles))
	for _, b := range bubbles {
		g := m.PixelToGrid(b.Center())
		pos := Position{
			Type:        TypeOption,
			SheetNumber: sheet,
			Side:        side,
			Column:      roundGrid(g.X),
			Row:         roundGrid(g.Y),
			ContestID:   b.Data[DataContestID],
		}
		if pos.ContestID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "bubble without %s", DataContestID)
		}
		if raw, ok := b.Data[DataWriteInIndex]; ok {
			idx, err := strconv.Atoi(raw)
			if err != nil || idx < 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "invalid write-in index %q", raw).
					With("contest", pos.ContestID)
			}
			area := e.writeInArea.Around(pos.Column, pos.Row)
			pos.Type = TypeWriteIn
			pos.WriteInIndex = &idx
			pos.WriteInArea = &area
		} else {
			pos.OptionID = b.Data[DataOptionID]
			if pos.OptionID == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "bubble without %s", DataOptionID).
					With("contest", pos.ContestID)
			}
		}
		out = append(out, pos)
	}
	return out, nil
}

// CheckConsistent verifies that layouts computed from different variants of
// one ballot style are identical. The first difference is reported as a
// GEOMETRY_MISMATCH error.
func CheckConsistent(layouts ...Layout) error {
	if len(layouts) < 2 {
		return nil
	}
	ref := layouts[0]
	for i, l := range layouts[1:] {
		variant := i + 1
		mismatch := func(format string, args ...any) *errors.Error {
			return errors.New(errors.ErrCodeGeometryMismatch, format, args...).
				With("ballot_style", ref.BallotStyleID).
				With("variant", variant)
		}
		if l.BallotStyleID != ref.BallotStyleID {
			return mismatch("ballot style %q differs", l.BallotStyleID)
		}
		if l.OptionBoundsFromTargetMark != ref.OptionBoundsFromTargetMark {
			return mismatch("option bounds differ")
		}
		if len(l.GridPositions) != len(ref.GridPositions) {
			return mismatch("%d grid positions, want %d", len(l.GridPositions), len(ref.GridPositions))
		}
		for j, p := range l.GridPositions {
			want := ref.GridPositions[j]
			if !p.Equal(want) {
				return mismatch("grid position %d differs", j).
					With("contest", want.ContestID).
					With("page", want.PageIndex()+1)
			}
		}
	}
	return nil
}
