package ballot

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/paginate"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

const (
	// DefaultColumns is the number of candidate contest columns.
	DefaultColumns = 3

	// DefaultMeasureColumns is the number of ballot measure columns.
	DefaultMeasureColumns = 2

	// DefaultGap is the spacing between contests in pixels.
	DefaultGap = 8.0
)

// Options controls ballot layout.
type Options struct {
	Columns        int         `json:"columns,omitempty" toml:"columns"`
	MeasureColumns int         `json:"measure_columns,omitempty" toml:"measure_columns"`
	Gap            float64     `json:"gap,omitempty" toml:"gap"`
	Logger         *log.Logger `json:"-" toml:"-"`
}

// ValidateAndSetDefaults fills unset fields and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.MeasureColumns == 0 {
		o.MeasureColumns = DefaultMeasureColumns
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Columns < 1 || o.MeasureColumns < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "column counts must be positive")
	}
	if o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap must not be negative")
	}
	return nil
}

// Variant is one printable version of a ballot style. Variants of a style
// differ only in header text, never in layout.
type Variant struct {
	PrecinctOrSplit election.PrecinctOrSplit `json:"precinctOrSplit"`
	BallotType      election.BallotType      `json:"ballotType"`
	BallotMode      election.BallotMode      `json:"ballotMode"`
}

// String returns a name usable in file names.
func (v Variant) String() string {
	ps := v.PrecinctOrSplit.PrecinctID
	if v.PrecinctOrSplit.SplitID != "" {
		ps += "_" + v.PrecinctOrSplit.SplitID
	}
	return fmt.Sprintf("%s-%s-%s", ps, v.BallotType, v.BallotMode)
}

// BallotTypes and BallotModes list what Variants expands to.
var (
	BallotTypes = []election.BallotType{election.BallotTypePrecinct, election.BallotTypeAbsentee}
	BallotModes = []election.BallotMode{election.BallotModeOfficial, election.BallotModeTest, election.BallotModeSample}
)

// Variants returns every precinct, ballot type and mode combination of a
// style.
func Variants(style *election.BallotStyle) []Variant {
	out := make([]Variant, 0, len(style.PrecinctsOrSplits)*len(BallotTypes)*len(BallotModes))
	for _, ps := range style.PrecinctsOrSplits {
		for _, t := range BallotTypes {
			for _, m := range BallotModes {
				out = append(out, Variant{PrecinctOrSplit: ps, BallotType: t, BallotMode: m})
			}
		}
	}
	return out
}

// RenderPages lays out one variant of a ballot style and returns its pages
// in print order. The page count is always even.
//
// Seat counts are checked before layout starts, so a contest without a
// "vote for" phrasing fails with UNSUPPORTED rather than mid-pagination.
func RenderPages(ctx context.Context, oracle render.Oracle, e *election.Election, style *election.BallotStyle, v Variant, opts Options) ([]*render.Node, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	contests := e.ContestsForStyle(style)
	gen, err := newGenerator(oracle, e, style, contests, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(contests))
	for i, c := range contests {
		ids[i] = c.ContestID()
	}
	f := frame{election: e, style: style, variant: v, paper: e.Paper()}
	pages, err := paginate.Paginate(ctx, oracle, paginate.Spec[Props]{
		Initial: Props{Remaining: ids},
		Frame:   f.Frame,
		Content: gen.Content,
		Blank:   f.Blank,
		Equal:   equalProps,
		Logger:  opts.Logger,
	})
	if err != nil {
		if ee, ok := errors.As(err); ok {
			if _, ok := ee.Field("ballot_style"); !ok {
				ee.With("ballot_style", style.ID)
			}
			return nil, ee
		}
		return nil, fmt.Errorf("ballot style %s: %w", style.ID, err)
	}
	opts.Logger.Debug("rendered ballot", "ballot_style", style.ID, "variant", v.String(), "pages", len(pages))
	return pages, nil
}
