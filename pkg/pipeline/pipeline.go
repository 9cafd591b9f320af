// Package pipeline builds the ballots of an election.
//
// A build runs three stages:
//
//  1. Styles: group precincts by district set and apply the candidate
//     rotation strategy, giving one ballot style per distinct ordering.
//  2. Layout: paginate every variant of every style, extract the grid
//     layout of each variant and check that all variants of a style agree.
//  3. Render: write each variant's pages in the requested formats.
//
// Styles are built concurrently; layout measurements share one bounded
// oracle pool. Stage results are cached by content hash, so rebuilding an
// unchanged election skips pagination entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Build(ctx, e, pipeline.Options{
//	    Strategy: rotation.NewStatutory(nil),
//	    Formats:  []string{pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	election.WriteFile("election.built.json", result.Election)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ballotgrid/pkg/ballot"
	"github.com/matzehuels/ballotgrid/pkg/cache"
	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

const (
	// DefaultConcurrency is the number of ballot styles built at once.
	DefaultConcurrency = 4

	// DefaultOracleCapacity is the number of concurrent layout passes.
	DefaultOracleCapacity = 4
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a build.
type Options struct {
	// Strategy orders candidates. When nil, ballot styles already present
	// in the election are kept; an election without styles uses identity.
	Strategy rotation.Strategy `json:"-"`

	// Ballot controls the contest layout.
	Ballot ballot.Options `json:"ballot"`

	// Paper overrides the election's paper size.
	Paper string `json:"paper,omitempty"`

	// Formats lists the artifacts rendered per variant. No formats builds
	// grid layouts only.
	Formats []string `json:"formats,omitempty"`

	// Types and Modes restrict the variants built. Empty means all.
	Types []election.BallotType `json:"types,omitempty"`
	Modes []election.BallotMode `json:"modes,omitempty"`

	Concurrency    int  `json:"concurrency,omitempty"`
	OracleCapacity int  `json:"oracle_capacity,omitempty"`
	Refresh        bool `json:"refresh,omitempty"`

	// CreationDate fixes PDF metadata for reproducible output.
	CreationDate time.Time   `json:"-"`
	Logger       *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Ballot.Logger == nil {
		o.Ballot.Logger = o.Logger
	}
	if err := o.Ballot.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Paper != "" {
		if _, err := grid.ParsePaperSize(o.Paper); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid paper size")
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, t := range o.Types {
		if !slices.Contains(ballot.BallotTypes, t) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown ballot type %q", t)
		}
	}
	for _, m := range o.Modes {
		if !slices.Contains(ballot.BallotModes, m) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown ballot mode %q", m)
		}
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.OracleCapacity == 0 {
		o.OracleCapacity = DefaultOracleCapacity
	}
	if o.Concurrency < 1 || o.OracleCapacity < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency and oracle capacity must be positive")
	}
	o.validated = true
	return nil
}

// Variants returns the variants of style selected by Types and Modes.
func (o *Options) Variants(style *election.BallotStyle) []ballot.Variant {
	var out []ballot.Variant
	for _, v := range ballot.Variants(style) {
		if len(o.Types) > 0 && !slices.Contains(o.Types, v.BallotType) {
			continue
		}
		if len(o.Modes) > 0 && !slices.Contains(o.Modes, v.BallotMode) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts(paper grid.PaperSize) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Paper:          string(paper),
		Columns:        o.Ballot.Columns,
		MeasureColumns: o.Ballot.MeasureColumns,
		Gap:            o.Ballot.Gap,
	}
}

// StylesKeyOpts returns the cache key options of the styles stage.
func StylesKeyOpts(s rotation.Strategy) cache.StylesKeyOpts {
	return cache.StylesKeyOpts{Strategy: s.Name(), Params: fmt.Sprintf("%+v", s)}
}

// ArtifactName is the relative file name of a rendered variant.
func ArtifactName(ballotStyleID string, v ballot.Variant, format string) string {
	return fmt.Sprintf("%s/%s.%s", ballotStyleID, v, format)
}

// Result is the output of a build.
type Result struct {
	// BuildID identifies this run in logs and API responses.
	BuildID string

	// ElectionHash is the content hash of the input definition.
	ElectionHash string

	// Election is the input with ballot styles and grid layouts filled in.
	Election *election.Election

	// Artifacts holds rendered files keyed by ArtifactName.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes a build.
type Stats struct {
	Styles     int
	Variants   int
	Pages      int
	StylesTime time.Duration
	LayoutTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	StylesHit  bool
	LayoutHits int
}
