package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ballotgrid/pkg/ballot"
	"github.com/matzehuels/ballotgrid/pkg/cache"
	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/observability"
	"github.com/matzehuels/ballotgrid/pkg/render"
	"github.com/matzehuels/ballotgrid/pkg/render/native"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

// Runner executes builds with caching. It holds no per-build state and is
// safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Engine is the layout engine used both as measurement oracle and by
	// the renderers, so measured and painted pages agree.
	Engine *native.Engine
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// uses cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Engine: native.New(native.WithLogger(logger.WithPrefix("layout"))),
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// layoutEntry is the cached result of the layout stage of one style.
type layoutEntry struct {
	Layout grid.Layout `json:"layout"`
	Pages  int         `json:"pages"`
}

// artifact is one rendered variant.
type artifact struct {
	name string
	key  cache.ArtifactKeyOpts
	data []byte
}

// styleResult is the output of building one ballot style.
type styleResult struct {
	layout    grid.Layout
	pages     int
	variants  int
	artifacts []artifact
	hit       bool
}

// Build generates ballot styles, lays out every variant, and renders the
// requested formats. The input election is not modified.
func (r *Runner) Build(ctx context.Context, e *election.Election, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	built := *e
	if opts.Paper != "" {
		built.PaperSize = grid.PaperSize(opts.Paper)
	}
	built.GridLayouts = nil

	res := &Result{
		BuildID:   uuid.NewString(),
		Election:  &built,
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("build", res.BuildID[:8])

	hash, err := ElectionHash(&built)
	if err != nil {
		return nil, err
	}
	res.ElectionHash = hash

	// Stage 1: styles
	start := time.Now()
	styles, hit, err := r.styles(ctx, &built, hash, opts.Strategy)
	if err != nil {
		return nil, err
	}
	built.BallotStyles = styles
	res.Stats.StylesTime = time.Since(start)
	res.Stats.Styles = len(styles)
	res.CacheInfo.StylesHit = hit
	logger.Info("generated ballot styles", "styles", len(styles), "cached", hit, "duration", res.Stats.StylesTime)

	// Stage 2 and 3: layout and render, one goroutine per style
	start = time.Now()
	oracle := render.NewPool(r.Engine, opts.OracleCapacity)
	results := make([]styleResult, len(styles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range styles {
		g.Go(func() error {
			sr, err := r.buildStyle(gctx, oracle, &built, hash, &built.BallotStyles[i], &opts)
			if err != nil {
				return err
			}
			results[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sr := range results {
		built.GridLayouts = append(built.GridLayouts, sr.layout)
		for _, a := range sr.artifacts {
			res.Artifacts[a.name] = a.data
		}
		res.Stats.Pages += sr.pages * sr.variants
		res.Stats.Variants += sr.variants
		if sr.hit {
			res.CacheInfo.LayoutHits++
		}
	}
	res.Stats.LayoutTime = time.Since(start)
	logger.Info("laid out ballots",
		"styles", len(styles),
		"variants", res.Stats.Variants,
		"artifacts", len(res.Artifacts),
		"cached", res.CacheInfo.LayoutHits,
		"duration", res.Stats.LayoutTime)
	return res, nil
}

// ElectionHash returns the content hash of a definition without its
// generated parts.
func ElectionHash(e *election.Election) (string, error) {
	bare := *e
	bare.BallotStyles = nil
	bare.GridLayouts = nil
	var buf bytes.Buffer
	if err := election.Write(&buf, &bare); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode election")
	}
	return cache.Hash(buf.Bytes()), nil
}

// styles returns the ballot styles of e, generating them with s. A nil s
// keeps the election's own styles when it has any.
func (r *Runner) styles(ctx context.Context, e *election.Election, hash string, s rotation.Strategy) ([]election.BallotStyle, bool, error) {
	if s == nil {
		if len(e.BallotStyles) > 0 {
			return e.BallotStyles, false, nil
		}
		s = rotation.Identity{}
	}

	key := r.Keyer.StylesKey(hash, StylesKeyOpts(s))
	start := time.Now()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var styles []election.BallotStyle
		if json.Unmarshal(data, &styles) == nil {
			observability.Cache().OnCacheHit(ctx, cache.KindStyles)
			return styles, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, cache.KindStyles)

	styles, err := ballot.GenerateStyles(e, s)
	observability.Pipeline().OnStylesComplete(ctx, s.Name(), len(styles), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(styles); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLStyles) == nil {
			observability.Cache().OnCacheSet(ctx, cache.KindStyles, len(data))
		}
	}
	return styles, false, nil
}

// buildStyle lays out every selected variant of style, checks that their
// grid layouts agree, and renders the artifacts.
func (r *Runner) buildStyle(ctx context.Context, oracle render.Oracle, e *election.Election, hash string, style *election.BallotStyle, opts *Options) (styleResult, error) {
	variants := opts.Variants(style)
	if len(variants) == 0 {
		return styleResult{}, errors.New(errors.ErrCodeInvalidInput, "no variants selected").
			With("ballot_style", style.ID)
	}

	styleJSON, _ := json.Marshal(style)
	contentHash := cache.Hash(append([]byte(hash), styleJSON...))
	layoutKey := r.Keyer.LayoutKey(contentHash, style.ID, opts.LayoutKeyOpts(e.Paper()))

	if !opts.Refresh {
		if sr, ok := r.cachedStyle(ctx, layoutKey, style.ID, variants, opts.Formats); ok {
			return sr, nil
		}
	}

	observability.Pipeline().OnPaginateStart(ctx, style.ID)
	start := time.Now()
	sr := styleResult{variants: len(variants)}
	layouts := make([]grid.Layout, 0, len(variants))
	for _, v := range variants {
		pages, err := ballot.RenderPages(ctx, oracle, e, style, v, opts.Ballot)
		if err != nil {
			observability.Pipeline().OnPaginateComplete(ctx, style.ID, 0, time.Since(start), err)
			return styleResult{}, err
		}
		l, err := grid.Extract(ctx, oracle, pages, style.ID)
		if err != nil {
			return styleResult{}, fmt.Errorf("ballot style %s, %s: %w", style.ID, v, err)
		}
		layouts = append(layouts, l)
		sr.pages = len(pages)

		for _, format := range opts.Formats {
			name := ArtifactName(style.ID, v, format)
			data, err := r.Render(ctx, pages, format, opts)
			if err != nil {
				return styleResult{}, fmt.Errorf("render %s: %w", name, err)
			}
			sr.artifacts = append(sr.artifacts, artifact{
				name: name,
				key:  cache.ArtifactKeyOpts{Format: format, Variant: v.String()},
				data: data,
			})
		}
	}
	observability.Pipeline().OnPaginateComplete(ctx, style.ID, sr.pages, time.Since(start), nil)

	if err := grid.CheckConsistent(layouts...); err != nil {
		if ee, ok := errors.As(err); ok {
			return styleResult{}, ee.With("ballot_style", style.ID)
		}
		return styleResult{}, err
	}
	sr.layout = layouts[0]

	r.storeStyle(ctx, layoutKey, sr)
	opts.Logger.Debug("built ballot style", "ballot_style", style.ID, "variants", len(variants),
		"pages", sr.pages, "positions", len(sr.layout.GridPositions), "duration", time.Since(start))
	return sr, nil
}

// cachedStyle returns the cached layout and artifacts of a style when all
// of them are present.
func (r *Runner) cachedStyle(ctx context.Context, layoutKey, styleID string, variants []ballot.Variant, formats []string) (styleResult, bool) {
	data, hit, err := r.Cache.Get(ctx, layoutKey)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
		return styleResult{}, false
	}
	var entry layoutEntry
	if json.Unmarshal(data, &entry) != nil {
		observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
		return styleResult{}, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KindLayout)

	sr := styleResult{
		layout:   entry.Layout,
		pages:    entry.Pages,
		variants: len(variants),
		hit:      true,
	}
	layoutHash := cache.Hash([]byte(layoutKey))
	for _, v := range variants {
		for _, format := range formats {
			opts := cache.ArtifactKeyOpts{Format: format, Variant: v.String()}
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KindArtifact)
				return styleResult{}, false
			}
			sr.artifacts = append(sr.artifacts, artifact{name: ArtifactName(styleID, v, format), key: opts, data: data})
		}
	}
	if len(formats) > 0 {
		observability.Cache().OnCacheHit(ctx, cache.KindArtifact)
	}
	return sr, true
}

// storeStyle caches a built style. Failures only cost a rebuild.
func (r *Runner) storeStyle(ctx context.Context, layoutKey string, sr styleResult) {
	set := func(kind, key string, data []byte, ttl time.Duration) {
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "kind", kind, "err", err)
			return
		}
		observability.Cache().OnCacheSet(ctx, kind, len(data))
	}

	layoutHash := cache.Hash([]byte(layoutKey))
	for _, a := range sr.artifacts {
		set(cache.KindArtifact, r.Keyer.ArtifactKey(layoutHash, a.key), a.data, cache.TTLArtifact)
	}
	// Written last: the layout entry marks the artifacts complete.
	if data, err := json.Marshal(layoutEntry{Layout: sr.layout, Pages: sr.pages}); err == nil {
		set(cache.KindLayout, layoutKey, data, cache.TTLLayout)
	}
}
