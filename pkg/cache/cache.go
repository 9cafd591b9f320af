// Package cache stores intermediate build results keyed by content hashes.
//
// Ballot builds are deterministic: the same election, rotation settings and
// layout options always produce the same ballot styles, pages and grid
// layouts. The pipeline uses that to skip pagination, which is the
// expensive stage, when nothing relevant changed.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys from the hash of the election definition and the
// options that influence each stage. [ScopedKeyer] prefixes every key so
// that several tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs per entry kind.
const (
	TTLStyles   = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key prefixes, also used as key types in cache hooks.
const (
	KindStyles   = "styles"
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// StylesKeyOpts are the inputs of ballot-style generation besides the
// election itself. Params is the strategy's configuration in printed form.
type StylesKeyOpts struct {
	Strategy string `json:"strategy"`
	Params   string `json:"params,omitempty"`
}

// LayoutKeyOpts are the inputs of pagination and grid extraction.
type LayoutKeyOpts struct {
	Paper          string  `json:"paper"`
	Columns        int     `json:"columns"`
	MeasureColumns int     `json:"measure_columns"`
	Gap            float64 `json:"gap"`
}

// ArtifactKeyOpts identify one rendered output of a ballot variant.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Variant string `json:"variant"`
}

// Keyer builds cache keys.
type Keyer interface {
	StylesKey(electionHash string, opts StylesKeyOpts) string
	LayoutKey(electionHash, ballotStyleID string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// StylesKey returns the key of the generated ballot styles of an election.
func (DefaultKeyer) StylesKey(electionHash string, opts StylesKeyOpts) string {
	return hashKey(KindStyles, electionHash, opts)
}

// LayoutKey returns the key of the grid layout and pages of one style.
func (DefaultKeyer) LayoutKey(electionHash, ballotStyleID string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, electionHash, ballotStyleID, opts)
}

// ArtifactKey returns the key of a rendered variant.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}
