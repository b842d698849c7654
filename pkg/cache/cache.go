// Package cache provides pluggable byte caching for pipeline stages.
//
// Probed sequences, computed layouts, and rendered artifacts are all cached
// as opaque byte blobs keyed by content hashes of their inputs, so repeated
// runs with unchanged inputs skip straight to the cached result.
//
// Backends:
//   - FileCache: directory-based, for CLI usage
//   - RedisCache: for multi-instance server deployments
//   - MongoCache: for server deployments with document storage
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Sequences expire quickly because the files
// on disk can change; layouts and artifacts are pure functions of their
// keys and can live longer.
const (
	TTLSequence = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface all caching backends implement.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SequenceKeyOpts distinguishes probed-sequence cache entries.
type SequenceKeyOpts struct {
	// Fingerprint is a content hash over the matched paths and their file
	// metadata, so edits on disk invalidate the cached probe result.
	Fingerprint string
}

// LayoutKeyOpts distinguishes layout cache entries. The fields mirror the
// layout parameters: any change produces a different key.
type LayoutKeyOpts struct {
	PixelsPerInch float64
	GapFraction   float64
	CurveFraction float64
	ImagesPerRow  int
}

// ArtifactKeyOpts distinguishes rendered-artifact cache entries.
type ArtifactKeyOpts struct {
	Format   string
	RootPath string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SequenceKey keys a probed image sequence by its glob pattern and
	// file fingerprint.
	SequenceKey(pattern string, opts SequenceKeyOpts) string

	// LayoutKey keys a computed layout by the sequence content hash and
	// the layout parameters.
	LayoutKey(sequenceHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout content hash and
	// the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SequenceKey generates a key for probed-sequence caching.
func (k *DefaultKeyer) SequenceKey(pattern string, opts SequenceKeyOpts) string {
	return hashKey("seq", pattern, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(sequenceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sequenceHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
