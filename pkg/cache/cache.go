// Package cache provides caching for computed layouts and rendered output.
//
// Layouts are pure functions of a snapshot and the layout spacing, so they
// can be cached under a key derived from both. A [Cache] stores opaque
// bytes; a [Keyer] builds the keys.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared by several server instances
//
// # Keys
//
//	k := cache.NewDefaultKeyer()
//	k.LayoutKey(cache.Hash(snapshotJSON), cache.LayoutKeyOpts{...}) // layout:<sha256>
//	k.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: "svg"})  // artifact:<sha256>
package cache

import (
	"context"
	"time"
)

// Entry lifetimes used by the pipeline. Layouts depend only on their key,
// so they can live long; artifacts are cheaper to evict.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry reports
	// false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey generates a key for the layout of a snapshot.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout spacing that affects positions.
type LayoutKeyOpts struct {
	NodeWidth     float64 `json:"node_width"`
	NodeHeight    float64 `json:"node_height"`
	HorizontalGap float64 `json:"horizontal_gap"`
	VerticalGap   float64 `json:"vertical_gap"`
	Margin        float64 `json:"margin"`
}

// ArtifactKeyOpts holds render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
