// Package cache stores rendered artifacts between runs.
//
// The [Cache] interface is a byte store with per-entry expiry. Three
// backends are provided:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared store for several server instances
//   - [NullCache]: stores nothing, used with --no-cache
//
// [Open] picks a backend from a URL. Keys are built by a [Keyer] so that
// every consumer hashes the same inputs the same way.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays cached.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one output format rendered from a
	// source document.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs besides the source that change an artifact.
type ArtifactKeyOpts struct {
	InputFormat string `json:"input"`
	Format      string `json:"format"`
	Overrides   any    `json:"overrides,omitempty"`
}

// keyVersion is bumped when the rendered output changes for the same input.
const keyVersion = 1

// DefaultKeyer hashes its inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, sourceHash, opts)
}
