// Package cache stores rendered grids and built animation programs.
//
// Rasterizing text and generating frames are both pure functions of their
// inputs, so results are cached under content-derived keys produced by a
// [Keyer]. Backends implement [Cache]:
//
//   - [FileCache] for the CLI (XDG cache directory)
//   - [RedisCache] and [MongoCache] for a shared cache behind the HTTP server
//   - [NullCache] when caching is disabled
//
// Values are opaque bytes; the pipeline package owns their encoding.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// GridKey identifies the grid rendered for text in font.
	GridKey(text, font string) string

	// ProgramKey identifies an animation program built from grids with the
	// given content hash.
	ProgramKey(gridsHash string, opts ProgramKeyOpts) string
}

// ProgramKeyOpts are the generation settings that change a program.
type ProgramKeyOpts struct {
	Direction  string `json:"direction"`
	Characters string `json:"characters"`
	Spacing    int    `json:"spacing"`
	Mode       string `json:"mode"`
	Seed       uint64 `json:"seed"`
}
