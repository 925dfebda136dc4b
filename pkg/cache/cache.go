// Package cache stores serialized layout snapshots between runs.
//
// Packing a large manifest from scratch is cheap per item but adds up when
// the same manifest is laid out repeatedly with the same options (CI jobs,
// repeated `mosaic layout` invocations, several server replicas). Snapshots
// are keyed by a hash of the manifest content plus every option that
// influences placement, so a hit is always safe to reuse.
//
// Three backends are provided:
//
//   - [FileCache] stores entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between processes through Redis
//   - [NullCache] never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Implementations must be safe for concurrent use. Get reports a miss with
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLSnapshot is the default lifetime of a cached layout snapshot.
const TTLSnapshot = 7 * 24 * time.Hour

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
