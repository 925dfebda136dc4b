package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// keyTypeSnapshot labels snapshot cache events for observability hooks.
const keyTypeSnapshot = "snapshot"

// Runner encapsulates layout runs with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// callers with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLSnapshot,
	}
}

// Layout produces a snapshot of m, consulting the cache first. The boolean
// reports a cache hit.
func (r *Runner) Layout(ctx context.Context, m *manifest.Manifest, opts Options) (*Snapshot, bool, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	manifestData, err := json.Marshal(m)
	if err != nil {
		return nil, false, fmt.Errorf("hash manifest: %w", err)
	}
	hash := cache.Hash(manifestData)
	key := r.Keyer.SnapshotKey(hash, opts.SnapshotKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("snapshot cache read failed", "err", err)
		} else if hit {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeSnapshot)
				r.Logger.Debug("snapshot cache hit", "key", key)
				return &snap, true, nil
			}
			// Undecodable entries fall through to a recompute.
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeSnapshot)
	}

	start := time.Now()
	snap := Compute(m, &opts)
	snap.ManifestHash = hash

	r.Logger.Info("computed layout",
		"items", m.Len(),
		"frames", len(snap.Frames),
		"capacity", snap.Capacity,
		"duration", time.Since(start))
	if snap.Stats.Oversized > 0 || snap.Stats.Degraded > 0 {
		r.Logger.Warn("layout recovered from bad item sizes",
			"oversized", snap.Stats.Oversized,
			"degraded", snap.Stats.Degraded)
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("snapshot cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeSnapshot, len(data))
		}
	}
	return snap, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
