// Package cache stores rendered export artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [MemoryCache]: bounded LRU in process memory (API server default)
//   - [RedisCache]: shared cache for several API replicas
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes, never from file names or
// timestamps. Changing any record, the root, the capture adapter, or the
// pagination policy yields a different key, so entries never need explicit
// invalidation:
//
//	k := cache.NewDefaultKeyer()
//	rk := k.RasterKey(recordsHash, 1, cache.RasterKeyOpts{Adapter: "outline", DeviceScale: 2})
//	ak := k.ArtifactKey(rk, cache.ArtifactKeyOpts{Format: "pdf", MarginMm: 10, MaxPages: 50})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
// A miss is (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default lifetimes per entry kind.
const (
	TTLRaster   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLReport   = 24 * time.Hour
)
