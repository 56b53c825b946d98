// Package cache provides the storage backends the pipeline uses to reuse
// graphs, layouts, and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// # Keys
//
// A [Keyer] turns pipeline inputs into cache keys. [DefaultKeyer] hashes the
// inputs with SHA-256; [ScopedKeyer] adds a namespace prefix so several
// deployments can share one Redis.
package cache

import (
	"context"
	"time"
)

// TTLs for each pipeline stage. Graphs and layouts are pure functions of
// their inputs, so they are kept longer than rendered artifacts.
const (
	TTLGraph    = 30 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
// A miss is reported as (nil, false, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
