package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Runners get one when caching is turned off
// (--no-cache) or when no cache is passed to pipeline.NewRunner, so every
// stage recomputes.
type NullCache struct{}

// NewNullCache returns a cache that misses on every read.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
