package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache and the "none" target, so
// every grid and program is rebuilt on each run.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache on which every lookup misses.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
