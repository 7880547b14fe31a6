package cache

import (
	"context"
	"time"
)

// Cache is a JSON blob store with per-key TTLs. The session store keeps
// conversation histories behind this interface.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
