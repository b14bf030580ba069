// Package cache provides the injected cache abstraction used by hot
// read paths. Implementations must bound their footprint and expire
// entries; in-process module-level maps are exactly what this replaces,
// since the service runs as multiple instances.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
