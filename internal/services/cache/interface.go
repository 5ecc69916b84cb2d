package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL, used for fetched document blobs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Stats tracks cache usage
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}
