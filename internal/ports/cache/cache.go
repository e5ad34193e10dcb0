package cache

import (
	"context"
	"time"
)

// PageCache stores rendered page fragments by key.
type PageCache interface {
	// Get returns ok=false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
