package pagecacheapp

import (
	"context"
	"time"
	"yatube/internal/config"
	cachePort "yatube/internal/ports/cache"

	"go.uber.org/zap"
)

// KeyPrefix namespaces every fragment this service writes.
const KeyPrefix = "page:"

// DefaultTTL is how long a rendered fragment is served before re-rendering.
const DefaultTTL = 20 * time.Second

// PageCacheService caches rendered fragments for a fixed TTL. Writes to posts do
// not invalidate it; entries go stale until they expire or Clear is called.
type PageCacheService struct {
	Cache cachePort.PageCache
	TTL   time.Duration
}

func NewPageCacheService(cache cachePort.PageCache, ttl time.Duration) *PageCacheService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PageCacheService{Cache: cache, TTL: ttl}
}

// Fetch returns the cached fragment for key, or renders, stores and returns a
// fresh one. hit reports whether the cached copy was used. Cache backend
// failures are logged and fall through to render.
func (s *PageCacheService) Fetch(ctx context.Context, key string, render func() ([]byte, error)) (body []byte, hit bool, err error) {
	key = KeyPrefix + key

	cached, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		config.Logger.Warn("Page cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, true, nil
	}

	body, err = render()
	if err != nil {
		return nil, false, err
	}

	if err := s.Cache.Set(ctx, key, body, s.TTL); err != nil {
		config.Logger.Warn("Page cache write failed", zap.String("key", key), zap.Error(err))
	}
	return body, false, nil
}

// Clear drops every cached fragment.
func (s *PageCacheService) Clear(ctx context.Context) error {
	if err := s.Cache.DeletePrefix(ctx, KeyPrefix); err != nil {
		return err
	}
	config.Logger.Info("Page cache cleared")
	return nil
}
