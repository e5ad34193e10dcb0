package redis

import (
	"context"
	"errors"
	"time"
	"yatube/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// scanBatch is the COUNT hint used while walking keys to delete.
const scanBatch = 100

// PageCacheRedis is a PageCache shared by every app instance.
type PageCacheRedis struct {
	Client *redis.Client
}

func NewPageCacheRedis(client *redis.Client) *PageCacheRedis {
	return &PageCacheRedis{Client: client}
}

func (r *PageCacheRedis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *PageCacheRedis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// DeletePrefix deletes every key matching prefix, walking the keyspace with SCAN.
func (r *PageCacheRedis) DeletePrefix(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := r.Client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			n, err := r.Client.Del(ctx, keys...).Result()
			if err != nil {
				return err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	config.Logger.Info("Deleted cached pages", zap.String("prefix", prefix), zap.Int64("count", deleted))
	return nil
}
