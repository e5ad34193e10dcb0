package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient is set by InitRedis when CACHE_BACKEND=redis.
var RedisClient *redis.Client

// InitRedis connects to redis and pings it.
func InitRedis(ctx context.Context, s *Settings) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})

	pong, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("error connecting to Redis: %w", err)
	}
	Logger.Info("Connected to Redis", zap.String("addr", s.RedisAddr), zap.String("ping", pong))
	return nil
}

// CloseRedis closes RedisClient if it was opened.
func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
