package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore shares cached responses between API replicas. Connectivity
// errors are logged and reported as misses.
type RedisStore struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedis(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &RedisStore{redisdb: redisdb, ttl: ttl}
}

// Ping checks redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if s == nil || s.redisdb == nil {
		return nil, false
	}

	b, err := s.redisdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().WarnContext(ctx, "cache_get_failed", "key", key, "err", err)
		}
		return nil, false
	}

	return b, true
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte) {
	if s == nil || s.redisdb == nil {
		return
	}

	if err := s.redisdb.Set(ctx, key, val, s.ttl).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache_set_failed", "key", key, "err", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) {
	if s == nil || s.redisdb == nil || len(keys) == 0 {
		return
	}

	if err := s.redisdb.Del(ctx, keys...).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache_delete_failed", "keys", keys, "err", err)
	}
}
