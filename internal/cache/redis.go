package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/edunexus/internal/config"
)

// redisClient es el backend compartido entre réplicas.
type redisClient struct {
	rdb    *redis.Client
	prefix string
}

func newRedis(cfg config.RedisConfig) (*redisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "edunexus"
	}
	return &redisClient{rdb: rdb, prefix: prefix}, nil
}

func (r *redisClient) key(k string) string { return r.prefix + ":" + k }

func (r *redisClient) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *redisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *redisClient) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

func (r *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(key)).Result()
	return n > 0, err
}

func (r *redisClient) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *redisClient) Close() error { return r.rdb.Close() }

// Raw expone el cliente subyacente (lo usa el rate limiter).
func (r *redisClient) Raw() *redis.Client { return r.rdb }
