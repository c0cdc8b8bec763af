package rate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describe el estado de la ventana luego de consumir un intento.
type Result struct {
	Allowed   bool
	Remaining int
	RetryIn   time.Duration
}

// Limiter limita intentos por clave en una ventana de tiempo.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// RedisLimiter implementa fixed-window sobre Redis (INCR + EXPIRE).
// Fixed window alcanza para login/send-code; no necesitamos sliding.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rate"
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k := l.prefix + ":" + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	n := int(incr.Val())
	if n > limit {
		ttl, err := l.rdb.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return Result{Allowed: false, Remaining: 0, RetryIn: ttl}, nil
	}
	return Result{Allowed: true, Remaining: limit - n}, nil
}

// NoopLimiter permite todo. Se usa cuando rate.enabled=false o no hay Redis.
type NoopLimiter struct{}

func (NoopLimiter) Allow(_ context.Context, _ string, limit int, _ time.Duration) (Result, error) {
	return Result{Allowed: true, Remaining: limit}, nil
}
