package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/edunexus/internal/config"
)

// ErrNotFound indica cache miss.
var ErrNotFound = errors.New("cache: key not found")

// Client es la interfaz mínima que consumen los servicios. Los valores
// viajan como bytes; la (de)serialización es responsabilidad del caller.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// New construye el backend según config: "redis" o "memory" (default).
func New(cfg config.CacheConfig) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return newRedis(cfg.Redis)
	default:
		return newMemory(cfg.Memory)
	}
}
