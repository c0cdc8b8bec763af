package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/edunexus/internal/config"
)

// memoryClient envuelve go-cache para entornos de un solo proceso (dev, tests).
type memoryClient struct {
	c *gocache.Cache
}

func newMemory(cfg config.MemoryCacheConfig) (*memoryClient, error) {
	defTTL := gocache.NoExpiration
	if cfg.DefaultTTL != "" {
		d, err := time.ParseDuration(cfg.DefaultTTL)
		if err == nil && d > 0 {
			defTTL = d
		}
	}
	return &memoryClient{c: gocache.New(defTTL, 10*time.Minute)}, nil
}

func (m *memoryClient) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrNotFound
	}
	// copia defensiva: go-cache comparte el slice entre lectores
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *memoryClient) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b := make([]byte, len(value))
	copy(b, value)
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(key)
	return ok, nil
}

func (m *memoryClient) Ping(_ context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
