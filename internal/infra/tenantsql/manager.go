package tenantsql

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

//go:embed tenant_schema.sql
var tenantSchemaSQL string

// Manager mantiene un pool por tenant, abierto lazy la primera vez que un
// request del instituto lo necesita. singleflight evita que N requests
// concurrentes abran N pools para el mismo código.
type Manager struct {
	// DSNTemplate arma el DSN del tenant; %s se reemplaza por el
	// institute_code en minúsculas.
	DSNTemplate string

	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
	sf    singleflight.Group
}

func NewManager(dsnTemplate string) *Manager {
	return &Manager{
		DSNTemplate: dsnTemplate,
		pools:       make(map[string]*pgxpool.Pool),
	}
}

// Pool retorna el pool del tenant, abriéndolo (y migrándolo) si es la
// primera vez. repository.ErrNoDatabase si no hay template configurado.
func (m *Manager) Pool(ctx context.Context, instituteCode string) (*pgxpool.Pool, error) {
	code := strings.ToLower(strings.TrimSpace(instituteCode))
	if code == "" {
		return nil, repository.ErrInvalidInput
	}
	if m.DSNTemplate == "" {
		return nil, repository.ErrNoDatabase
	}

	m.mu.RLock()
	p, ok := m.pools[code]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := m.sf.Do(code, func() (any, error) {
		// double-check: otro vuelo pudo haberlo abierto mientras esperábamos
		m.mu.RLock()
		p, ok := m.pools[code]
		m.mu.RUnlock()
		if ok {
			return p, nil
		}
		return m.open(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return v.(*pgxpool.Pool), nil
}

func (m *Manager) open(ctx context.Context, code string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(m.DSNTemplate, code)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("tenantsql: open %s: %w", code, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("tenantsql: ping %s: %w", code, err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("tenantsql: migrate %s: %w", code, err)
	}

	m.mu.Lock()
	m.pools[code] = pool
	m.mu.Unlock()

	logger.Named("tenantsql").Info("tenant pool opened", logger.InstituteCode(code))
	return pool, nil
}

// Close cierra todos los pools abiertos. Se llama en el shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, p := range m.pools {
		p.Close()
		delete(m.pools, code)
	}
}
