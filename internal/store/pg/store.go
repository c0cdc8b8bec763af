package pg

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/edunexus/internal/config"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

//go:embed schema.sql
var schemaSQL string

// Lock id arbitrario pero estable para serializar migraciones de la DB global.
const migrateLockID = 0x45444e58 // "EDNX"

// Store agrupa el pool de la base global y sus repos.
type Store struct {
	Pool *pgxpool.Pool

	Institutes *InstituteRepo
	Activity   *ActivityRepo
}

// New abre el pool contra la base global y lo deja listo (ping incluido).
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	pc, err := pgxpool.ParseConfig(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if n := cfg.Storage.Postgres.MaxOpenConns; n > 0 {
		pc.MaxConns = int32(n)
	}
	if n := cfg.Storage.Postgres.MaxIdleConns; n > 0 {
		pc.MinConns = int32(n)
	}
	if s := cfg.Storage.Postgres.ConnMaxLifetime; s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			pc.MaxConnLifetime = d
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	s := &Store{Pool: pool}
	s.Institutes = &InstituteRepo{pool: pool}
	s.Activity = &ActivityRepo{pool: pool}
	return s, nil
}

// Migrate aplica el esquema de la base global. Idempotente; toma un
// advisory lock para que varias réplicas no migren a la vez.
func (s *Store) Migrate(ctx context.Context) error {
	log := logger.Named("pg")

	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("pg: acquire for migrate: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("pg: advisory lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pg: apply schema: %w", err)
	}
	log.Info("global schema up to date")
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.Pool.Ping(ctx) }

func (s *Store) Close() { s.Pool.Close() }
