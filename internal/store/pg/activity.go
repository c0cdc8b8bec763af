package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

// ActivityRepo persiste login_activity en la base global.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

// Record inserta el evento. Un fallo acá no debe cortar el login: se loguea
// y se devuelve el error para que el caller decida (los servicios lo ignoran).
func (r *ActivityRepo) Record(ctx context.Context, a repository.LoginActivity) error {
	q := `INSERT INTO login_activity (user_id, role, institute_id, ip, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, q, a.UserID, a.Role, a.InstituteID, a.IP, a.UserAgent, a.Status)
	if err != nil {
		logger.From(ctx).Warn("login activity insert failed",
			logger.Component("pg"), logger.UserID(a.UserID), logger.Err(err))
	}
	return err
}

func (r *ActivityRepo) ListByUser(ctx context.Context, userID string, n int) ([]repository.LoginActivity, error) {
	if n <= 0 || n > 200 {
		n = 50
	}
	q := `SELECT id, user_id, role, institute_id, ip, user_agent, status, created_at
		FROM login_activity WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.LoginActivity
	for rows.Next() {
		var a repository.LoginActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.InstituteID, &a.IP, &a.UserAgent, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
