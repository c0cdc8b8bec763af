package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
)

// MemberRepo implementa repository.MemberRepository sobre el pool de UN
// tenant. Se construye por request vía el manager de pools.
type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo { return &MemberRepo{pool: pool} }

const memberCols = `id, member_id, name, email, password_hash, active, last_login, created_at, updated_at`

func scanMember(row pgx.Row) (*repository.Member, error) {
	var m repository.Member
	err := row.Scan(&m.ID, &m.MemberID, &m.Name, &m.Email, &m.PasswordHash, &m.Active,
		&m.LastLogin, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepo) GetStudent(ctx context.Context, studentID string) (*repository.Member, error) {
	q := `SELECT ` + memberCols + ` FROM students WHERE upper(member_id) = upper($1)`
	return scanMember(r.pool.QueryRow(ctx, q, studentID))
}

func (r *MemberRepo) GetTeacher(ctx context.Context, teacherID string) (*repository.Member, error) {
	q := `SELECT ` + memberCols + ` FROM teachers WHERE upper(member_id) = upper($1)`
	return scanMember(r.pool.QueryRow(ctx, q, teacherID))
}

func (r *MemberRepo) TouchStudentLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET last_login = $2, updated_at = now() WHERE id = $1::uuid`, id, at)
	return err
}

func (r *MemberRepo) TouchTeacherLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE teachers SET last_login = $2, updated_at = now() WHERE id = $1::uuid`, id, at)
	return err
}
