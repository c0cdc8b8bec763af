package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/edunexus/internal/domain/repository"
)

// InstituteRepo implementa repository.InstituteRepository sobre la DB global.
type InstituteRepo struct {
	pool *pgxpool.Pool
}

const instituteCols = `id, owner_name, email, password_hash, institute_name, institute_code,
	is_verified, verify_code_hash, verify_code_expiry, status, last_login, created_at, updated_at`

func scanInstitute(row pgx.Row) (*repository.Institute, error) {
	var in repository.Institute
	err := row.Scan(
		&in.ID, &in.OwnerName, &in.Email, &in.PasswordHash, &in.InstituteName, &in.InstituteCode,
		&in.IsVerified, &in.VerifyCodeHash, &in.VerifyCodeExpiry, &in.Status, &in.LastLogin,
		&in.CreatedAt, &in.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *InstituteRepo) GetByEmail(ctx context.Context, email string) (*repository.Institute, error) {
	q := `SELECT ` + instituteCols + ` FROM institutes WHERE lower(email) = lower($1)`
	return scanInstitute(r.pool.QueryRow(ctx, q, email))
}

// GetByIdentifier acepta email, institute_code o id. El id solo entra en el
// OR cuando el identificador parsea como UUID; si no, postgres rechazaría el
// cast y tiraría abajo la query entera.
func (r *InstituteRepo) GetByIdentifier(ctx context.Context, identifier string) (*repository.Institute, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, repository.ErrInvalidInput
	}

	q := `SELECT ` + instituteCols + ` FROM institutes
		WHERE lower(email) = lower($1) OR upper(institute_code) = upper($1)`
	args := []any{identifier}
	if _, err := uuid.Parse(identifier); err == nil {
		q += ` OR id = $2::uuid`
		args = append(args, identifier)
	}
	q += ` LIMIT 1`
	return scanInstitute(r.pool.QueryRow(ctx, q, args...))
}

func (r *InstituteRepo) Create(ctx context.Context, in repository.CreateInstituteInput) (*repository.Institute, error) {
	q := `INSERT INTO institutes
		(owner_name, email, password_hash, institute_name, institute_code, verify_code_hash, verify_code_expiry)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		RETURNING ` + instituteCols
	row := r.pool.QueryRow(ctx, q,
		in.OwnerName, in.Email, in.PasswordHash, in.InstituteName, in.InstituteCode,
		in.VerifyCodeHash, in.VerifyCodeExpiry,
	)
	inst, err := scanInstitute(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return inst, nil
}

func (r *InstituteRepo) UpdateRegistration(ctx context.Context, id, ownerName, instituteName, passwordHash, codeHash string, codeExpiry time.Time) error {
	q := `UPDATE institutes SET
			owner_name = $2, institute_name = $3, password_hash = $4,
			verify_code_hash = $5, verify_code_expiry = $6, updated_at = now()
		WHERE id = $1::uuid AND is_verified = FALSE`
	tag, err := r.pool.Exec(ctx, q, id, ownerName, instituteName, passwordHash, codeHash, codeExpiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InstituteRepo) SetVerifyCode(ctx context.Context, id, codeHash string, codeExpiry time.Time) error {
	q := `UPDATE institutes SET verify_code_hash = $2, verify_code_expiry = $3, updated_at = now()
		WHERE id = $1::uuid`
	tag, err := r.pool.Exec(ctx, q, id, codeHash, codeExpiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InstituteRepo) MarkVerified(ctx context.Context, id string) error {
	q := `UPDATE institutes SET is_verified = TRUE, verify_code_hash = NULL,
			verify_code_expiry = NULL, updated_at = now()
		WHERE id = $1::uuid`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Columnas editables vía UpdateInformation. Todo lo demás se ignora.
var updatableCols = map[string]string{
	"owner_name":     "owner_name",
	"institute_name": "institute_name",
	"status":         "status",
}

func (r *InstituteRepo) UpdateInformation(ctx context.Context, instituteCode string, info map[string]any) (*repository.Institute, error) {
	sets := make([]string, 0, len(info)+1)
	args := []any{instituteCode}
	for k, v := range info {
		col, ok := updatableCols[k]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil, repository.ErrInvalidInput
	}
	sets = append(sets, "updated_at = now()")

	q := `UPDATE institutes SET ` + strings.Join(sets, ", ") +
		` WHERE upper(institute_code) = upper($1) RETURNING ` + instituteCols
	return scanInstitute(r.pool.QueryRow(ctx, q, args...))
}

func (r *InstituteRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE institutes SET last_login = $2, updated_at = now() WHERE id = $1::uuid`, id, at)
	return err
}

func (r *InstituteRepo) MaxCodeSuffix(ctx context.Context, prefix string) (int, error) {
	// El sufijo es el tramo numérico final del código; los códigos legacy sin
	// sufijo numérico no cuentan.
	q := `SELECT COALESCE(MAX((substring(institute_code from '\d+$'))::int), 0)
		FROM institutes
		WHERE upper(institute_code) LIKE upper($1) || '%'
		  AND institute_code ~ '\d+$'`
	var max int
	if err := r.pool.QueryRow(ctx, q, prefix).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
