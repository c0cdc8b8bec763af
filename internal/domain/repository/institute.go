package repository

import (
	"context"
	"time"
)

// Status de la cuenta de un instituto.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBlocked  = "blocked"
	StatusPending  = "pending"
)

// Institute es la cuenta tenant: un registro por instituto.
//
// Invariantes:
//   - IsVerified=true implica VerifyCodeHash y VerifyCodeExpiry en nil
//     (el código se limpia al verificar).
//   - Un código es usable solo mientras now <= VerifyCodeExpiry.
type Institute struct {
	ID            string
	OwnerName     string // nombre de la persona que registró la cuenta
	Email         string // único, siempre en minúsculas
	PasswordHash  string
	InstituteName string
	InstituteCode string // único, derivado del nombre (ej: "SMIS0001")

	IsVerified       bool
	VerifyCodeHash   *string
	VerifyCodeExpiry *time.Time

	Status    string
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInstituteInput contiene los datos para crear un instituto.
type CreateInstituteInput struct {
	OwnerName        string
	Email            string
	PasswordHash     string
	InstituteName    string
	InstituteCode    string
	VerifyCodeHash   string
	VerifyCodeExpiry time.Time
}

// InstituteRepository define las operaciones sobre cuentas de instituto.
type InstituteRepository interface {
	// GetByEmail busca por email (exacto, minúsculas). ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Institute, error)

	// GetByIdentifier busca por email O institute_code O id (el id solo se
	// considera cuando identifier parsea como UUID). Primer match gana.
	GetByIdentifier(ctx context.Context, identifier string) (*Institute, error)

	// Create inserta una cuenta nueva, sin verificar. ErrConflict si el email
	// o el código ya existen.
	Create(ctx context.Context, in CreateInstituteInput) (*Institute, error)

	// UpdateRegistration sobreescribe los datos re-enviados de un registro sin
	// verificar (last-submitted-wins) junto con el nuevo código.
	UpdateRegistration(ctx context.Context, id, ownerName, instituteName, passwordHash, codeHash string, codeExpiry time.Time) error

	// SetVerifyCode guarda un código nuevo pisando el anterior.
	SetVerifyCode(ctx context.Context, id, codeHash string, codeExpiry time.Time) error

	// MarkVerified marca la cuenta como verificada y limpia código y expiry.
	MarkVerified(ctx context.Context, id string) error

	// UpdateInformation actualiza los datos públicos del instituto por código.
	UpdateInformation(ctx context.Context, instituteCode string, info map[string]any) (*Institute, error)

	// TouchLastLogin actualiza la marca de último login exitoso.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// MaxCodeSuffix retorna el mayor sufijo numérico entre los códigos que
	// empiezan con prefix (case-insensitive). 0 si no hay ninguno.
	MaxCodeSuffix(ctx context.Context, prefix string) (int, error)
}
