package institute

import (
	"strings"
	"time"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
)

// RegisterRequest es el alta (o re-alta sin verificar) de un instituto.
type RegisterRequest struct {
	OwnerName     string `json:"owner_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	InstituteName string `json:"institute_name"`
}

func (r *RegisterRequest) Normalize() {
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.InstituteName = strings.TrimSpace(r.InstituteName)
}

func (r *RegisterRequest) Validate() error {
	r.Normalize()
	switch {
	case r.OwnerName == "":
		return apperrors.Validation("owner_name es requerido")
	case r.Email == "" || !strings.Contains(r.Email, "@"):
		return apperrors.Validation("email inválido")
	case len(r.Password) < 8:
		return apperrors.Validation("password debe tener al menos 8 caracteres")
	case r.InstituteName == "":
		return apperrors.Validation("institute_name es requerido")
	}
	return nil
}

type RegisterResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	InstituteCode string `json:"institute_code"`
	EmailSent     bool   `json:"email_sent"`
	Message       string `json:"message"`
}

// SendCodeRequest pide (re)emitir el código de verificación. La cuenta se
// resuelve por identifier: email, institute_code o id.
type SendCodeRequest struct {
	Identifier string `json:"identifier"`
}

func (r *SendCodeRequest) Validate() error {
	r.Identifier = strings.TrimSpace(r.Identifier)
	if r.Identifier == "" {
		return apperrors.Validation("identifier es requerido")
	}
	return nil
}

type SendCodeResponse struct {
	EmailSent bool      `json:"email_sent"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyCodeRequest confirma el código recibido por email. Acepta el mismo
// identifier que SendCodeRequest.
type VerifyCodeRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

func (r *VerifyCodeRequest) Validate() error {
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.Code = strings.TrimSpace(r.Code)
	if r.Identifier == "" {
		return apperrors.Validation("identifier es requerido")
	}
	if r.Code == "" {
		return apperrors.Validation("code es requerido")
	}
	return nil
}

type VerifyCodeResponse struct {
	Verified        bool `json:"verified"`
	AlreadyVerified bool `json:"already_verified,omitempty"`
}

type CheckEmailResponse struct {
	Exists   bool `json:"exists"`
	Verified bool `json:"verified"`
}

// View es la cara pública de un instituto (sin hashes ni código OTP).
type View struct {
	ID            string     `json:"id"`
	OwnerName     string     `json:"owner_name"`
	Email         string     `json:"email"`
	InstituteName string     `json:"institute_name"`
	InstituteCode string     `json:"institute_code"`
	IsVerified    bool       `json:"is_verified"`
	Status        string     `json:"status"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UpdateRequest actualiza los datos públicos por institute_code.
type UpdateRequest struct {
	InstituteCode string         `json:"institute_code"`
	Info          map[string]any `json:"info"`
}

func (r *UpdateRequest) Validate() error {
	r.InstituteCode = strings.TrimSpace(r.InstituteCode)
	if r.InstituteCode == "" {
		return apperrors.Validation("institute_code es requerido")
	}
	if len(r.Info) == 0 {
		return apperrors.Validation("info no puede estar vacío")
	}
	return nil
}
