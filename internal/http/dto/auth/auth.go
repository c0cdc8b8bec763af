package auth

import (
	"strings"
	"time"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/jwt"
)

// LoginRequest cubre los tres flujos de credenciales.
//
//   - role=institute: identifier (email | institute_code | id) + password
//   - role=student:   institute_code + member_id + password
//   - role=teacher:   institute_code + member_id + password
type LoginRequest struct {
	Role          string `json:"role"`
	Identifier    string `json:"identifier,omitempty"`
	InstituteCode string `json:"institute_code,omitempty"`
	MemberID      string `json:"member_id,omitempty"`
	Password      string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.InstituteCode = strings.TrimSpace(r.InstituteCode)
	r.MemberID = strings.TrimSpace(r.MemberID)

	if r.Password == "" {
		return apperrors.Validation("password es requerido")
	}
	switch r.Role {
	case jwt.RoleInstitute:
		if r.Identifier == "" {
			return apperrors.Validation("identifier es requerido")
		}
	case jwt.RoleStudent, jwt.RoleTeacher:
		if r.InstituteCode == "" {
			return apperrors.Validation("institute_code es requerido")
		}
		if r.MemberID == "" {
			return apperrors.Validation("member_id es requerido")
		}
	default:
		return apperrors.Validation("role debe ser institute, student o teacher")
	}
	return nil
}

// UserView es el usuario autenticado tal como lo ve el cliente.
type UserView struct {
	ID            string `json:"id"`
	Role          string `json:"role"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	InstituteID   string `json:"institute_id,omitempty"`
	InstituteCode string `json:"institute_code,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

type MeResponse struct {
	User UserView `json:"user"`
}
