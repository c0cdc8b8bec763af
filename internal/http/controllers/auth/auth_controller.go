package auth

import (
	"encoding/json"
	"net/http"

	dto "github.com/dropDatabas3/edunexus/internal/http/dto/auth"
	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/http/middlewares"
	authsvc "github.com/dropDatabas3/edunexus/internal/http/services/auth"
)

// Controller expone login y sesión actual.
type Controller struct {
	Login *authsvc.LoginService
}

func NewController(login *authsvc.LoginService) *Controller {
	return &Controller{Login: login}
}

// HandleLogin — POST /v1/auth/login
func (c *Controller) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		apperrors.Write(w, r, apperrors.Validation("body JSON inválido"))
		return
	}

	resp, err := c.Login.Login(r.Context(), req, authsvc.RequestMeta{
		IP:        middlewares.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	// cookie para la navegación de la app; la API puede seguir con Bearer
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleLogout — POST /v1/auth/logout
func (c *Controller) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	apperrors.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleMe — GET /v1/me (requiere sesión)
func (c *Controller) HandleMe(w http.ResponseWriter, r *http.Request) {
	sc := middlewares.SessionFrom(r.Context())
	if sc == nil {
		apperrors.Write(w, r, apperrors.Unauthorized("Sesión requerida"))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, dto.MeResponse{User: dto.UserView{
		ID:          sc.Sub,
		Role:        sc.Role,
		Name:        sc.Name,
		InstituteID: sc.InstituteID,
	}})
}
