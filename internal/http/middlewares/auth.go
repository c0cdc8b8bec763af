package middlewares

import (
	"net/http"
	"strings"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/jwt"
)

// SessionCookie es el nombre de la cookie donde vive el token de sesión
// para la navegación de la app (la API usa Authorization: Bearer).
const SessionCookie = "session"

// Authenticate parsea el token (header o cookie) y, si es válido, deja los
// claims en el contexto. Nunca rechaza: eso es trabajo de RequireAuth o del
// route gate.
func Authenticate(issuer *jwt.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					token = c.Value
				}
			}
			if token != "" {
				if sc, err := issuer.Parse(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), sc))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth corta con 401 los requests de API sin sesión válida.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFrom(r.Context()) == nil {
			apperrors.Write(w, r, apperrors.Unauthorized("Sesión requerida"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole exige además un rol concreto.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := SessionFrom(r.Context())
			if sc == nil {
				apperrors.Write(w, r, apperrors.Unauthorized("Sesión requerida"))
				return
			}
			if sc.Role != role {
				apperrors.Write(w, r, apperrors.Forbidden(""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
