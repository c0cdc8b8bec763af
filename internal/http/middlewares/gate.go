package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/edunexus/internal/jwt"
)

// Rutas exactas accesibles sin sesión, además de todo lo que cuelga de /auth.
var publicExact = map[string]struct{}{
	"/":                   {},
	"/institute-login":    {},
	"/institute-register": {},
	"/forgot-password":    {},
}

// Prefijos de sección por rol. Cada rol solo navega su propia sección.
var roleSections = map[string]string{
	jwt.RoleInstitute: "/institute",
	jwt.RoleStudent:   "/student",
	jwt.RoleTeacher:   "/teacher",
	jwt.RoleUser:      "/user",
}

func isPublicPath(path string) bool {
	if strings.HasPrefix(path, "/auth") {
		return true
	}
	_, ok := publicExact[path]
	return ok
}

func dashboardFor(role string) string {
	if section, ok := roleSections[role]; ok {
		return section + "/dashboard"
	}
	return "/"
}

// Gate es el control de navegación de la app:
//
//   - sin sesión y ruta no pública: redirect a "/"
//   - con sesión en la sección de OTRO rol: redirect al dashboard propio
//
// Las rutas públicas dejan pasar a cualquiera, con o sin sesión. Corre
// después de Authenticate.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		sc := SessionFrom(r.Context())

		if sc == nil {
			if !isPublicPath(path) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		for role, section := range roleSections {
			if role == sc.Role {
				continue
			}
			if path == section || strings.HasPrefix(path, section+"/") {
				http.Redirect(w, r, dashboardFor(sc.Role), http.StatusFound)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
