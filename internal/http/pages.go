package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/http/middlewares"
)

// Las páginas de la app son shells mínimos: el frontend real las hidrata.
// Acá solo importa que existan como rutas para que el gate opere sobre
// navegación real.

func registerPages(r chi.Router) {
	r.Get("/", page("home"))
	r.Get("/institute-login", page("institute-login"))
	r.Get("/institute-register", page("institute-register"))
	r.Get("/forgot-password", page("forgot-password"))
	r.Get("/auth/*", page("auth"))

	for _, section := range []string{"institute", "student", "teacher"} {
		r.Get("/"+section+"/dashboard", dashboard(section))
		r.Get("/"+section+"/*", dashboard(section))
	}
}

func page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteJSON(w, http.StatusOK, map[string]string{"page": name})
	}
}

func dashboard(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := middlewares.SessionFrom(r.Context())
		apperrors.WriteJSON(w, http.StatusOK, map[string]any{
			"page": section + "/dashboard",
			"user": map[string]string{"id": sc.Sub, "role": sc.Role, "name": sc.Name},
		})
	}
}
