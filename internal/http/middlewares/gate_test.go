package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/edunexus/internal/jwt"
)

func gateRequest(t *testing.T, path string, sc *jwt.SessionClaims) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if sc != nil {
		r = r.WithContext(WithSession(r.Context(), sc))
	}
	w := httptest.NewRecorder()
	Gate(next).ServeHTTP(w, r)
	return w
}

func TestGateAnonymousPublicPaths(t *testing.T) {
	for _, path := range []string{"/", "/institute-login", "/institute-register", "/forgot-password", "/auth/callback"} {
		w := gateRequest(t, path, nil)
		require.Equal(t, http.StatusOK, w.Code, "path=%s", path)
	}
}

func TestGateAnonymousProtectedRedirectsHome(t *testing.T) {
	for _, path := range []string{"/institute/dashboard", "/student/dashboard", "/teacher/grades", "/settings"} {
		w := gateRequest(t, path, nil)
		require.Equal(t, http.StatusFound, w.Code, "path=%s", path)
		require.Equal(t, "/", w.Header().Get("Location"))
	}
}

func TestGateAuthedOnPublicPasses(t *testing.T) {
	// lo público deja pasar a cualquier rol, sin redirecciones
	for _, role := range []string{jwt.RoleInstitute, jwt.RoleStudent, jwt.RoleTeacher} {
		for _, path := range []string{"/", "/institute-login", "/auth/callback"} {
			w := gateRequest(t, path, &jwt.SessionClaims{Sub: "u1", Role: role})
			require.Equal(t, http.StatusOK, w.Code, "role=%s path=%s", role, path)
		}
	}
}

func TestGateForeignSectionRedirectsToOwnDashboard(t *testing.T) {
	sc := &jwt.SessionClaims{Sub: "u1", Role: jwt.RoleStudent}

	for _, path := range []string{"/institute/dashboard", "/teacher", "/teacher/courses", "/user/profile"} {
		w := gateRequest(t, path, sc)
		require.Equal(t, http.StatusFound, w.Code, "path=%s", path)
		require.Equal(t, "/student/dashboard", w.Header().Get("Location"))
	}
}

func TestGateUserSectionForeignForInstitute(t *testing.T) {
	sc := &jwt.SessionClaims{Sub: "i1", Role: jwt.RoleInstitute}

	w := gateRequest(t, "/user/profile", sc)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/institute/dashboard", w.Header().Get("Location"))
}

func TestGateOwnSectionPasses(t *testing.T) {
	sc := &jwt.SessionClaims{Sub: "u1", Role: jwt.RoleTeacher}

	for _, path := range []string{"/teacher/dashboard", "/teacher/courses/123"} {
		w := gateRequest(t, path, sc)
		require.Equal(t, http.StatusOK, w.Code, "path=%s", path)
	}
}

func TestGateSharedSectionPasses(t *testing.T) {
	// rutas fuera de las secciones por rol son compartidas entre autenticados
	w := gateRequest(t, "/settings", &jwt.SessionClaims{Sub: "u1", Role: jwt.RoleStudent})
	require.Equal(t, http.StatusOK, w.Code)
}
