package middlewares

import (
	"net/http"
	"runtime/debug"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
)

// Recover convierte panics en 500 sin tirar abajo el proceso.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recovered",
					logger.Path(r.URL.Path),
					logger.Any("panic", rec),
					logger.Any("stack", string(debug.Stack())),
				)
				apperrors.Write(w, r, apperrors.Internal("panic"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
