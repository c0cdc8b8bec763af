package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
	"github.com/dropDatabas3/edunexus/internal/observability/logger"
	"github.com/dropDatabas3/edunexus/internal/rate"
)

// ClientIP resuelve la IP real del cliente (X-Forwarded-For primero).
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit limita por IP sobre la ruta envuelta. key distingue la ventana
// entre endpoints ("login", "send-code").
func RateLimit(l rate.Limiter, key string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), key+":"+ClientIP(r), limit, window)
			if err != nil {
				// limiter caído: dejamos pasar antes que bloquear el producto
				logger.From(r.Context()).Warn("rate limiter unavailable",
					logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryIn.Seconds())))
				apperrors.Write(w, r, apperrors.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
