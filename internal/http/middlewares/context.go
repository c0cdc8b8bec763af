package middlewares

import (
	"context"

	"github.com/dropDatabas3/edunexus/internal/jwt"
)

type ctxKeySession struct{}

// WithSession guarda los claims de la sesión autenticada en el contexto.
func WithSession(ctx context.Context, sc *jwt.SessionClaims) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, sc)
}

// SessionFrom retorna los claims del contexto, o nil si el request no está
// autenticado.
func SessionFrom(ctx context.Context) *jwt.SessionClaims {
	sc, _ := ctx.Value(ctxKeySession{}).(*jwt.SessionClaims)
	return sc
}
