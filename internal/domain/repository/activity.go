package repository

import (
	"context"
	"time"
)

// LoginActivity es el registro de un intento de login (exitoso o no).
type LoginActivity struct {
	ID          string
	UserID      string
	Role        string // institute | student | teacher
	InstituteID string
	IP          string
	UserAgent   string
	Status      string // success | failed
	CreatedAt   time.Time
}

// ActivityRepository persiste la actividad de login en la base global.
type ActivityRepository interface {
	// Record inserta un evento. Los errores se loguean pero no deben
	// interrumpir el flujo de login.
	Record(ctx context.Context, a LoginActivity) error

	// ListByUser retorna los últimos n eventos de un usuario.
	ListByUser(ctx context.Context, userID string, n int) ([]LoginActivity, error)
}
