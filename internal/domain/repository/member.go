package repository

import (
	"context"
	"time"
)

// Member es un alumno o docente dentro de la base de un instituto.
// Las cuentas viven en la DB del tenant, no en la global.
type Member struct {
	ID           string
	MemberID     string // student_id o teacher_id, único dentro del instituto
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberRepository define las operaciones de login de alumnos y docentes.
// Cada instancia está ligada al pool de un instituto concreto.
type MemberRepository interface {
	// GetStudent busca un alumno por student_id. ErrNotFound si no existe.
	GetStudent(ctx context.Context, studentID string) (*Member, error)

	// GetTeacher busca un docente por teacher_id. ErrNotFound si no existe.
	GetTeacher(ctx context.Context, teacherID string) (*Member, error)

	// TouchStudentLogin / TouchTeacherLogin actualizan last_login.
	TouchStudentLogin(ctx context.Context, id string, at time.Time) error
	TouchTeacherLogin(ctx context.Context, id string, at time.Time) error
}
