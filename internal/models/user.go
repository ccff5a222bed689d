package models

import "time"

// UserRole represents the available roles. The literal values are part of the
// API contract: they travel inside tokens and user payloads.
type UserRole string

const (
	RoleAdmin      UserRole = "Admin"
	RoleProfesor   UserRole = "Profesor"
	RoleEstudiante UserRole = "Estudiante"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfesor, RoleEstudiante:
		return true
	}
	return false
}

// User represents an application user stored in the users table. The password
// hash is never serialized to clients.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
