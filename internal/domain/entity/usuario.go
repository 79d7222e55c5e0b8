package entity

import "time"

// Roles de usuario.
const (
	RolAdmin      = "admin"
	RolSupervisor = "supervisor"
	RolOperador   = "operador"
)

// Usuario representa un usuario del sistema con su rol de autorización.
type Usuario struct {
	ID           string
	Email        string
	Nombre       string
	PasswordHash string
	Rol          string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RolValido valida contra la enumeración cerrada de roles.
func RolValido(s string) bool {
	switch s {
	case RolAdmin, RolSupervisor, RolOperador:
		return true
	}
	return false
}
