package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// IoTSystemActor identifica los registros creados por el puente IoT (no es un usuario real).
const IoTSystemActor = "IoT_System"

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, operator
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsReviewer indica si el rol puede aprobar/rechazar registros y resolver incidencias.
func IsReviewer(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// ValidRole valida el rol recibido en registro.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator:
		return true
	}
	return false
}
