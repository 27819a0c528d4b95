package entity

import "time"

// Roles válidos para User. El gate de acciones por rol vive en el middleware HTTP:
// bodeguero registra llegadas, calidad registra inspecciones, admin aprueba.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleCalidad   = "calidad"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, calidad
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
