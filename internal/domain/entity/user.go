package entity

import "time"

// Roles de usuario: admin administra la empresa y su configuración de costeo,
// bodeguero opera movimientos y transacciones, vendedor reserva y consulta.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// ValidRole indica si el rol pertenece al conjunto cerrado.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User usuario de la aplicación (autenticación y actor de los movimientos).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanOperate indica si la cuenta puede autenticarse.
func (u *User) CanOperate() bool {
	return u.Status == UserStatusActive
}
