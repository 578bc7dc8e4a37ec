package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los traducen a códigos de estado; ninguna capa los reintenta.
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrInvalidQuantity          = errors.New("cantidad inválida para el tipo de movimiento")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrInsufficientAvailability = errors.New("disponibilidad insuficiente para reservar")
	ErrInvalidState             = errors.New("estado inválido para la operación")
	ErrAlreadyCompleted         = errors.New("la transacción ya fue completada")
	ErrDuplicate                = errors.New("recurso duplicado")
	ErrEmailAlreadyExists       = errors.New("el email ya está registrado")
	ErrUserNotFound             = errors.New("usuario no encontrado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
)
