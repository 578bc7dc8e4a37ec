package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// ReservationStatus estado de una reserva.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusReleased  ReservationStatus = "RELEASED"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// CountsAgainstATP indica si el estado descuenta disponibilidad.
// Solo PENDING y ACTIVE comprometen stock.
func (s ReservationStatus) CountsAgainstATP() bool {
	return s == ReservationStatusPending || s == ReservationStatusActive
}

// IsTerminal indica si el estado es final (sin transiciones posteriores).
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationStatusExpired, ReservationStatusReleased, ReservationStatusFulfilled, ReservationStatusCancelled:
		return true
	}
	return false
}

// Reservation demanda prometida contra stock en bodega sin moverlo
// físicamente. La cumple (FULFILLED) una salida física registrada por el
// caller; nunca se transiciona de forma automática.
type Reservation struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	LocationID  string // opcional
	BatchID     string // opcional
	Quantity    decimal.Decimal
	Status      ReservationStatus
	Priority    int
	ReferenceID string // documento externo (orden de venta, picking)
	ReservedAt  time.Time
	ExpiresAt   *time.Time // nil = no expira
	ReleasedAt  *time.Time
	CreatedBy   string
}

// IsExpiredAt indica si la reserva activa ya venció en el instante dado.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.Status == ReservationStatusActive && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Transition valida y aplica un cambio de estado. Los estados terminales son
// finales: cualquier intento posterior devuelve ErrInvalidState.
func (r *Reservation) Transition(to ReservationStatus, now time.Time) error {
	if r.Status.IsTerminal() {
		return domain.ErrInvalidState
	}
	switch to {
	case ReservationStatusActive:
		if r.Status != ReservationStatusPending {
			return domain.ErrInvalidState
		}
	case ReservationStatusReleased, ReservationStatusFulfilled, ReservationStatusCancelled:
		if !r.Status.CountsAgainstATP() {
			return domain.ErrInvalidState
		}
	case ReservationStatusExpired:
		if r.Status != ReservationStatusActive {
			return domain.ErrInvalidState
		}
	default:
		return domain.ErrInvalidState
	}
	r.Status = to
	if to.IsTerminal() {
		r.ReleasedAt = &now
	}
	return nil
}
