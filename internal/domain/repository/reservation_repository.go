package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ReservationRepository puerto de persistencia de reservas.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	GetByID(companyID, id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila de la reserva para una transición de estado.
	GetForUpdate(companyID, id string) (*entity.Reservation, error)
	// Update persiste estado y ReleasedAt tras una transición.
	Update(reservation *entity.Reservation) error
	// SumHolding suma las cantidades en PENDING/ACTIVE de (producto, bodega):
	// lo comprometido contra ATP.
	SumHolding(companyID, productID, warehouseID string) (decimal.Decimal, error)
	// ExpireDue transiciona en bloque a EXPIRED las reservas ACTIVE con
	// expires_at vencido. Idempotente: filas ya no-ACTIVE no se tocan.
	// Devuelve cuántas filas transicionó.
	ExpireDue(now time.Time) (int, error)
	List(companyID, productID, warehouseID string, limit, offset int) ([]*entity.Reservation, error)
}
