package repository

import (
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementRepository puerto de persistencia del log de movimientos
// (append-only: sin update ni delete).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(companyID, id string) (*entity.Movement, error)
	ListByWarehouse(companyID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// CountByTransaction cuenta movimientos emitidos por una transacción
	// (verificación de confirmación única).
	CountByTransaction(companyID, transactionID string) (int, error)
}
