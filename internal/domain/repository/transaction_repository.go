package repository

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// TransactionRepository puerto de persistencia de transacciones de inventario
// y sus líneas.
type TransactionRepository interface {
	// Create persiste la transacción con sus líneas (estado DRAFT).
	Create(tx *entity.InventoryTransaction) error
	GetByID(companyID, id string) (*entity.InventoryTransaction, error)
	// GetForUpdate bloquea la fila de cabecera: la verificación de estado y el
	// cambio a COMPLETED/CANCELLED deben ser una sola secuencia serializada.
	GetForUpdate(companyID, id string) (*entity.InventoryTransaction, error)
	UpdateStatus(companyID, id string, status entity.TransactionStatus) error
	List(companyID string, status entity.TransactionStatus, limit, offset int) ([]*entity.InventoryTransaction, error)
}
