package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// TransactionType tipo de transacción de inventario (unidad de orquestación).
type TransactionType string

const (
	TransactionTypeInbound    TransactionType = "INBOUND"
	TransactionTypeOutbound   TransactionType = "OUTBOUND"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInbound, TransactionTypeOutbound, TransactionTypeTransfer, TransactionTypeAdjustment:
		return true
	}
	return false
}

// TransactionStatus estado del ciclo de vida de la transacción.
type TransactionStatus string

const (
	TransactionStatusDraft           TransactionStatus = "DRAFT"
	TransactionStatusPendingApproval TransactionStatus = "PENDING_APPROVAL"
	TransactionStatusApproved        TransactionStatus = "APPROVED"
	TransactionStatusCompleted       TransactionStatus = "COMPLETED"
	TransactionStatusCancelled       TransactionStatus = "CANCELLED"
)

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusDraft, TransactionStatusPendingApproval, TransactionStatusApproved,
		TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// TransactionLine línea de una transacción: un producto y una cantidad.
// Para ADJUSTMENT la cantidad lleva signo; para el resto es magnitud positiva.
type TransactionLine struct {
	ID                    string
	TransactionID         string
	ProductID             string
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
	BatchID               string
	UnitCost              *decimal.Decimal // obligatorio en líneas de entrada
}

// InventoryTransaction agrupa cambios de cantidad en una unidad atómica con
// ciclo DRAFT → COMPLETED/CANCELLED. Confirmar es el único punto que toca
// stock, movimientos y valoración; una transacción cancelada nunca tocó stock.
type InventoryTransaction struct {
	ID                     string
	CompanyID              string
	Type                   TransactionType
	Status                 TransactionStatus
	SourceWarehouseID      string
	DestinationWarehouseID string
	Lines                  []TransactionLine
	Reason                 string
	ReferenceID            string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	CreatedBy              string
}

// CanConfirm valida que la transacción pueda confirmarse exactamente una vez.
// COMPLETED repetido es ErrAlreadyCompleted (confirmación idempotente en el
// sentido de no producir movimientos adicionales); CANCELLED es ErrInvalidState.
func (t *InventoryTransaction) CanConfirm() error {
	switch t.Status {
	case TransactionStatusDraft, TransactionStatusApproved:
		return nil
	case TransactionStatusCompleted:
		return domain.ErrAlreadyCompleted
	default:
		return domain.ErrInvalidState
	}
}

// CanCancel valida la cancelación: solo antes de COMPLETED.
func (t *InventoryTransaction) CanCancel() error {
	switch t.Status {
	case TransactionStatusDraft, TransactionStatusPendingApproval, TransactionStatusApproved:
		return nil
	default:
		return domain.ErrInvalidState
	}
}

// ValidateWarehouses exige las bodegas requeridas según el tipo:
// INBOUND solo destino, OUTBOUND y ADJUSTMENT solo origen, TRANSFER ambas
// (y distintas).
func (t *InventoryTransaction) ValidateWarehouses() error {
	switch t.Type {
	case TransactionTypeInbound:
		if t.DestinationWarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case TransactionTypeOutbound, TransactionTypeAdjustment:
		if t.SourceWarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case TransactionTypeTransfer:
		if t.SourceWarehouseID == "" || t.DestinationWarehouseID == "" || t.SourceWarehouseID == t.DestinationWarehouseID {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
