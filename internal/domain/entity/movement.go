package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// MovementType tipo cerrado de movimiento de inventario.
type MovementType string

const (
	MovementTypeIN          MovementType = "IN"           // entrada (compra, recepción)
	MovementTypeOUT         MovementType = "OUT"          // salida (venta, despacho)
	MovementTypeADJUSTMENT  MovementType = "ADJUSTMENT"   // ajuste con signo (conteo cíclico)
	MovementTypeTransferIN  MovementType = "TRANSFER_IN"  // entrada por traslado
	MovementTypeTransferOUT MovementType = "TRANSFER_OUT" // salida por traslado
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTransferIN, MovementTypeTransferOUT:
		return true
	}
	return false
}

// IsInbound indica si el tipo aumenta la cantidad en bodega.
// ADJUSTMENT no tiene dirección fija: el signo viene en la cantidad.
func (t MovementType) IsInbound() bool {
	return t == MovementTypeIN || t == MovementTypeTransferIN
}

// IsOutbound indica si el tipo disminuye la cantidad en bodega.
func (t MovementType) IsOutbound() bool {
	return t == MovementTypeOUT || t == MovementTypeTransferOUT
}

// SignedQuantity resuelve la cantidad con signo a aplicar sobre la posición.
// IN/TRANSFER_IN y OUT/TRANSFER_OUT exigen magnitud positiva (el tipo define la
// dirección); ADJUSTMENT acepta la cantidad con signo tal cual, pero no cero.
func (t MovementType) SignedQuantity(quantity decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case t.IsInbound():
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		return quantity, nil
	case t.IsOutbound():
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		return quantity.Neg(), nil
	case t == MovementTypeADJUSTMENT:
		if quantity.IsZero() {
			return decimal.Zero, domain.ErrInvalidQuantity
		}
		return quantity, nil
	}
	return decimal.Zero, domain.ErrInvalidQuantity
}

// Movement registro inmutable de un cambio de cantidad (unidad de auditoría del
// ledger). Se crea y persiste en el mismo instante en que se aplica el cambio;
// nunca se actualiza ni se borra.
type Movement struct {
	ID            string
	CompanyID     string
	TransactionID string // agrupa movimientos emitidos por una misma transacción
	ProductID     string
	WarehouseID   string
	LocationID    string // opcional, "" = sin ubicación
	BatchID       string // opcional, "" = sin lote
	Type          MovementType
	Quantity      decimal.Decimal // con signo ya resuelto (negativo = salida)
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Reason        string
	ReferenceID   string // documento externo: orden de compra, factura, conteo
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
