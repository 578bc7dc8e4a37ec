package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationLayer capa de costeo (solo métodos FIFO/LIFO): un lote de entrada
// con costo propio que las salidas consumen en orden de recepción.
// Invariantes: QuantityRemaining >= 0; la suma de QuantityRemaining de todas
// las capas de (producto, bodega) es igual a la cantidad agregada en stock.
// Una capa agotada se conserva con remanente cero (historial de costeo).
type ValuationLayer struct {
	ID                string
	CompanyID         string
	ProductID         string
	WarehouseID       string
	QuantityOriginal  decimal.Decimal
	QuantityRemaining decimal.Decimal
	UnitCost          decimal.Decimal
	ReceivedAt        time.Time
	ReferenceID       string // movimiento o documento que originó la capa
	CreatedAt         time.Time
}
