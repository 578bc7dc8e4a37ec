package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica una posición de stock. LocationID y BatchID son
// opcionales ("" = no aplica); el agregado de valoración y ATP se maneja a
// nivel (ProductID, WarehouseID).
type StockKey struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	BatchID     string
}

// StockPosition cantidad actual en bodega para una clave (agregado
// materializado desde los movimientos, nunca recalculado en lectura).
// Invariante: Quantity >= 0. Se crea perezosamente con el primer movimiento
// y nunca se elimina, solo se deja en cero.
type StockPosition struct {
	CompanyID string
	Key       StockKey
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
