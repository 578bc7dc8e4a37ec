package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AverageCost costo promedio ponderado vigente por (producto, bodega).
// Solo método WEIGHTED_AVERAGE: se recalcula en cada entrada y se lee sin
// modificar en cada salida.
type AverageCost struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	UnitCost    decimal.Decimal
	UpdatedAt   time.Time
}
