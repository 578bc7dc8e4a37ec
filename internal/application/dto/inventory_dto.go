package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/movements (camino de una
// sola línea usado por recepción y reconciliación de conteos).
type AdjustStockRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	LocationID  string           `json:"location_id,omitempty"`
	BatchID     string           `json:"batch_id,omitempty"`
	Type        string           `json:"type"` // IN, OUT, ADJUSTMENT, TRANSFER_IN, TRANSFER_OUT
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"` // obligatorio en entradas
	Reason      string           `json:"reason,omitempty"`
	ReferenceID string           `json:"reference_id,omitempty"`
}

// MovementResponse movimiento registrado, con costos estampados.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	LocationID    string          `json:"location_id,omitempty"`
	BatchID       string          `json:"batch_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Reason        string          `json:"reason,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Date          time.Time       `json:"date"`
}

// StockResponse cantidad actual para una clave de stock.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ValuationResponse valoración vigente de (producto, bodega).
// Promedio ponderado reporta costo unitario; FIFO/LIFO valor total de capas.
type ValuationResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Method      string          `json:"method"`
	Value       decimal.Decimal `json:"value"`
}

// ValuationReportRow fila del reporte de valoración agrupado por
// (producto, bodega). Grupos con cantidad cero se omiten.
type ValuationReportRow struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}
