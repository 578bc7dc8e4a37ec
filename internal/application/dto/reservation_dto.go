package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveStockRequest body para POST /api/reservations.
type ReserveStockRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Priority    int             `json:"priority,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// ReservationResponse reserva creada o consultada.
type ReservationResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	Priority    int             `json:"priority"`
	ReferenceID string          `json:"reference_id,omitempty"`
	ReservedAt  time.Time       `json:"reserved_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// ATPResponse disponibilidad para prometer de (producto, bodega).
type ATPResponse struct {
	ProductID          string          `json:"product_id"`
	WarehouseID        string          `json:"warehouse_id"`
	OnHand             decimal.Decimal `json:"on_hand"`
	Reserved           decimal.Decimal `json:"reserved"`
	AvailableToPromise decimal.Decimal `json:"available_to_promise"`
}
