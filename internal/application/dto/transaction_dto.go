package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLineRequest línea de una transacción a crear.
type TransactionLineRequest struct {
	ProductID             string           `json:"product_id"`
	Quantity              decimal.Decimal  `json:"quantity"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	BatchID               string           `json:"batch_id,omitempty"`
	UnitCost              *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateTransactionRequest body para POST /api/transactions.
// INBOUND exige destination_warehouse_id; OUTBOUND y ADJUSTMENT exigen
// source_warehouse_id; TRANSFER exige ambos.
type CreateTransactionRequest struct {
	Type                   string                   `json:"type"`
	SourceWarehouseID      string                   `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string                   `json:"destination_warehouse_id,omitempty"`
	Lines                  []TransactionLineRequest `json:"lines"`
	Reason                 string                   `json:"reason,omitempty"`
	ReferenceID            string                   `json:"reference_id,omitempty"`
}

// TransactionLineResponse línea persistida.
type TransactionLineResponse struct {
	ID                    string           `json:"id"`
	ProductID             string           `json:"product_id"`
	Quantity              decimal.Decimal  `json:"quantity"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	BatchID               string           `json:"batch_id,omitempty"`
	UnitCost              *decimal.Decimal `json:"unit_cost,omitempty"`
}

// TransactionResponse transacción con líneas y estado.
type TransactionResponse struct {
	ID                     string                    `json:"id"`
	Type                   string                    `json:"type"`
	Status                 string                    `json:"status"`
	SourceWarehouseID      string                    `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string                    `json:"destination_warehouse_id,omitempty"`
	Lines                  []TransactionLineResponse `json:"lines"`
	Reason                 string                    `json:"reason,omitempty"`
	ReferenceID            string                    `json:"reference_id,omitempty"`
	CreatedAt              time.Time                 `json:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at"`
}
