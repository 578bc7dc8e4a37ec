package entity

import "time"

// ProductVariant variante de producto (SKU) sobre la que se lleva el ledger.
// El costo no vive aquí: lo administra el motor de valoración por bodega
// (AverageCost o ValuationLayer según el método del tenant).
type ProductVariant struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
