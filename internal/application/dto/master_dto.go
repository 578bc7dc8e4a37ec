package dto

import "time"

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
}

// CompanyResponse empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// WarehouseResponse bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// ProductResponse variante de producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnitMeasure string    `json:"unit_measure,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValuationMethodResponse método de costeo vigente del tenant.
type ValuationMethodResponse struct {
	Method string `json:"method"`
}

// SetValuationMethodRequest body para PUT /api/settings/valuation-method.
type SetValuationMethodRequest struct {
	Method string `json:"method"` // WEIGHTED_AVERAGE, FIFO, LIFO
}
