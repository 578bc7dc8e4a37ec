package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// LayerValue valor total de capas por (producto, bodega), para reportes.
type LayerValue struct {
	ProductID   string
	WarehouseID string
	TotalValue  decimal.Decimal
}

// ValuationLayerRepository puerto de persistencia de capas de costeo FIFO/LIFO.
// Las capas nunca se eliminan: una capa agotada queda con remanente cero.
type ValuationLayerRepository interface {
	Create(layer *entity.ValuationLayer) error
	// ListOpenForUpdate devuelve las capas con remanente > 0 de (producto,
	// bodega) bloqueadas (FOR UPDATE), ordenadas por recepción: más antigua
	// primero (FIFO) o más reciente primero (LIFO) según newestFirst.
	ListOpenForUpdate(companyID, productID, warehouseID string, newestFirst bool) ([]*entity.ValuationLayer, error)
	// UpdateRemaining fija el remanente de una capa consumida.
	UpdateRemaining(layerID string, remaining decimal.Decimal) error
	// TotalValue suma remanente*costo de todas las capas de (producto, bodega).
	TotalValue(companyID, productID, warehouseID string) (decimal.Decimal, error)
	// ListValues valor total por (producto, bodega) para el reporte de
	// valoración; warehouseID vacío = todas las bodegas.
	ListValues(companyID, warehouseID string) ([]LayerValue, error)
}
