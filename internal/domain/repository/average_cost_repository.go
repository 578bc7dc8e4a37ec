package repository

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// AverageCostRepository puerto del costo promedio ponderado por
// (producto, bodega). Solo lo muta el procesamiento de entradas.
type AverageCostRepository interface {
	// Get devuelve el promedio vigente; nil si nunca ha habido entradas.
	Get(companyID, productID, warehouseID string) (*entity.AverageCost, error)
	Upsert(cost *entity.AverageCost) error
	// List promedios de la empresa para el reporte de valoración.
	List(companyID string) ([]*entity.AverageCost, error)
}
