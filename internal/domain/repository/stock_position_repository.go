package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockPositionRepository puerto para consultar/actualizar posiciones de stock.
// Las mutaciones ocurren solo dentro de transacciones, vía aplicación de
// movimientos; la lectura usa el agregado materializado, nunca recalcula desde
// el log de movimientos.
type StockPositionRepository interface {
	// Get devuelve la posición para la clave; cantidad cero si no existe.
	Get(companyID string, key entity.StockKey) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para la secuencia
	// leer-validar-escribir. Devuelve posición en cero si aún no existe.
	GetForUpdate(companyID string, key entity.StockKey) (*entity.StockPosition, error)
	// Upsert inserta o actualiza la cantidad de la posición.
	Upsert(position *entity.StockPosition) error
	// SumByProductWarehouse suma las posiciones de un producto en una bodega
	// (todas las ubicaciones y lotes). Base del ATP y del promedio ponderado.
	SumByProductWarehouse(companyID, productID, warehouseID string) (decimal.Decimal, error)
	// SumByProductWarehouseForUpdate igual que SumByProductWarehouse pero
	// bloqueando las filas, para serializar verificación y escritura (reservas).
	SumByProductWarehouseForUpdate(companyID, productID, warehouseID string) (decimal.Decimal, error)
	// List devuelve posiciones de la empresa, opcionalmente filtradas por bodega.
	List(companyID, warehouseID string) ([]*entity.StockPosition, error)
}
