package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL
// (usable con pool o tx). Las claves opcionales location/batch se almacenan
// como '' para que el ON CONFLICT de la PK compuesta funcione sin NULLs.
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

func emptyPosition(companyID string, key entity.StockKey) *entity.StockPosition {
	return &entity.StockPosition{CompanyID: companyID, Key: key, Quantity: decimal.Zero}
}

// Get obtiene la posición; cantidad cero si la clave aún no existe.
func (r *StockPositionRepo) Get(companyID string, key entity.StockKey) (*entity.StockPosition, error) {
	return r.get(companyID, key, false)
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
func (r *StockPositionRepo) GetForUpdate(companyID string, key entity.StockKey) (*entity.StockPosition, error) {
	return r.get(companyID, key, true)
}

func (r *StockPositionRepo) get(companyID string, key entity.StockKey, forUpdate bool) (*entity.StockPosition, error) {
	query := `
		SELECT company_id, product_id, warehouse_id, location_id, batch_id, quantity, updated_at
		FROM stock_positions
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND location_id = $4 AND batch_id = $5`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query,
		companyID, key.ProductID, key.WarehouseID, key.LocationID, key.BatchID,
	).Scan(&p.CompanyID, &p.Key.ProductID, &p.Key.WarehouseID, &p.Key.LocationID, &p.Key.BatchID, &p.Quantity, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyPosition(companyID, key), nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return &p, nil
}

// Upsert inserta o actualiza la cantidad de la posición.
func (r *StockPositionRepo) Upsert(position *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (company_id, product_id, warehouse_id, location_id, batch_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (company_id, product_id, warehouse_id, location_id, batch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		position.CompanyID, position.Key.ProductID, position.Key.WarehouseID,
		position.Key.LocationID, position.Key.BatchID, position.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock position: %w", err)
	}
	return nil
}

// SumByProductWarehouse suma las posiciones del producto en la bodega.
func (r *StockPositionRepo) SumByProductWarehouse(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	return r.sum(companyID, productID, warehouseID, false)
}

// SumByProductWarehouseForUpdate suma bloqueando las filas: la verificación
// ATP y la escritura de la reserva quedan serializadas por clave.
func (r *StockPositionRepo) SumByProductWarehouseForUpdate(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	return r.sum(companyID, productID, warehouseID, true)
}

func (r *StockPositionRepo) sum(companyID, productID, warehouseID string, forUpdate bool) (decimal.Decimal, error) {
	// El agregado con FOR UPDATE no es válido en SQL: se bloquean las filas y
	// se suma en Go.
	query := `
		SELECT quantity FROM stock_positions
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(context.Background(), query, companyID, productID, warehouseID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock positions: %w", err)
	}
	defer rows.Close()
	total := decimal.Zero
	for rows.Next() {
		var qty decimal.Decimal
		if err := rows.Scan(&qty); err != nil {
			return decimal.Zero, fmt.Errorf("scan stock position quantity: %w", err)
		}
		total = total.Add(qty)
	}
	return total, rows.Err()
}

// List devuelve posiciones de la empresa, opcionalmente filtradas por bodega.
func (r *StockPositionRepo) List(companyID, warehouseID string) ([]*entity.StockPosition, error) {
	query := `
		SELECT company_id, product_id, warehouse_id, location_id, batch_id, quantity, updated_at
		FROM stock_positions WHERE company_id = $1`
	args := []any{companyID}
	if warehouseID != "" {
		query += " AND warehouse_id = $2"
		args = append(args, warehouseID)
	}
	query += " ORDER BY product_id, warehouse_id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		var p entity.StockPosition
		if err := rows.Scan(&p.CompanyID, &p.Key.ProductID, &p.Key.WarehouseID, &p.Key.LocationID, &p.Key.BatchID, &p.Quantity, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
