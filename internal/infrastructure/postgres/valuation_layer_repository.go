package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ValuationLayerRepository = (*ValuationLayerRepo)(nil)

// ValuationLayerRepo implementación de ValuationLayerRepository sobre
// PostgreSQL. Las capas agotadas se conservan con remanente cero.
type ValuationLayerRepo struct {
	q Querier
}

func NewValuationLayerRepository(q Querier) *ValuationLayerRepo {
	return &ValuationLayerRepo{q: q}
}

func (r *ValuationLayerRepo) Create(layer *entity.ValuationLayer) error {
	query := `
		INSERT INTO valuation_layers
			(id, company_id, product_id, warehouse_id, quantity_original, quantity_remaining, unit_cost, received_at, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		layer.ID, layer.CompanyID, layer.ProductID, layer.WarehouseID,
		layer.QuantityOriginal, layer.QuantityRemaining, layer.UnitCost,
		layer.ReceivedAt, layer.ReferenceID, layer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create valuation layer: %w", err)
	}
	return nil
}

// ListOpenForUpdate capas con remanente > 0 bloqueadas, en orden de consumo.
// El desempate por id mantiene el orden estable entre capas recibidas en el
// mismo instante.
func (r *ValuationLayerRepo) ListOpenForUpdate(companyID, productID, warehouseID string, newestFirst bool) ([]*entity.ValuationLayer, error) {
	order := "received_at ASC, id ASC"
	if newestFirst {
		order = "received_at DESC, id DESC"
	}
	query := `
		SELECT id, company_id, product_id, warehouse_id, quantity_original, quantity_remaining, unit_cost, received_at, reference_id, created_at
		FROM valuation_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND quantity_remaining > 0
		ORDER BY ` + order + `
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, companyID, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list open valuation layers: %w", err)
	}
	defer rows.Close()
	var layers []*entity.ValuationLayer
	for rows.Next() {
		var l entity.ValuationLayer
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ProductID, &l.WarehouseID,
			&l.QuantityOriginal, &l.QuantityRemaining, &l.UnitCost,
			&l.ReceivedAt, &l.ReferenceID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan valuation layer: %w", err)
		}
		layers = append(layers, &l)
	}
	return layers, rows.Err()
}

func (r *ValuationLayerRepo) UpdateRemaining(layerID string, remaining decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE valuation_layers SET quantity_remaining = $1 WHERE id = $2`,
		remaining, layerID,
	)
	if err != nil {
		return fmt.Errorf("update valuation layer remaining: %w", err)
	}
	return nil
}

func (r *ValuationLayerRepo) TotalValue(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(quantity_remaining * unit_cost), 0)
		FROM valuation_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`,
		companyID, productID, warehouseID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total layer value: %w", err)
	}
	return total, nil
}

func (r *ValuationLayerRepo) ListValues(companyID, warehouseID string) ([]repository.LayerValue, error) {
	query := `
		SELECT product_id, warehouse_id, COALESCE(SUM(quantity_remaining * unit_cost), 0)
		FROM valuation_layers
		WHERE company_id = $1`
	args := []any{companyID}
	if warehouseID != "" {
		query += " AND warehouse_id = $2"
		args = append(args, warehouseID)
	}
	query += " GROUP BY product_id, warehouse_id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layer values: %w", err)
	}
	defer rows.Close()
	var values []repository.LayerValue
	for rows.Next() {
		var v repository.LayerValue
		if err := rows.Scan(&v.ProductID, &v.WarehouseID, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scan layer value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
