package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.AverageCostRepository = (*AverageCostRepo)(nil)

// AverageCostRepo implementación de AverageCostRepository sobre PostgreSQL.
type AverageCostRepo struct {
	q Querier
}

func NewAverageCostRepository(q Querier) *AverageCostRepo {
	return &AverageCostRepo{q: q}
}

// Get devuelve el promedio vigente; nil si nunca ha habido entradas.
func (r *AverageCostRepo) Get(companyID, productID, warehouseID string) (*entity.AverageCost, error) {
	var c entity.AverageCost
	err := r.q.QueryRow(context.Background(), `
		SELECT company_id, product_id, warehouse_id, unit_cost, updated_at
		FROM average_costs
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`,
		companyID, productID, warehouseID,
	).Scan(&c.CompanyID, &c.ProductID, &c.WarehouseID, &c.UnitCost, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get average cost: %w", err)
	}
	return &c, nil
}

func (r *AverageCostRepo) Upsert(cost *entity.AverageCost) error {
	query := `
		INSERT INTO average_costs (company_id, product_id, warehouse_id, unit_cost, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (company_id, product_id, warehouse_id)
		DO UPDATE SET unit_cost = EXCLUDED.unit_cost, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		cost.CompanyID, cost.ProductID, cost.WarehouseID, cost.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("upsert average cost: %w", err)
	}
	return nil
}

func (r *AverageCostRepo) List(companyID string) ([]*entity.AverageCost, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT company_id, product_id, warehouse_id, unit_cost, updated_at
		FROM average_costs WHERE company_id = $1
		ORDER BY product_id, warehouse_id`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list average costs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AverageCost
	for rows.Next() {
		var c entity.AverageCost
		if err := rows.Scan(&c.CompanyID, &c.ProductID, &c.WarehouseID, &c.UnitCost, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan average cost: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
