package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// El log es append-only: aquí solo hay INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, transaction_id, product_id, warehouse_id, location_id, batch_id,
	type, quantity, unit_cost, total_cost, reason, reference_id, date, created_at, created_by`

// Create inserta un movimiento. Nunca hay update ni delete sobre esta tabla.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.TransactionID, m.ProductID, m.WarehouseID, m.LocationID, m.BatchID,
		m.Type, m.Quantity, m.UnitCost, m.TotalCost, m.Reason, m.ReferenceID, m.Date, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.LocationID, &m.BatchID,
		&m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost, &m.Reason, &m.ReferenceID, &m.Date, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovementRepo) GetByID(companyID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND id = $2`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByWarehouse historial de movimientos de una bodega, más reciente primero.
func (r *MovementRepo) ListByWarehouse(companyID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(companyID, "warehouse_id", warehouseID, from, to, limit, offset)
}

// ListByProduct historial de movimientos de un producto, más reciente primero.
func (r *MovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(companyID, "product_id", productID, from, to, limit, offset)
}

func (r *MovementRepo) list(companyID, column, value string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND ` + column + ` = $2`
	args := []any{companyID, value}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MovementRepo) CountByTransaction(companyID, transactionID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_movements WHERE company_id = $1 AND transaction_id = $2`,
		companyID, transactionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements by transaction: %w", err)
	}
	return count, nil
}
