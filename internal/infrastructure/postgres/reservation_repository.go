package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, company_id, product_id, warehouse_id, location_id, batch_id,
	quantity, status, priority, reference_id, reserved_at, expires_at, released_at, created_by`

func (r *ReservationRepo) Create(res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.CompanyID, res.ProductID, res.WarehouseID, res.LocationID, res.BatchID,
		res.Quantity, res.Status, res.Priority, res.ReferenceID, res.ReservedAt, res.ExpiresAt, res.ReleasedAt, res.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) GetByID(companyID, id string) (*entity.Reservation, error) {
	return r.get(companyID, id, false)
}

func (r *ReservationRepo) GetForUpdate(companyID, id string) (*entity.Reservation, error) {
	return r.get(companyID, id, true)
}

func (r *ReservationRepo) get(companyID, id string, forUpdate bool) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE company_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var res entity.Reservation
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&res.ID, &res.CompanyID, &res.ProductID, &res.WarehouseID, &res.LocationID, &res.BatchID,
		&res.Quantity, &res.Status, &res.Priority, &res.ReferenceID, &res.ReservedAt, &res.ExpiresAt, &res.ReleasedAt, &res.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// Update persiste estado y released_at tras una transición validada en dominio.
func (r *ReservationRepo) Update(res *entity.Reservation) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE reservations SET status = $1, released_at = $2 WHERE company_id = $3 AND id = $4`,
		res.Status, res.ReleasedAt, res.CompanyID, res.ID,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// SumHolding cantidad comprometida (PENDING/ACTIVE) por (producto, bodega).
func (r *ReservationRepo) SumHolding(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(quantity), 0)
		FROM reservations
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND status IN ('PENDING', 'ACTIVE')`,
		companyID, productID, warehouseID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum reservation holding: %w", err)
	}
	return total, nil
}

// ExpireDue transiciona en bloque ACTIVE→EXPIRED las reservas vencidas.
// El filtro por status hace la operación idempotente frente a barridos
// concurrentes o repetidos.
func (r *ReservationRepo) ExpireDue(now time.Time) (int, error) {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE reservations
		SET status = 'EXPIRED', released_at = $1
		WHERE status = 'ACTIVE' AND expires_at IS NOT NULL AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("expire due reservations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ReservationRepo) List(companyID, productID, warehouseID string, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE company_id = $1`
	args := []any{companyID}
	if productID != "" {
		args = append(args, productID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY reserved_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(
			&res.ID, &res.CompanyID, &res.ProductID, &res.WarehouseID, &res.LocationID, &res.BatchID,
			&res.Quantity, &res.Status, &res.Priority, &res.ReferenceID, &res.ReservedAt, &res.ExpiresAt, &res.ReleasedAt, &res.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}
