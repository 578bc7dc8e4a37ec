package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL.
// La cabecera y las líneas viven en tablas separadas; las líneas son
// inmutables una vez creada la transacción.
type TransactionRepo struct {
	q Querier
}

func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func (r *TransactionRepo) Create(tx *entity.InventoryTransaction) error {
	ctx := context.Background()
	query := `
		INSERT INTO inventory_transactions
			(id, company_id, type, status, source_warehouse_id, destination_warehouse_id, reason, reference_id, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.CompanyID, tx.Type, tx.Status, tx.SourceWarehouseID, tx.DestinationWarehouseID,
		tx.Reason, tx.ReferenceID, tx.CreatedAt, tx.UpdatedAt, tx.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	lineQuery := `
		INSERT INTO inventory_transaction_lines
			(id, transaction_id, product_id, quantity, source_location_id, destination_location_id, batch_id, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, line := range tx.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.TransactionID, line.ProductID, line.Quantity,
			line.SourceLocationID, line.DestinationLocationID, line.BatchID, line.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("create transaction line: %w", err)
		}
	}
	return nil
}

func (r *TransactionRepo) GetByID(companyID, id string) (*entity.InventoryTransaction, error) {
	return r.get(companyID, id, false)
}

func (r *TransactionRepo) GetForUpdate(companyID, id string) (*entity.InventoryTransaction, error) {
	return r.get(companyID, id, true)
}

func (r *TransactionRepo) get(companyID, id string, forUpdate bool) (*entity.InventoryTransaction, error) {
	query := `
		SELECT id, company_id, type, status, source_warehouse_id, destination_warehouse_id, reason, reference_id, created_at, updated_at, created_by
		FROM inventory_transactions
		WHERE company_id = $1 AND id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var tx entity.InventoryTransaction
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&tx.ID, &tx.CompanyID, &tx.Type, &tx.Status, &tx.SourceWarehouseID, &tx.DestinationWarehouseID,
		&tx.Reason, &tx.ReferenceID, &tx.CreatedAt, &tx.UpdatedAt, &tx.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	lines, err := r.lines(tx.ID)
	if err != nil {
		return nil, err
	}
	tx.Lines = lines
	return &tx, nil
}

func (r *TransactionRepo) lines(transactionID string) ([]entity.TransactionLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, transaction_id, product_id, quantity, source_location_id, destination_location_id, batch_id, unit_cost
		FROM inventory_transaction_lines
		WHERE transaction_id = $1
		ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.TransactionLine
	for rows.Next() {
		var l entity.TransactionLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductID, &l.Quantity,
			&l.SourceLocationID, &l.DestinationLocationID, &l.BatchID, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan transaction line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *TransactionRepo) UpdateStatus(companyID, id string, status entity.TransactionStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_transactions SET status = $1, updated_at = now() WHERE company_id = $2 AND id = $3`,
		status, companyID, id,
	)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	return nil
}

func (r *TransactionRepo) List(companyID string, status entity.TransactionStatus, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, company_id, type, status, source_warehouse_id, destination_warehouse_id, reason, reference_id, created_at, updated_at, created_by
		FROM inventory_transactions
		WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var tx entity.InventoryTransaction
		if err := rows.Scan(
			&tx.ID, &tx.CompanyID, &tx.Type, &tx.Status, &tx.SourceWarehouseID, &tx.DestinationWarehouseID,
			&tx.Reason, &tx.ReferenceID, &tx.CreatedAt, &tx.UpdatedAt, &tx.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// El listado no carga líneas: la vista de detalle usa GetByID.
	return list, nil
}
