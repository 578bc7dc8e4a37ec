package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ProductVariantRepository = (*ProductVariantRepo)(nil)

// ProductVariantRepo implementación de ProductVariantRepository sobre
// PostgreSQL. El SKU es único por empresa.
type ProductVariantRepo struct {
	q Querier
}

func NewProductVariantRepository(q Querier) *ProductVariantRepo {
	return &ProductVariantRepo{q: q}
}

const productColumns = `id, company_id, sku, name, description, unit_measure, created_at, updated_at`

func (r *ProductVariantRepo) Create(product *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.SKU, product.Name,
		product.Description, product.UnitMeasure, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product variant: %w", err)
	}
	return nil
}

func (r *ProductVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	query := `SELECT ` + productColumns + ` FROM product_variants WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *ProductVariantRepo) GetBySKU(companyID, sku string) (*entity.ProductVariant, error) {
	query := `SELECT ` + productColumns + ` FROM product_variants WHERE company_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, sku))
}

func (r *ProductVariantRepo) scanOne(row pgx.Row) (*entity.ProductVariant, error) {
	var p entity.ProductVariant
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product variant: %w", err)
	}
	return &p, nil
}

func (r *ProductVariantRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductVariant, error) {
	query := `SELECT ` + productColumns + ` FROM product_variants WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		var p entity.ProductVariant
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
