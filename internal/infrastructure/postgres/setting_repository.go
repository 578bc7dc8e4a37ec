package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

// SettingRepo configuración clave-valor por empresa sobre PostgreSQL.
type SettingRepo struct {
	q Querier
}

func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

// Get devuelve el valor de la clave; "" si no está definida.
func (r *SettingRepo) Get(companyID, key string) (string, error) {
	var value string
	err := r.q.QueryRow(context.Background(),
		`SELECT value FROM company_settings WHERE company_id = $1 AND key = $2`,
		companyID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (r *SettingRepo) Set(companyID, key, value string) error {
	query := `
		INSERT INTO company_settings (company_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(context.Background(), query, companyID, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
