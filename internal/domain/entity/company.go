package entity

import "time"

// Company empresa/tenant. Toda entidad del ledger cuelga de una empresa.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
