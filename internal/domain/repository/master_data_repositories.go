package repository

import "github.com/jhoicas/Inventario-ledger/internal/domain/entity"

// Puertos de datos maestros. El ledger los usa solo para validar existencia y
// pertenencia (multi-tenant); el CRUD completo vive en los casos de uso de
// administración.

// CompanyRepository puerto de empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}

// WarehouseRepository puerto de bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	ListByCompany(companyID string) ([]*entity.Warehouse, error)
}

// ProductVariantRepository puerto de variantes de producto (SKU).
type ProductVariantRepository interface {
	Create(product *entity.ProductVariant) error
	GetByID(id string) (*entity.ProductVariant, error)
	GetBySKU(companyID, sku string) (*entity.ProductVariant, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ProductVariant, error)
}

// UserRepository puerto de usuarios (autenticación).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	// CountByCompany cuenta los usuarios de la empresa. El registro lo usa
	// para decidir el rol del primer usuario del tenant.
	CountByCompany(companyID string) (int, error)
}
