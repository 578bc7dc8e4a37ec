package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/application/reservation"
	"github.com/jhoicas/Inventario-ledger/internal/application/transaction"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	SettingsUC    *usecase.SettingsUseCase
	ApplyMovement *ledger.ApplyMovementUseCase
	LedgerQuery   *ledger.QueryUseCase
	ReservationUC *reservation.UseCase
	TransactionUC *transaction.UseCase
	AuthUC        *auth.UseCase
	Tokens        *jwt.Signer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: el registro de tenants precede a la autenticación)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Inventory: movimientos, stock y valoración (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ApplyMovement, deps.LedgerQuery)
	invGroup.Post("/movements", inventoryHandler.AdjustStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/valuation", inventoryHandler.GetValuation)
	invGroup.Get("/valuation-report", inventoryHandler.ValuationReport)

	// Transactions (protegido)
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Post("/:id/confirm", transactionHandler.Confirm)
	transactions.Post("/:id/cancel", transactionHandler.Cancel)

	// Reservations y ATP (protegido)
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Get("/", reservationHandler.List)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Post("/:id/release", reservationHandler.Release)
	reservations.Post("/:id/fulfill", reservationHandler.Fulfill)
	reservations.Post("/:id/cancel", reservationHandler.Cancel)
	protected.Get("/availability", reservationHandler.AvailableToPromise)

	// Settings (protegido; cambiar el método de costeo es cosa de admin)
	settings := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/valuation-method", settingsHandler.GetValuationMethod)
	settings.Put("/valuation-method", RequireRole(entity.RoleAdmin), settingsHandler.SetValuationMethod)
}
