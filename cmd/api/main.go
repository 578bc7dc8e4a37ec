package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/application/reservation"
	"github.com/jhoicas/Inventario-ledger/internal/application/transaction"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (camino de lectura y validaciones).
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductVariantRepository(pool)
	positionRepo := postgres.NewStockPositionRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	layerRepo := postgres.NewValuationLayerRepository(pool)
	averageRepo := postgres.NewAverageCostRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// Las escrituras del ledger van por txRunner: repos atados a la misma tx.
	txRunner := postgres.NewTxRunner(pool)
	engine := ledger.NewEngine(cfg.Inventory.ValuationMethod)
	applyMovementUC := ledger.NewApplyMovementUseCase(txRunner, productRepo, warehouseRepo, engine)
	ledgerQueryUC := ledger.NewQueryUseCase(positionRepo, movementRepo, layerRepo, averageRepo, settingRepo, cfg.Inventory.ValuationMethod)
	reservationUC := reservation.NewUseCase(txRunner, productRepo, warehouseRepo, positionRepo, reservationRepo)
	transactionUC := transaction.NewUseCase(txRunner, applyMovementUC, transactionRepo, productRepo, warehouseRepo)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	settingsUC := usecase.NewSettingsUseCase(settingRepo, cfg.Inventory.ValuationMethod)
	tokens, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}
	authUC := auth.NewUseCase(userRepo, companyRepo, tokens)

	// Barrido periódico de reservas vencidas.
	sweeper := reservation.NewSweeper(reservationUC, time.Duration(cfg.Inventory.ReservationSweepSeconds)*time.Second, log)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		WarehouseUC:   warehouseUC,
		ProductUC:     productUC,
		SettingsUC:    settingsUC,
		ApplyMovement: applyMovementUC,
		LedgerQuery:   ledgerQueryUC,
		ReservationUC: reservationUC,
		TransactionUC: transactionUC,
		AuthUC:        authUC,
		Tokens:        tokens,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel() // detiene el barrido de reservas

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
