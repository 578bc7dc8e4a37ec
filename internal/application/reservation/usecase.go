package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ReserveInput entrada para crear una reserva.
type ReserveInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	LocationID  string
	BatchID     string
	Quantity    decimal.Decimal
	Priority    int
	ExpiresAt   *time.Time
	ReferenceID string
}

// UseCase motor de reservas y ATP: promete stock contra lo disponible sin
// moverlo físicamente. La verificación ATP y la escritura de la reserva van
// en la misma transacción con las filas de posición bloqueadas: dos reservas
// concurrentes sobre la misma clave no pueden pasar ambas la verificación.
type UseCase struct {
	txRunner        ledger.TxRunner
	productRepo     repository.ProductVariantRepository
	warehouseRepo   repository.WarehouseRepository
	positionRepo    repository.StockPositionRepository
	reservationRepo repository.ReservationRepository
}

// NewUseCase construye el caso de uso. positionRepo y reservationRepo atados
// al pool se usan solo en lecturas (getAvailableToPromise).
func NewUseCase(
	txRunner ledger.TxRunner,
	productRepo repository.ProductVariantRepository,
	warehouseRepo repository.WarehouseRepository,
	positionRepo repository.StockPositionRepository,
	reservationRepo repository.ReservationRepository,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		positionRepo:    positionRepo,
		reservationRepo: reservationRepo,
	}
}

// Reserve calcula ATP = stock − Σ(reservas PENDING/ACTIVE) bajo bloqueo de
// fila y crea la reserva en ACTIVE si la cantidad cabe. Falla con
// ErrInsufficientAvailability si la demanda excede el ATP.
func (uc *UseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.Reservation, error) {
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validateReferences(input.CompanyID, input.ProductID, input.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	reservation := &entity.Reservation{
		ID:          uuid.New().String(),
		CompanyID:   input.CompanyID,
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		LocationID:  input.LocationID,
		BatchID:     input.BatchID,
		Quantity:    input.Quantity,
		Status:      entity.ReservationStatusActive,
		Priority:    input.Priority,
		ReferenceID: input.ReferenceID,
		ReservedAt:  now,
		ExpiresAt:   input.ExpiresAt,
		CreatedBy:   input.UserID,
	}

	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		// Bloquea las posiciones de (producto, bodega): serializa la secuencia
		// verificar-luego-reservar frente a reservas y salidas concurrentes.
		onHand, err := r.Positions.SumByProductWarehouseForUpdate(input.CompanyID, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		held, err := r.Reservations.SumHolding(input.CompanyID, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		if input.Quantity.GreaterThan(onHand.Sub(held)) {
			return domain.ErrInsufficientAvailability
		}
		return r.Reservations.Create(reservation)
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// Release libera una reserva PENDING/ACTIVE; cualquier otro estado es
// ErrInvalidState. La transición devuelve su cantidad al ATP.
func (uc *UseCase) Release(ctx context.Context, companyID, id string) (*entity.Reservation, error) {
	return uc.transition(ctx, companyID, id, entity.ReservationStatusReleased)
}

// Fulfill marca la reserva como cumplida. Es una acción explícita del caller
// tras registrar la salida física; nunca ocurre de forma automática.
func (uc *UseCase) Fulfill(ctx context.Context, companyID, id string) (*entity.Reservation, error) {
	return uc.transition(ctx, companyID, id, entity.ReservationStatusFulfilled)
}

// Cancel cancela una reserva PENDING/ACTIVE.
func (uc *UseCase) Cancel(ctx context.Context, companyID, id string) (*entity.Reservation, error) {
	return uc.transition(ctx, companyID, id, entity.ReservationStatusCancelled)
}

func (uc *UseCase) transition(ctx context.Context, companyID, id string, to entity.ReservationStatus) (*entity.Reservation, error) {
	var reservation *entity.Reservation
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		res, err := r.Reservations.GetForUpdate(companyID, id)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if err := res.Transition(to, time.Now()); err != nil {
			return err
		}
		if err := r.Reservations.Update(res); err != nil {
			return err
		}
		reservation = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// AvailableToPromise lectura pura: stock agregado menos reservas vigentes.
func (uc *UseCase) AvailableToPromise(_ context.Context, companyID, productID, warehouseID string) (*dto.ATPResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	onHand, err := uc.positionRepo.SumByProductWarehouse(companyID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	held, err := uc.reservationRepo.SumHolding(companyID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.ATPResponse{
		ProductID:          productID,
		WarehouseID:        warehouseID,
		OnHand:             onHand,
		Reserved:           held,
		AvailableToPromise: onHand.Sub(held),
	}, nil
}

// SweepExpired transiciona en bloque a EXPIRED las reservas ACTIVE vencidas.
// Idempotente y seguro frente a release concurrente: el filtro toca solo
// filas ACTIVE, así que perder la carrera deja un no-op, no un error.
func (uc *UseCase) SweepExpired(_ context.Context) (int, error) {
	return uc.reservationRepo.ExpireDue(time.Now())
}

// List reservas del tenant, más reciente primero, con filtros opcionales por
// producto y bodega.
func (uc *UseCase) List(_ context.Context, companyID, productID, warehouseID string, page dto.PageRequest) ([]dto.ReservationResponse, error) {
	page.DefaultPage()
	reservations, err := uc.reservationRepo.List(companyID, productID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, ToReservationResponse(r))
	}
	return out, nil
}

// GetByID consulta una reserva.
func (uc *UseCase) GetByID(_ context.Context, companyID, id string) (*entity.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (uc *UseCase) validateReferences(companyID, productID, warehouseID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

// ToReservationResponse mapea la entidad al DTO de respuesta.
func ToReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		LocationID:  r.LocationID,
		BatchID:     r.BatchID,
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		Priority:    r.Priority,
		ReferenceID: r.ReferenceID,
		ReservedAt:  r.ReservedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}
