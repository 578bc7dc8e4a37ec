package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// MovementInput entrada para aplicar un movimiento sobre una clave de stock.
// IN/OUT/TRANSFER_* exigen magnitud positiva; ADJUSTMENT lleva el signo en la
// cantidad. UnitCost es obligatorio en IN y opcional en ADJUSTMENT positivo.
type MovementInput struct {
	CompanyID     string
	UserID        string
	Key           entity.StockKey
	Type          entity.MovementType
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	Reason        string
	ReferenceID   string
	TransactionID string
}

// ApplyMovementUseCase aplica movimientos de inventario de forma transaccional:
// bloquea la posición (SELECT FOR UPDATE), valida no-negatividad, actualiza el
// agregado, invoca el motor de valoración y agrega exactamente un registro al
// log de movimientos, todo en la misma unidad de trabajo.
type ApplyMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductVariantRepository
	warehouseRepo repository.WarehouseRepository
	engine        *Engine
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner, productRepo repository.ProductVariantRepository, warehouseRepo repository.WarehouseRepository, engine *Engine) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		engine:        engine,
	}
}

// Apply camino de una sola línea (adjustStock): valida referencias, inicia
// transacción y aplica el movimiento. Devuelve el movimiento con costos
// estampados.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}
	if err := uc.validateReferences(input); err != nil {
		return nil, err
	}
	if input.TransactionID == "" {
		input.TransactionID = uuid.New().String()
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := uc.ApplyInTx(r, input, time.Now())
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// validateInput valida tipo y forma de la entrada antes de abrir transacción.
// TRANSFER_IN/TRANSFER_OUT no pasan por aquí: un traslado son dos movimientos
// acoplados donde la entrada hereda el costo calculado de la salida, y ese
// acople solo lo puede hacer el orquestador de transacciones.
func (uc *ApplyMovementUseCase) validateInput(input MovementInput) error {
	if input.Key.ProductID == "" || input.Key.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Type.IsValid() {
		return domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeTransferIN || input.Type == entity.MovementTypeTransferOUT {
		return domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeIN {
		if input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// validateReferences valida que producto y bodega existan y pertenezcan a la
// empresa del caller.
func (uc *ApplyMovementUseCase) validateReferences(input MovementInput) error {
	product, err := uc.productRepo.GetByID(input.Key.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(input.Key.WarehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyInTx aplica un movimiento usando los repositorios de la transacción del
// caller (misma unidad de trabajo). Lo usa tanto el camino de una línea como
// la confirmación de transacciones multi-línea.
func (uc *ApplyMovementUseCase) ApplyInTx(r Repos, input MovementInput, now time.Time) (*entity.Movement, error) {
	signed, err := input.Type.SignedQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	// Bloquea la fila de la posición: leer-validar-escribir serializado por clave.
	position, err := r.Positions.GetForUpdate(input.CompanyID, input.Key)
	if err != nil {
		return nil, err
	}
	newQty := position.Quantity.Add(signed)
	if newQty.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	position.Quantity = newQty
	position.UpdatedAt = now
	if err := r.Positions.Upsert(position); err != nil {
		return nil, err
	}

	magnitude := signed.Abs()
	var unitCost, totalCost decimal.Decimal
	if signed.GreaterThan(decimal.Zero) {
		inCost := decimal.Zero
		if input.UnitCost != nil {
			inCost = *input.UnitCost
		}
		unitCost, totalCost, err = uc.engine.ProcessInbound(r, input.CompanyID, input.Key, magnitude, inCost, input.ReferenceID, now)
	} else {
		unitCost, totalCost, err = uc.engine.ProcessOutbound(r, input.CompanyID, input.Key, magnitude)
	}
	if err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		TransactionID: input.TransactionID,
		ProductID:     input.Key.ProductID,
		WarehouseID:   input.Key.WarehouseID,
		LocationID:    input.Key.LocationID,
		BatchID:       input.Key.BatchID,
		Type:          input.Type,
		Quantity:      signed,
		UnitCost:      unitCost,
		TotalCost:     totalCost,
		Reason:        input.Reason,
		ReferenceID:   input.ReferenceID,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := r.Movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
