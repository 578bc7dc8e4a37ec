package transaction

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

// UseCase orquestador de transacciones de inventario: agrupa líneas en una
// unidad atómica con ciclo DRAFT → COMPLETED/CANCELLED. Confirmar delega cada
// línea en el motor del ledger dentro de una sola transacción de BD; si una
// línea falla, todas las mutaciones previas se revierten.
type UseCase struct {
	txRunner        ledger.TxRunner
	apply           *ledger.ApplyMovementUseCase
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductVariantRepository
	warehouseRepo   repository.WarehouseRepository
}

// NewUseCase construye el orquestador. transactionRepo atado al pool se usa
// para crear y consultar; confirmar y cancelar van por txRunner.
func NewUseCase(
	txRunner ledger.TxRunner,
	apply *ledger.ApplyMovementUseCase,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductVariantRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		apply:           apply,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
	}
}

// Create valida tipo, bodegas requeridas y líneas, y persiste en DRAFT.
// Crear no toca stock: eso ocurre solo al confirmar.
func (uc *UseCase) Create(_ context.Context, companyID, userID string, in dto.CreateTransactionRequest) (*entity.InventoryTransaction, error) {
	now := time.Now()
	tx := &entity.InventoryTransaction{
		ID:                     uuid.New().String(),
		CompanyID:              companyID,
		Type:                   entity.TransactionType(in.Type),
		Status:                 entity.TransactionStatusDraft,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Reason:                 in.Reason,
		ReferenceID:            in.ReferenceID,
		CreatedAt:              now,
		UpdatedAt:              now,
		CreatedBy:              userID,
	}
	if !tx.Type.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if err := tx.ValidateWarehouses(); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateWarehouseRefs(companyID, tx); err != nil {
		return nil, err
	}
	for _, line := range in.Lines {
		if err := uc.validateLine(companyID, tx.Type, line); err != nil {
			return nil, err
		}
		tx.Lines = append(tx.Lines, entity.TransactionLine{
			ID:                    uuid.New().String(),
			TransactionID:         tx.ID,
			ProductID:             line.ProductID,
			Quantity:              line.Quantity,
			SourceLocationID:      line.SourceLocationID,
			DestinationLocationID: line.DestinationLocationID,
			BatchID:               line.BatchID,
			UnitCost:              line.UnitCost,
		})
	}
	if err := uc.transactionRepo.Create(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// validateLine valida cantidad y costo de una línea según el tipo.
// ADJUSTMENT lleva cantidad con signo; el resto exige magnitud positiva.
// Las entradas (INBOUND) exigen costo unitario no negativo.
func (uc *UseCase) validateLine(companyID string, txType entity.TransactionType, line dto.TransactionLineRequest) error {
	if line.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if txType == entity.TransactionTypeAdjustment {
		if line.Quantity.IsZero() {
			return domain.ErrInvalidQuantity
		}
	} else if !line.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if txType == entity.TransactionTypeInbound {
		if line.UnitCost == nil || line.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	product, err := uc.productRepo.GetByID(line.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *UseCase) validateWarehouseRefs(companyID string, tx *entity.InventoryTransaction) error {
	for _, id := range []string{tx.SourceWarehouseID, tx.DestinationWarehouseID} {
		if id == "" {
			continue
		}
		warehouse, err := uc.warehouseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if warehouse == nil || warehouse.CompanyID != companyID {
			return domain.ErrNotFound
		}
	}
	return nil
}

// Confirm ejecuta la transacción exactamente una vez: bloquea la cabecera,
// verifica el estado, aplica las líneas (TRANSFER emite salida en origen y
// entrada en destino como dos movimientos acoplados) y marca COMPLETED.
// Una transacción COMPLETED devuelve ErrAlreadyCompleted sin emitir
// movimientos adicionales; CANCELLED devuelve ErrInvalidState.
func (uc *UseCase) Confirm(ctx context.Context, companyID, userID, id string) (*entity.InventoryTransaction, error) {
	var confirmed *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		tx, err := r.Transactions.GetForUpdate(companyID, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if err := tx.CanConfirm(); err != nil {
			return err
		}
		now := time.Now()
		for _, line := range tx.Lines {
			if err := uc.applyLine(r, tx, line, userID, now); err != nil {
				return err
			}
		}
		if err := r.Transactions.UpdateStatus(companyID, id, entity.TransactionStatusCompleted); err != nil {
			return err
		}
		tx.Status = entity.TransactionStatusCompleted
		tx.UpdatedAt = now
		confirmed = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// applyLine deriva una o dos mutaciones del Quantity Store según el tipo.
func (uc *UseCase) applyLine(r ledger.Repos, tx *entity.InventoryTransaction, line entity.TransactionLine, userID string, now time.Time) error {
	base := ledger.MovementInput{
		CompanyID:     tx.CompanyID,
		UserID:        userID,
		UnitCost:      line.UnitCost,
		Reason:        tx.Reason,
		ReferenceID:   tx.ReferenceID,
		TransactionID: tx.ID,
	}
	switch tx.Type {
	case entity.TransactionTypeInbound:
		in := base
		in.Type = entity.MovementTypeIN
		in.Quantity = line.Quantity
		in.Key = entity.StockKey{
			ProductID:   line.ProductID,
			WarehouseID: tx.DestinationWarehouseID,
			LocationID:  line.DestinationLocationID,
			BatchID:     line.BatchID,
		}
		_, err := uc.apply.ApplyInTx(r, in, now)
		return err

	case entity.TransactionTypeOutbound:
		out := base
		out.Type = entity.MovementTypeOUT
		out.Quantity = line.Quantity
		out.Key = entity.StockKey{
			ProductID:   line.ProductID,
			WarehouseID: tx.SourceWarehouseID,
			LocationID:  line.SourceLocationID,
			BatchID:     line.BatchID,
		}
		_, err := uc.apply.ApplyInTx(r, out, now)
		return err

	case entity.TransactionTypeAdjustment:
		adj := base
		adj.Type = entity.MovementTypeADJUSTMENT
		adj.Quantity = line.Quantity
		adj.Key = entity.StockKey{
			ProductID:   line.ProductID,
			WarehouseID: tx.SourceWarehouseID,
			LocationID:  line.SourceLocationID,
			BatchID:     line.BatchID,
		}
		_, err := uc.apply.ApplyInTx(r, adj, now)
		return err

	case entity.TransactionTypeTransfer:
		// Salida en origen primero: la entrada en destino se registra al costo
		// que el motor de valoración calculó para la salida, conservando el
		// valor del inventario a través del traslado.
		out := base
		out.Type = entity.MovementTypeTransferOUT
		out.Quantity = line.Quantity
		out.Key = entity.StockKey{
			ProductID:   line.ProductID,
			WarehouseID: tx.SourceWarehouseID,
			LocationID:  line.SourceLocationID,
			BatchID:     line.BatchID,
		}
		outMov, err := uc.apply.ApplyInTx(r, out, now)
		if err != nil {
			return err
		}

		in := base
		in.Type = entity.MovementTypeTransferIN
		in.Quantity = line.Quantity
		in.UnitCost = &outMov.UnitCost
		in.Key = entity.StockKey{
			ProductID:   line.ProductID,
			WarehouseID: tx.DestinationWarehouseID,
			LocationID:  line.DestinationLocationID,
			BatchID:     line.BatchID,
		}
		_, err = uc.apply.ApplyInTx(r, in, now)
		return err
	}
	return domain.ErrInvalidInput
}

// Cancel marca CANCELLED sin tocar inventario: una transacción que nunca llegó
// a COMPLETED nunca movió stock. Solo DRAFT/PENDING_APPROVAL/APPROVED.
func (uc *UseCase) Cancel(ctx context.Context, companyID, id string) (*entity.InventoryTransaction, error) {
	var cancelled *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		tx, err := r.Transactions.GetForUpdate(companyID, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if err := tx.CanCancel(); err != nil {
			return err
		}
		if err := r.Transactions.UpdateStatus(companyID, id, entity.TransactionStatusCancelled); err != nil {
			return err
		}
		tx.Status = entity.TransactionStatusCancelled
		tx.UpdatedAt = time.Now()
		cancelled = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// List transacciones del tenant, más reciente primero, con filtro opcional
// por estado. Las filas del listado no cargan líneas; el detalle usa GetByID.
func (uc *UseCase) List(_ context.Context, companyID, status string, page dto.PageRequest) ([]dto.TransactionResponse, error) {
	page.DefaultPage()
	filter := entity.TransactionStatus(status)
	if status != "" && !filter.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	txs, err := uc.transactionRepo.List(companyID, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out, nil
}

// GetByID consulta una transacción con sus líneas.
func (uc *UseCase) GetByID(_ context.Context, companyID, id string) (*entity.InventoryTransaction, error) {
	tx, err := uc.transactionRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}

// ToTransactionResponse mapea la entidad al DTO de respuesta.
func ToTransactionResponse(t *entity.InventoryTransaction) dto.TransactionResponse {
	lines := make([]dto.TransactionLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransactionLineResponse{
			ID:                    l.ID,
			ProductID:             l.ProductID,
			Quantity:              l.Quantity,
			SourceLocationID:      l.SourceLocationID,
			DestinationLocationID: l.DestinationLocationID,
			BatchID:               l.BatchID,
			UnitCost:              l.UnitCost,
		})
	}
	return dto.TransactionResponse{
		ID:                     t.ID,
		Type:                   string(t.Type),
		Status:                 string(t.Status),
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Lines:                  lines,
		Reason:                 t.Reason,
		ReferenceID:            t.ReferenceID,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}
