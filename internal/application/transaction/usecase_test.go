package transaction_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger/ledgertest"
	"github.com/jhoicas/Inventario-ledger/internal/application/transaction"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

const (
	companyID = "c-1"
	userID    = "u-1"
	productID = "p-1"
	sourceWH  = "w-1"
	destWH    = "w-2"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newFixture(t *testing.T) (*ledgertest.Store, *transaction.UseCase) {
	t.Helper()
	store := ledgertest.NewStore()
	store.AddProduct(entity.ProductVariant{ID: productID, CompanyID: companyID, SKU: "SKU-1"})
	store.AddWarehouse(entity.Warehouse{ID: sourceWH, CompanyID: companyID, Name: "Origen"})
	store.AddWarehouse(entity.Warehouse{ID: destWH, CompanyID: companyID, Name: "Destino"})
	engine := ledger.NewEngine("FIFO")
	apply := ledger.NewApplyMovementUseCase(store.TxRunner(), store.Products(), store.Warehouses(), engine)
	uc := transaction.NewUseCase(store.TxRunner(), apply, store.Repos().Transactions, store.Products(), store.Warehouses())
	return store, uc
}

func qtyAt(t *testing.T, store *ledgertest.Store, warehouseID string) decimal.Decimal {
	t.Helper()
	pos, err := store.Repos().Positions.Get(companyID, entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
	require.NoError(t, err)
	return pos.Quantity
}

func createInbound(t *testing.T, uc *transaction.UseCase, qty, cost string) *entity.InventoryTransaction {
	t.Helper()
	tx, err := uc.Create(context.Background(), companyID, userID, dto.CreateTransactionRequest{
		Type:                   "INBOUND",
		DestinationWarehouseID: destWH,
		Lines: []dto.TransactionLineRequest{
			{ProductID: productID, Quantity: dec(qty), UnitCost: decPtr(cost)},
		},
	})
	require.NoError(t, err)
	return tx
}

func TestCreate_QuedaEnDraftSinTocarStock(t *testing.T) {
	store, uc := newFixture(t)

	tx := createInbound(t, uc, "10", "5")
	assert.Equal(t, entity.TransactionStatusDraft, tx.Status)
	assert.True(t, qtyAt(t, store, destWH).IsZero(), "crear no mueve stock")
}

func TestConfirm_AplicaLineasYMarcaCompleted(t *testing.T) {
	store, uc := newFixture(t)
	tx := createInbound(t, uc, "10", "5")

	confirmed, err := uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCompleted, confirmed.Status)
	assert.True(t, qtyAt(t, store, destWH).Equal(dec("10")))

	count, err := store.Repos().Movements.CountByTransaction(companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestConfirm_DosVeces_NoEmiteMovimientosNuevos(t *testing.T) {
	store, uc := newFixture(t)
	tx := createInbound(t, uc, "10", "5")

	_, err := uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	assert.True(t, qtyAt(t, store, destWH).Equal(dec("10")), "el stock no cambia en el reintento")
	count, err := store.Repos().Movements.CountByTransaction(companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "sin movimientos adicionales")
}

func TestCancel_AntesDeConfirmar(t *testing.T) {
	store, uc := newFixture(t)
	tx := createInbound(t, uc, "10", "5")

	cancelled, err := uc.Cancel(context.Background(), companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCancelled, cancelled.Status)
	assert.True(t, qtyAt(t, store, destWH).IsZero())

	// Una transacción cancelada no se puede confirmar ni volver a cancelar.
	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Cancel(context.Background(), companyID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel_DespuesDeCompleted_Falla(t *testing.T) {
	_, uc := newFixture(t)
	tx := createInbound(t, uc, "10", "5")
	_, err := uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), companyID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func seedStock(t *testing.T, uc *transaction.UseCase, warehouseID, qty, cost string) {
	t.Helper()
	tx, err := uc.Create(context.Background(), companyID, userID, dto.CreateTransactionRequest{
		Type:                   "INBOUND",
		DestinationWarehouseID: warehouseID,
		Lines: []dto.TransactionLineRequest{
			{ProductID: productID, Quantity: dec(qty), UnitCost: decPtr(cost)},
		},
	})
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)
}

func TestConfirm_TransferenciaEmiteDosMovimientosAcoplados(t *testing.T) {
	store, uc := newFixture(t)
	seedStock(t, uc, sourceWH, "10", "8")

	tx, err := uc.Create(context.Background(), companyID, userID, dto.CreateTransactionRequest{
		Type:                   "TRANSFER",
		SourceWarehouseID:      sourceWH,
		DestinationWarehouseID: destWH,
		Lines: []dto.TransactionLineRequest{
			{ProductID: productID, Quantity: dec("4")},
		},
	})
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)

	assert.True(t, qtyAt(t, store, sourceWH).Equal(dec("6")))
	assert.True(t, qtyAt(t, store, destWH).Equal(dec("4")))

	movs, err := store.Repos().Movements.ListByProduct(companyID, productID, nil, nil, 50, 0)
	require.NoError(t, err)
	var out, in *entity.Movement
	for _, m := range movs {
		switch m.Type {
		case entity.MovementTypeTransferOUT:
			out = m
		case entity.MovementTypeTransferIN:
			in = m
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, tx.ID, out.TransactionID)
	assert.Equal(t, tx.ID, in.TransactionID)
	assert.True(t, out.Quantity.Neg().Equal(in.Quantity), "misma magnitud, signos opuestos")
	// El valor se conserva: la entrada en destino va al costo de la salida.
	assert.True(t, in.UnitCost.Equal(out.UnitCost))
	assert.True(t, in.UnitCost.Equal(dec("8")))
}

func TestConfirm_TransferenciaSinStock_NoDejaMutacionParcial(t *testing.T) {
	store, uc := newFixture(t)
	seedStock(t, uc, sourceWH, "3", "8")

	tx, err := uc.Create(context.Background(), companyID, userID, dto.CreateTransactionRequest{
		Type:                   "TRANSFER",
		SourceWarehouseID:      sourceWH,
		DestinationWarehouseID: destWH,
		Lines: []dto.TransactionLineRequest{
			{ProductID: productID, Quantity: dec("5")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió: ni origen, ni destino, ni estado, ni movimientos.
	assert.True(t, qtyAt(t, store, sourceWH).Equal(dec("3")))
	assert.True(t, qtyAt(t, store, destWH).IsZero())
	got, err := uc.GetByID(context.Background(), companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusDraft, got.Status)
	count, err := store.Repos().Movements.CountByTransaction(companyID, tx.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateTransactionRequest
		want error
	}{
		{
			name: "tipo desconocido",
			req: dto.CreateTransactionRequest{
				Type:              "MAGIA",
				SourceWarehouseID: sourceWH,
				Lines:             []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("1")}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "INBOUND sin bodega destino",
			req: dto.CreateTransactionRequest{
				Type:  "INBOUND",
				Lines: []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("1"), UnitCost: decPtr("1")}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "TRANSFER misma bodega",
			req: dto.CreateTransactionRequest{
				Type:                   "TRANSFER",
				SourceWarehouseID:      sourceWH,
				DestinationWarehouseID: sourceWH,
				Lines:                  []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("1")}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "sin líneas",
			req: dto.CreateTransactionRequest{
				Type:                   "INBOUND",
				DestinationWarehouseID: destWH,
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "INBOUND sin costo unitario",
			req: dto.CreateTransactionRequest{
				Type:                   "INBOUND",
				DestinationWarehouseID: destWH,
				Lines:                  []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("1")}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "OUTBOUND cantidad no positiva",
			req: dto.CreateTransactionRequest{
				Type:              "OUTBOUND",
				SourceWarehouseID: sourceWH,
				Lines:             []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("0")}},
			},
			want: domain.ErrInvalidQuantity,
		},
		{
			name: "ADJUSTMENT cantidad cero",
			req: dto.CreateTransactionRequest{
				Type:              "ADJUSTMENT",
				SourceWarehouseID: sourceWH,
				Lines:             []dto.TransactionLineRequest{{ProductID: productID, Quantity: dec("0")}},
			},
			want: domain.ErrInvalidQuantity,
		},
		{
			name: "producto inexistente",
			req: dto.CreateTransactionRequest{
				Type:                   "INBOUND",
				DestinationWarehouseID: destWH,
				Lines:                  []dto.TransactionLineRequest{{ProductID: "nope", Quantity: dec("1"), UnitCost: decPtr("1")}},
			},
			want: domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, companyID, userID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestList_FiltraPorEstado(t *testing.T) {
	_, uc := newFixture(t)

	draft := createInbound(t, uc, "10", "5")
	done := createInbound(t, uc, "4", "5")
	_, err := uc.Confirm(context.Background(), companyID, userID, done.ID)
	require.NoError(t, err)

	all, err := uc.List(context.Background(), companyID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// El listado es liviano: las líneas se cargan solo en GetByID.
	for _, tx := range all {
		assert.Empty(t, tx.Lines)
	}

	drafts, err := uc.List(context.Background(), companyID, string(entity.TransactionStatusDraft), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	completed, err := uc.List(context.Background(), companyID, string(entity.TransactionStatusCompleted), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)
}

func TestList_EstadoDesconocido_Rechazado(t *testing.T) {
	_, uc := newFixture(t)
	_, err := uc.List(context.Background(), companyID, "EN_LIMBO", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirm_AjusteNegativo(t *testing.T) {
	store, uc := newFixture(t)
	seedStock(t, uc, sourceWH, "10", "2")

	tx, err := uc.Create(context.Background(), companyID, userID, dto.CreateTransactionRequest{
		Type:              "ADJUSTMENT",
		SourceWarehouseID: sourceWH,
		Lines: []dto.TransactionLineRequest{
			{ProductID: productID, Quantity: dec("-4")},
		},
		Reason: "merma por conteo",
	})
	require.NoError(t, err)
	_, err = uc.Confirm(context.Background(), companyID, userID, tx.ID)
	require.NoError(t, err)

	assert.True(t, qtyAt(t, store, sourceWH).Equal(dec("6")))
}
