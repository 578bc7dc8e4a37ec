package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger/ledgertest"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/valuation"
)

const (
	companyID   = "c-1"
	userID      = "u-1"
	productID   = "p-1"
	warehouseID = "w-1"
)

func newFixture(t *testing.T, method string) (*ledgertest.Store, *ledger.ApplyMovementUseCase) {
	t.Helper()
	store := ledgertest.NewStore()
	store.AddProduct(entity.ProductVariant{ID: productID, CompanyID: companyID, SKU: "SKU-1", Name: "Tornillo"})
	store.AddWarehouse(entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Principal"})
	if method != "" {
		store.SetSetting(companyID, valuation.SettingKey, method)
	}
	engine := ledger.NewEngine("FIFO")
	uc := ledger.NewApplyMovementUseCase(store.TxRunner(), store.Products(), store.Warehouses(), engine)
	return store, uc
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func applyIn(t *testing.T, uc *ledger.ApplyMovementUseCase, qty, cost string) *entity.Movement {
	t.Helper()
	c := dec(cost)
	mov, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
		Type:      entity.MovementTypeIN,
		Quantity:  dec(qty),
		UnitCost:  &c,
	})
	require.NoError(t, err)
	return mov
}

func applyOut(uc *ledger.ApplyMovementUseCase, qty string) (*entity.Movement, error) {
	return uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
		Type:      entity.MovementTypeOUT,
		Quantity:  dec(qty),
	})
}

func currentQty(t *testing.T, store *ledgertest.Store) decimal.Decimal {
	t.Helper()
	pos, err := store.Repos().Positions.Get(companyID, entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
	require.NoError(t, err)
	return pos.Quantity
}

func TestApply_EntradaCreaPosicionYMovimiento(t *testing.T) {
	store, uc := newFixture(t, "")

	mov := applyIn(t, uc, "10", "50")

	assert.True(t, currentQty(t, store).Equal(dec("10")))
	assert.True(t, mov.Quantity.Equal(dec("10")))
	assert.True(t, mov.UnitCost.Equal(dec("50")))
	assert.True(t, mov.TotalCost.Equal(dec("500")))
	assert.NotEmpty(t, mov.TransactionID, "un movimiento directo genera su propio transaction_id")
}

func TestApply_SalidaMayorAlStock_FallaSinEfectos(t *testing.T) {
	store, uc := newFixture(t, "")
	applyIn(t, uc, "5", "10")

	_, err := applyOut(uc, "8")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La posición queda intacta y no se agrega ningún movimiento de salida.
	assert.True(t, currentQty(t, store).Equal(dec("5")))
	movs, err := store.Repos().Movements.ListByProduct(companyID, productID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestApply_EntradaSinCosto_Falla(t *testing.T) {
	_, uc := newFixture(t, "")
	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
		Type:      entity.MovementTypeIN,
		Quantity:  dec("3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_CantidadNoPositiva_Falla(t *testing.T) {
	_, uc := newFixture(t, "")
	c := dec("10")
	for _, qty := range []string{"0", "-2"} {
		_, err := uc.Apply(context.Background(), ledger.MovementInput{
			CompanyID: companyID,
			UserID:    userID,
			Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
			Type:      entity.MovementTypeIN,
			Quantity:  dec(qty),
			UnitCost:  &c,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %s", qty)
	}
}

func TestApply_AjusteConSigno(t *testing.T) {
	store, uc := newFixture(t, "")
	applyIn(t, uc, "10", "5")

	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
		Type:      entity.MovementTypeADJUSTMENT,
		Quantity:  dec("-3"),
		Reason:    "conteo cíclico",
	})
	require.NoError(t, err)
	assert.True(t, currentQty(t, store).Equal(dec("7")))

	// Ajuste cero no tiene sentido: no hay nada que registrar.
	_, err = uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
		Type:      entity.MovementTypeADJUSTMENT,
		Quantity:  decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApply_TrasladoDirecto_Rechazado(t *testing.T) {
	// Un traslado son dos movimientos acoplados; por la ruta directa un
	// TRANSFER_IN sin costo crearía una capa a costo cero.
	store, uc := newFixture(t, "FIFO")
	applyIn(t, uc, "10", "50")

	c := dec("50")
	for _, tc := range []struct {
		tipo entity.MovementType
		cost *decimal.Decimal
	}{
		{entity.MovementTypeTransferIN, nil},
		{entity.MovementTypeTransferIN, &c},
		{entity.MovementTypeTransferOUT, nil},
	} {
		_, err := uc.Apply(context.Background(), ledger.MovementInput{
			CompanyID: companyID,
			UserID:    userID,
			Key:       entity.StockKey{ProductID: productID, WarehouseID: warehouseID},
			Type:      tc.tipo,
			Quantity:  dec("4"),
			UnitCost:  tc.cost,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %s", tc.tipo)
	}

	// Sin efectos: ni movimientos nuevos ni cambio de posición.
	assert.True(t, currentQty(t, store).Equal(dec("10")))
	movs, err := store.Repos().Movements.ListByProduct(companyID, productID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestApply_ProductoDesconocido_NotFound(t *testing.T) {
	_, uc := newFixture(t, "")
	c := dec("1")
	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: "no-existe", WarehouseID: warehouseID},
		Type:      entity.MovementTypeIN,
		Quantity:  dec("1"),
		UnitCost:  &c,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_ProductoDeOtraEmpresa_Forbidden(t *testing.T) {
	store, uc := newFixture(t, "")
	store.AddProduct(entity.ProductVariant{ID: "p-ajeno", CompanyID: "c-otra", SKU: "X"})

	c := dec("1")
	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID,
		UserID:    userID,
		Key:       entity.StockKey{ProductID: "p-ajeno", WarehouseID: warehouseID},
		Type:      entity.MovementTypeIN,
		Quantity:  dec("1"),
		UnitCost:  &c,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApply_PromedioPonderado(t *testing.T) {
	store, uc := newFixture(t, "WEIGHTED_AVERAGE")

	applyIn(t, uc, "10", "50")
	applyIn(t, uc, "10", "100")

	avg, err := store.Repos().AverageCosts.Get(companyID, productID, warehouseID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.True(t, avg.UnitCost.Equal(dec("75")), "promedio = %s", avg.UnitCost)

	// La salida estampa el promedio vigente sin modificarlo.
	out, err := applyOut(uc, "5")
	require.NoError(t, err)
	assert.True(t, out.UnitCost.Equal(dec("75")))
	assert.True(t, out.TotalCost.Equal(dec("375")))

	after, err := store.Repos().AverageCosts.Get(companyID, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, after.UnitCost.Equal(dec("75")), "la salida no debe recalcular el promedio")
}

func TestApply_FIFOConsumeCapasMasAntiguas(t *testing.T) {
	store, uc := newFixture(t, "FIFO")

	applyIn(t, uc, "10", "10")
	time.Sleep(time.Millisecond)
	applyIn(t, uc, "10", "20")

	out, err := applyOut(uc, "15")
	require.NoError(t, err)
	// 10@10 + 5@20 = 200
	assert.True(t, out.TotalCost.Equal(dec("200")))
	assert.True(t, out.UnitCost.Equal(dec("13.333333")))

	// Conservación: la suma de remanentes de capas es igual al stock.
	total, err := store.Repos().Layers.TotalValue(companyID, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("100")), "queda 5@20")
	assert.True(t, currentQty(t, store).Equal(dec("5")))
}

func TestApply_LIFOConsumeCapaMasReciente(t *testing.T) {
	store, uc := newFixture(t, "LIFO")

	applyIn(t, uc, "10", "10")
	time.Sleep(time.Millisecond)
	applyIn(t, uc, "10", "20")

	out, err := applyOut(uc, "5")
	require.NoError(t, err)
	assert.True(t, out.UnitCost.Equal(dec("20")), "LIFO toma la capa más reciente")
	assert.True(t, out.TotalCost.Equal(dec("100")))

	total, err := store.Repos().Layers.TotalValue(companyID, productID, warehouseID)
	require.NoError(t, err)
	// Queda 10@10 + 5@20 = 200
	assert.True(t, total.Equal(dec("200")))
}

func TestApply_MetodoCambiaEntreMovimientos(t *testing.T) {
	store, uc := newFixture(t, "FIFO")

	applyIn(t, uc, "10", "10")

	// Cambiar el método afecta solo los movimientos siguientes.
	store.SetSetting(companyID, valuation.SettingKey, "WEIGHTED_AVERAGE")
	applyIn(t, uc, "10", "30")

	avg, err := store.Repos().AverageCosts.Get(companyID, productID, warehouseID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	// El promedio previo no existía: 10 previas a costo 0 + 10@30 = 15.
	assert.True(t, avg.UnitCost.Equal(dec("15")), "promedio = %s", avg.UnitCost)
}
