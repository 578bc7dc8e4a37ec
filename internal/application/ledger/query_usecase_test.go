package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/application/ledger/ledgertest"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func newQueryFixture(t *testing.T, method string) (*ledgertest.Store, *ledger.ApplyMovementUseCase, *ledger.QueryUseCase) {
	t.Helper()
	store, uc := newFixture(t, method)
	r := store.Repos()
	query := ledger.NewQueryUseCase(r.Positions, r.Movements, r.Layers, r.AverageCosts, r.Settings, "FIFO")
	return store, uc, query
}

func TestQuery_CantidadActual(t *testing.T) {
	_, uc, query := newQueryFixture(t, "")
	applyIn(t, uc, "7", "3")

	out, err := query.CurrentQuantity(context.Background(), companyID, entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(dec("7")))

	// Clave sin movimientos reporta cero, no error.
	out, err = query.CurrentQuantity(context.Background(), companyID, entity.StockKey{ProductID: productID, WarehouseID: "w-vacia"})
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
}

func TestQuery_ValuacionVigente(t *testing.T) {
	_, uc, query := newQueryFixture(t, "FIFO")
	applyIn(t, uc, "10", "10")

	out, err := query.CurrentValuation(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, "FIFO", out.Method)
	assert.True(t, out.Value.Equal(dec("100")), "valor total de capas abiertas")
}

func TestQuery_ValuacionPromedio(t *testing.T) {
	_, uc, query := newQueryFixture(t, "WEIGHTED_AVERAGE")
	applyIn(t, uc, "10", "40")
	applyIn(t, uc, "10", "60")

	out, err := query.CurrentValuation(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, "WEIGHTED_AVERAGE", out.Method)
	assert.True(t, out.Value.Equal(dec("50")), "promedio vigente")
}

func TestQuery_ReporteDeValoracion(t *testing.T) {
	store, uc, query := newQueryFixture(t, "FIFO")
	applyIn(t, uc, "10", "10")

	// Producto agotado: entra y sale todo; debe omitirse del reporte.
	store.AddProduct(entity.ProductVariant{ID: "p-2", CompanyID: companyID, SKU: "SKU-2"})
	c := dec("5")
	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID, UserID: userID,
		Key:      entity.StockKey{ProductID: "p-2", WarehouseID: warehouseID},
		Type:     entity.MovementTypeIN,
		Quantity: dec("4"), UnitCost: &c,
	})
	require.NoError(t, err)
	_, err = uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID, UserID: userID,
		Key:      entity.StockKey{ProductID: "p-2", WarehouseID: warehouseID},
		Type:     entity.MovementTypeOUT,
		Quantity: dec("4"),
	})
	require.NoError(t, err)

	rows, err := query.ValuationReport(context.Background(), companyID, "")
	require.NoError(t, err)
	require.Len(t, rows, 1, "el grupo con cantidad cero se omite")
	assert.Equal(t, productID, rows[0].ProductID)
	assert.True(t, rows[0].Quantity.Equal(dec("10")))
	assert.True(t, rows[0].UnitCost.Equal(dec("10")))
	assert.True(t, rows[0].TotalValue.Equal(dec("100")))
}

func TestQuery_MovimientoPorID(t *testing.T) {
	_, uc, query := newQueryFixture(t, "")
	mov := applyIn(t, uc, "7", "3")

	out, err := query.GetMovement(context.Background(), companyID, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, mov.ID, out.ID)
	assert.Equal(t, string(entity.MovementTypeIN), out.Type)
	assert.True(t, out.Quantity.Equal(dec("7")))

	_, err = query.GetMovement(context.Background(), companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El movimiento no es visible desde otra empresa.
	_, err = query.GetMovement(context.Background(), "c-otra", mov.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_ReportePromedioUsaCostosVigentes(t *testing.T) {
	store, uc, query := newQueryFixture(t, "WEIGHTED_AVERAGE")
	applyIn(t, uc, "10", "40")
	applyIn(t, uc, "10", "60")

	// Segundo grupo con su propio promedio.
	store.AddProduct(entity.ProductVariant{ID: "p-2", CompanyID: companyID, SKU: "SKU-2"})
	c := dec("8")
	_, err := uc.Apply(context.Background(), ledger.MovementInput{
		CompanyID: companyID, UserID: userID,
		Key:      entity.StockKey{ProductID: "p-2", WarehouseID: warehouseID},
		Type:     entity.MovementTypeIN,
		Quantity: dec("5"), UnitCost: &c,
	})
	require.NoError(t, err)

	rows, err := query.ValuationReport(context.Background(), companyID, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byProduct := map[string]dto.ValuationReportRow{}
	for _, r := range rows {
		byProduct[r.ProductID] = r
	}
	assert.True(t, byProduct[productID].UnitCost.Equal(dec("50")), "promedio vigente del grupo")
	assert.True(t, byProduct[productID].TotalValue.Equal(dec("1000")))
	assert.True(t, byProduct["p-2"].UnitCost.Equal(dec("8")))
	assert.True(t, byProduct["p-2"].TotalValue.Equal(dec("40")))
}

func TestQuery_HistorialExigeExactamenteUnFiltro(t *testing.T) {
	_, uc, query := newQueryFixture(t, "")
	applyIn(t, uc, "1", "1")

	_, err := query.ListMovements(context.Background(), companyID, "", "", nil, nil, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	movs, err := query.ListMovements(context.Background(), companyID, productID, "", nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	movs, err = query.ListMovements(context.Background(), companyID, "", warehouseID, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}
