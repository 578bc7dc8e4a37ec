package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/valuation"
)

// Engine motor de valoración. Resuelve el método de costeo del tenant en cada
// llamada (la configuración puede cambiar entre movimientos) y delega en la
// estrategia correspondiente: promedio ponderado o capas FIFO/LIFO.
type Engine struct {
	defaultMethod valuation.Method
}

// NewEngine construye el motor. defaultMethod aplica cuando el tenant no tiene
// configurado INVENTORY_VALUATION_METHOD; vacío o inválido cae a FIFO.
func NewEngine(defaultMethod string) *Engine {
	return &Engine{defaultMethod: valuation.ParseMethod(defaultMethod)}
}

// MethodFor devuelve el método vigente para la empresa.
func (e *Engine) MethodFor(r Repos, companyID string) valuation.Method {
	raw, err := r.Settings.Get(companyID, valuation.SettingKey)
	if err != nil || raw == "" {
		return e.defaultMethod
	}
	return valuation.ParseMethod(raw)
}

// ProcessInbound registra el costo de una entrada y devuelve (costo unitario,
// costo total) a estampar en el movimiento. En promedio ponderado recalcula el
// promedio; en FIFO/LIFO crea una capa nueva sin tocar las existentes.
func (e *Engine) ProcessInbound(r Repos, companyID string, key entity.StockKey, quantity, unitCost decimal.Decimal, referenceID string, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return strategyFor(e.MethodFor(r, companyID)).processInbound(r, companyID, key, quantity, unitCost, referenceID, now)
}

// ProcessOutbound costea una salida según el método vigente y devuelve
// (costo unitario, costo total). No modifica el promedio; sí decrementa capas.
func (e *Engine) ProcessOutbound(r Repos, companyID string, key entity.StockKey, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	return strategyFor(e.MethodFor(r, companyID)).processOutbound(r, companyID, key, quantity)
}

// costingStrategy estrategia de costeo intercambiable. La selección es por
// enum del método, nunca por inspección de tipos en runtime.
type costingStrategy interface {
	processInbound(r Repos, companyID string, key entity.StockKey, quantity, unitCost decimal.Decimal, referenceID string, now time.Time) (decimal.Decimal, decimal.Decimal, error)
	processOutbound(r Repos, companyID string, key entity.StockKey, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
}

func strategyFor(m valuation.Method) costingStrategy {
	switch m {
	case valuation.MethodWeightedAverage:
		return averageCostStrategy{}
	case valuation.MethodLIFO:
		return layeredStrategy{newestFirst: true}
	default:
		return layeredStrategy{newestFirst: false}
	}
}

// averageCostStrategy costo promedio ponderado por (producto, bodega).
type averageCostStrategy struct{}

// processInbound recalcula el promedio. La posición ya fue actualizada en la
// misma tx, así que el stock previo es el total actual menos esta entrada.
func (averageCostStrategy) processInbound(r Repos, companyID string, key entity.StockKey, quantity, unitCost decimal.Decimal, _ string, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	total, err := r.Positions.SumByProductWarehouse(companyID, key.ProductID, key.WarehouseID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	oldQty := total.Sub(quantity)

	oldCost := decimal.Zero
	if avg, err := r.AverageCosts.Get(companyID, key.ProductID, key.WarehouseID); err != nil {
		return decimal.Zero, decimal.Zero, err
	} else if avg != nil {
		oldCost = avg.UnitCost
	}

	newCost := valuation.WeightedAverage(oldQty, oldCost, quantity, unitCost)
	if err := r.AverageCosts.Upsert(&entity.AverageCost{
		CompanyID:   companyID,
		ProductID:   key.ProductID,
		WarehouseID: key.WarehouseID,
		UnitCost:    newCost,
		UpdatedAt:   now,
	}); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return unitCost, unitCost.Mul(quantity), nil
}

// processOutbound estampa el promedio vigente sin modificarlo.
func (averageCostStrategy) processOutbound(r Repos, companyID string, key entity.StockKey, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	avgCost := decimal.Zero
	if avg, err := r.AverageCosts.Get(companyID, key.ProductID, key.WarehouseID); err != nil {
		return decimal.Zero, decimal.Zero, err
	} else if avg != nil {
		avgCost = avg.UnitCost
	}
	return avgCost, avgCost.Mul(quantity), nil
}

// layeredStrategy capas de costeo: FIFO (más antigua primero) o LIFO
// (newestFirst).
type layeredStrategy struct {
	newestFirst bool
}

// processInbound crea una capa nueva; las existentes no se tocan.
func (layeredStrategy) processInbound(r Repos, companyID string, key entity.StockKey, quantity, unitCost decimal.Decimal, referenceID string, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	layer := &entity.ValuationLayer{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		ProductID:         key.ProductID,
		WarehouseID:       key.WarehouseID,
		QuantityOriginal:  quantity,
		QuantityRemaining: quantity,
		UnitCost:          unitCost,
		ReceivedAt:        now,
		ReferenceID:       referenceID,
		CreatedAt:         now,
	}
	if err := r.Layers.Create(layer); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return unitCost, unitCost.Mul(quantity), nil
}

// processOutbound consume capas en orden bajo bloqueo de fila: dos salidas
// concurrentes sobre la misma clave no pueden leer el mismo remanente.
// El faltante por capas agotadas se costea a cero (no es un error aquí).
func (s layeredStrategy) processOutbound(r Repos, companyID string, key entity.StockKey, quantity decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	layers, err := r.Layers.ListOpenForUpdate(companyID, key.ProductID, key.WarehouseID, s.newestFirst)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	res := valuation.ConsumeLayers(layers, quantity)
	for _, c := range res.Consumptions {
		if err := r.Layers.UpdateRemaining(c.LayerID, c.Remaining); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	return valuation.UnitCostFor(res.TotalCost, quantity), res.TotalCost, nil
}
