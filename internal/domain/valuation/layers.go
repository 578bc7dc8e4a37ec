package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Consumption resultado de consumir una capa: cuánto se tomó y a qué costo.
type Consumption struct {
	LayerID   string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Remaining decimal.Decimal // remanente de la capa tras el consumo
}

// ConsumeResult costo total de una salida sobre capas FIFO/LIFO.
type ConsumeResult struct {
	Consumptions []Consumption
	TotalCost    decimal.Decimal
	Shortfall    decimal.Decimal // demanda no cubierta por capas (costeada a cero)
}

// ConsumeLayers recorre las capas en el orden recibido (el repositorio ya las
// ordena: FIFO = más antigua primero, LIFO = más reciente primero) y consume
// min(demanda restante, remanente de la capa) hasta agotar la demanda.
// Si las capas se agotan antes que la demanda, el faltante se costea a cero y
// se reporta en Shortfall: con contabilidad de stock correcta no debería
// ocurrir, y fallar aquí bloquearía una salida válida.
func ConsumeLayers(layers []*entity.ValuationLayer, demand decimal.Decimal) ConsumeResult {
	res := ConsumeResult{TotalCost: decimal.Zero, Shortfall: decimal.Zero}
	remaining := demand
	for _, layer := range layers {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if !layer.QuantityRemaining.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, layer.QuantityRemaining)
		res.Consumptions = append(res.Consumptions, Consumption{
			LayerID:   layer.ID,
			Quantity:  take,
			UnitCost:  layer.UnitCost,
			Remaining: layer.QuantityRemaining.Sub(take),
		})
		res.TotalCost = res.TotalCost.Add(take.Mul(layer.UnitCost))
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		res.Shortfall = remaining
	}
	return res
}

// UnitCostFor deriva el costo unitario de una salida: total / cantidad,
// redondeado a CostScale. Cantidad cero devuelve cero.
func UnitCostFor(totalCost, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(quantity).Round(CostScale)
}
