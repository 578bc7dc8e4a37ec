package valuation

import "github.com/shopspring/decimal"

// CostScale decimales del costo promedio persistido (redondeo half-up).
const CostScale = 6

// WeightedAverage recalcula el costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock previo es cero o negativo, el promedio se reinicia al costo de la
// entrada: un stock distorsionado no debe contaminar el nuevo promedio.
func WeightedAverage(oldQty, oldCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if oldQty.LessThanOrEqual(decimal.Zero) {
		return inCost.Round(CostScale)
	}
	num := oldQty.Mul(oldCost).Add(inQty.Mul(inCost))
	return num.Div(oldQty.Add(inQty)).Round(CostScale)
}
