package kardex

import "github.com/shopspring/decimal"

// AverageCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockAnterior * CostoActual) + (Cantidad * PrecioUnitario)) / StockFinal
// Si el stock final es <= 0 el costo promedio no cambia (guardia de división por cero).
func AverageCost(stockBefore int64, currentCost decimal.Decimal, quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	stockAfter := stockBefore + quantity
	if stockAfter <= 0 {
		return currentCost
	}
	num := decimal.NewFromInt(stockBefore).Mul(currentCost).
		Add(decimal.NewFromInt(quantity).Mul(unitPrice))
	return num.Div(decimal.NewFromInt(stockAfter))
}
