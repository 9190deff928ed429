package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// Stock es el saldo vivo en unidades enteras (invariante >= 0) y solo lo muta el
// motor de kardex dentro de una transacción; AverageCost es el costo promedio
// ponderado recalculado en cada entrada por compra.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	Description       string
	Price             decimal.Decimal // precio de venta
	AverageCost       decimal.Decimal // costo promedio ponderado
	LastPurchasePrice decimal.Decimal // último precio de compra registrado
	Stock             int64           // saldo vivo en unidades
	ReorderPoint      int64           // punto de reorden (alerta de stock bajo)
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
