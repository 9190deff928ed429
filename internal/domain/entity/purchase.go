package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa un documento de compra a proveedor (cabecera).
type Purchase struct {
	ID          string
	Number      string
	SupplierID  string
	WarehouseID string
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	Status      string
	CreatedBy   string
	Date        time.Time
	CreatedAt   time.Time
}

// PurchaseLine es una línea de detalle de una compra.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
