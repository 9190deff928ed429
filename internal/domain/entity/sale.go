package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de documento (venta o compra). Los documentos nunca se eliminan:
// anular un documento lo marca ANULADA y registra asientos de compensación.
const (
	DocumentStatusActive = "ACTIVA"
	DocumentStatusVoided = "ANULADA"
)

// Sale representa un documento de venta (cabecera).
type Sale struct {
	ID          string
	Number      string
	CustomerID  string
	OrderID     *string // pedido de origen, si la venta proviene de una conversión
	WarehouseID string
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Status      string
	CreatedBy   string
	Date        time.Time
	CreatedAt   time.Time
}

// SaleLine es una línea de detalle de una venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
