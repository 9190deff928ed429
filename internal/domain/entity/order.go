package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de pedido. Un pedido DIRECTO nace aprobado y se convierte en venta en
// la misma transacción; uno REQUIERE_APROBACION nace PENDING y solo llega a
// PROCESSED a través del flujo de aprobación.
const (
	OrderKindDirect           = "DIRECTO"
	OrderKindRequiresApproval = "REQUIERE_APROBACION"
)

// Estados de pedido. REJECTED y CANCELLED solo son alcanzables desde PENDING;
// PROCESSED solo desde APPROVED vía la conversión a venta.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusApproved  = "APPROVED"
	OrderStatusProcessed = "PROCESSED"
	OrderStatusRejected  = "REJECTED"
	OrderStatusCancelled = "CANCELLED"
)

// Order representa un pedido de cliente.
type Order struct {
	ID           string
	Number       string // consecutivo suministrado por numeración externa
	CustomerID   string
	WarehouseID  string // bodega que despacha al convertir en venta
	RequestedBy  string // usuario solicitante
	Kind         string
	Status       string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	ApprovedBy   *string
	ApprovedAt   *time.Time
	SaleID       *string // venta generada por la conversión
	RejectReason string
	CreatedAt    time.Time
}

// OrderLine es una línea de pedido. Subtotal = (UnitPrice * Quantity) - Discount.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}
