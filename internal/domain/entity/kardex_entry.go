package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un asiento de kardex. PENDING solo existe para movimientos cuyo
// tipo exige autorización; APPROVED y REJECTED son terminales.
const (
	EntryStatusPending  = "PENDING"
	EntryStatusApproved = "APPROVED"
	EntryStatusRejected = "REJECTED"
)

// Tipos de documento fuente registrados en los asientos.
const (
	DocTypePurchase   = "COMPRA"
	DocTypeSale       = "VENTA"
	DocTypeOrder      = "PEDIDO"
	DocTypeAdjustment = "AJUSTE"
)

// KardexEntry es un asiento inmutable del kardex: registra el delta de stock,
// su causa y el saldo antes/después del movimiento.
//
// Invariante para asientos APPROVED:
//
//	StockAfter = StockBefore + signo(tipo) * Quantity, con StockAfter >= 0
//	y StockBefore igual al saldo vivo del producto al momento del registro
//	(garantizado leyendo el producto con bloqueo en la misma transacción).
type KardexEntry struct {
	ID              string
	ProductID       string
	WarehouseID     string
	MovementType    string // código del catálogo
	Quantity        int64  // siempre > 0; el signo lo aporta la dirección del tipo
	UnitPrice       decimal.Decimal
	TotalCost       decimal.Decimal // Quantity * UnitPrice (salidas valoradas al costo promedio)
	StockBefore     int64
	StockAfter      int64
	SourceDocType   string
	SourceDocNumber string
	Date            time.Time
	CreatedBy       string // usuario que registró el movimiento
	AuthorizedBy    *string
	AuthorizedAt    *time.Time
	Notes           string
	Status          string
	CreatedAt       time.Time
}
