package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento emitidos hacia el colector de notificaciones (§ colaborador
// externo). Todos son best-effort: un fallo al publicar nunca revierte una
// transacción ya confirmada.
const (
	EventLowStock             = "low-stock"
	EventOrderPendingApproval = "order-pending-approval"
	EventOrderRejected        = "order-rejected"
	EventPurchaseRegistered   = "purchase-registered"
	EventSaleConfirmed        = "sale-confirmed"
)

// Event es un mensaje de dominio serializable (JSON) para el fan-out.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Notifier es el puerto de salida hacia el sistema de notificaciones.
// Se inyecta en los casos de uso; los tests sustituyen un fake sin estado global.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// NopNotifier descarta todos los eventos (notificaciones deshabilitadas).
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, Event) error { return nil }

// LowStock construye el evento de stock bajo punto de reorden.
func LowStock(productID string, newStock int64) Event {
	return Event{
		Type:       EventLowStock,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"product_id": productID, "new_stock": newStock},
	}
}

// OrderPendingApproval notifica a los aprobadores que hay un pedido en espera.
func OrderPendingApproval(orderID string, total decimal.Decimal) Event {
	return Event{
		Type:       EventOrderPendingApproval,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"order_id": orderID, "total": total.StringFixed(2)},
	}
}

// OrderRejected notifica al solicitante el rechazo de su pedido.
func OrderRejected(orderID, reason string) Event {
	return Event{
		Type:       EventOrderRejected,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"order_id": orderID, "reason": reason},
	}
}

// PurchaseRegistered notifica el registro de una compra.
func PurchaseRegistered(purchaseID, number string) Event {
	return Event{
		Type:       EventPurchaseRegistered,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"purchase_id": purchaseID, "number": number},
	}
}

// SaleConfirmed notifica la confirmación de una venta.
func SaleConfirmed(saleID, number string) Event {
	return Event{
		Type:       EventSaleConfirmed,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"sale_id": saleID, "number": number},
	}
}
