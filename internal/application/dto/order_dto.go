package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// OrderLineRequest línea solicitada en la creación de pedido. El precio se
// relee del catálogo de productos en el servidor; el cliente no lo fija.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Number      string             `json:"number" validate:"required"`
	CustomerID  string             `json:"customer_id" validate:"required,uuid4"`
	WarehouseID string             `json:"warehouse_id" validate:"required,uuid4"`
	Kind        string             `json:"kind" validate:"required,oneof=DIRECTO REQUIERE_APROBACION"`
	Lines       []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	CustomerID   string              `json:"customer_id"`
	WarehouseID  string              `json:"warehouse_id"`
	RequestedBy  string              `json:"requested_by"`
	Kind         string              `json:"kind"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Discount     decimal.Decimal     `json:"discount"`
	Tax          decimal.Decimal     `json:"tax"`
	Total        decimal.Decimal     `json:"total"`
	ApprovedBy   *string             `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	SaleID       *string             `json:"sale_id,omitempty"`
	RejectReason string              `json:"reject_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	Lines        []OrderLineResponse `json:"lines,omitempty"`
}

// OrderLineResponse línea de pedido en respuestas.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// FromOrder convierte la entidad en respuesta, con líneas opcionales.
func FromOrder(o *entity.Order, lines []*entity.OrderLine) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		CustomerID:   o.CustomerID,
		WarehouseID:  o.WarehouseID,
		RequestedBy:  o.RequestedBy,
		Kind:         o.Kind,
		Status:       o.Status,
		Subtotal:     o.Subtotal,
		Discount:     o.Discount,
		Tax:          o.Tax,
		Total:        o.Total,
		ApprovedBy:   o.ApprovedBy,
		ApprovedAt:   o.ApprovedAt,
		SaleID:       o.SaleID,
		RejectReason: o.RejectReason,
		CreatedAt:    o.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
