package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	CustomerID  string             `json:"customer_id"`
	OrderID     *string            `json:"order_id,omitempty"`
	WarehouseID string             `json:"warehouse_id"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Total       decimal.Decimal    `json:"total"`
	Status      string             `json:"status"`
	CreatedBy   string             `json:"created_by"`
	Date        time.Time          `json:"date"`
	Lines       []SaleLineResponse `json:"lines,omitempty"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// FromSale convierte la entidad en respuesta, con líneas opcionales.
func FromSale(s *entity.Sale, lines []*entity.SaleLine) SaleResponse {
	resp := SaleResponse{
		ID:          s.ID,
		Number:      s.Number,
		CustomerID:  s.CustomerID,
		OrderID:     s.OrderID,
		WarehouseID: s.WarehouseID,
		Subtotal:    s.Subtotal,
		Tax:         s.Tax,
		Total:       s.Total,
		Status:      s.Status,
		CreatedBy:   s.CreatedBy,
		Date:        s.Date,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
