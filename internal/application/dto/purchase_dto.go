package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// PurchaseLineRequest línea de compra: cantidad y precio pactado con el proveedor.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// RegisterPurchaseRequest body para POST /api/purchases.
type RegisterPurchaseRequest struct {
	Number      string                `json:"number" validate:"required"`
	SupplierID  string                `json:"supplier_id" validate:"required,uuid4"`
	WarehouseID string                `json:"warehouse_id" validate:"required,uuid4"`
	Lines       []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseResponse compra en respuestas.
type PurchaseResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	SupplierID  string                 `json:"supplier_id"`
	WarehouseID string                 `json:"warehouse_id"`
	Subtotal    decimal.Decimal        `json:"subtotal"`
	Total       decimal.Decimal        `json:"total"`
	Status      string                 `json:"status"`
	CreatedBy   string                 `json:"created_by"`
	Date        time.Time              `json:"date"`
	Lines       []PurchaseLineResponse `json:"lines,omitempty"`
}

// PurchaseLineResponse línea de compra en respuestas.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// FromPurchase convierte la entidad en respuesta, con líneas opcionales.
func FromPurchase(p *entity.Purchase, lines []*entity.PurchaseLine) PurchaseResponse {
	resp := PurchaseResponse{
		ID:          p.ID,
		Number:      p.Number,
		SupplierID:  p.SupplierID,
		WarehouseID: p.WarehouseID,
		Subtotal:    p.Subtotal,
		Total:       p.Total,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
		Date:        p.Date,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
