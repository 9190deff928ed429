package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/kardex/movements.
type RegisterMovementRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID     string          `json:"warehouse_id" validate:"required,uuid4"`
	Type            string          `json:"type" validate:"required"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SourceDocType   string          `json:"source_doc_type,omitempty"`
	SourceDocNumber string          `json:"source_doc_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// RejectRequest body para rechazos (asientos y pedidos). El motivo es obligatorio.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// KardexEntryResponse asiento de kardex en respuestas.
type KardexEntryResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	MovementType    string          `json:"movement_type"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	StockBefore     int64           `json:"stock_before"`
	StockAfter      int64           `json:"stock_after"`
	SourceDocType   string          `json:"source_doc_type,omitempty"`
	SourceDocNumber string          `json:"source_doc_number,omitempty"`
	Date            time.Time       `json:"date"`
	CreatedBy       string          `json:"created_by"`
	AuthorizedBy    *string         `json:"authorized_by,omitempty"`
	AuthorizedAt    *time.Time      `json:"authorized_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
}

// FromKardexEntry convierte la entidad en respuesta.
func FromKardexEntry(e *entity.KardexEntry) KardexEntryResponse {
	return KardexEntryResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		WarehouseID:     e.WarehouseID,
		MovementType:    e.MovementType,
		Quantity:        e.Quantity,
		UnitPrice:       e.UnitPrice,
		TotalCost:       e.TotalCost,
		StockBefore:     e.StockBefore,
		StockAfter:      e.StockAfter,
		SourceDocType:   e.SourceDocType,
		SourceDocNumber: e.SourceDocNumber,
		Date:            e.Date,
		CreatedBy:       e.CreatedBy,
		AuthorizedBy:    e.AuthorizedBy,
		AuthorizedAt:    e.AuthorizedAt,
		Notes:           e.Notes,
		Status:          e.Status,
	}
}

// FromKardexEntries convierte un listado de asientos.
func FromKardexEntries(entries []*entity.KardexEntry) []KardexEntryResponse {
	out := make([]KardexEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromKardexEntry(e))
	}
	return out
}

// LedgerSummaryResponse resumen del rango consultado del kardex.
type LedgerSummaryResponse struct {
	TotalIn      int64  `json:"total_in"`
	TotalOut     int64  `json:"total_out"`
	ValuedIn     string `json:"valued_in"`
	ValuedOut    string `json:"valued_out"`
	OpeningStock int64  `json:"opening_stock"`
	ClosingStock int64  `json:"closing_stock"`
}

// LedgerResponse respuesta de GET /api/kardex/products/:id.
type LedgerResponse struct {
	Entries []KardexEntryResponse `json:"entries"`
	Summary LedgerSummaryResponse `json:"summary"`
}
