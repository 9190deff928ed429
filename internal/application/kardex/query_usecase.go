package kardex

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// LedgerSummary resume un rango del kardex de un producto: unidades y valor
// de entradas/salidas más el saldo de apertura y cierre del rango.
type LedgerSummary struct {
	TotalIn      int64
	TotalOut     int64
	ValuedIn     decimal.Decimal
	ValuedOut    decimal.Decimal
	OpeningStock int64
	ClosingStock int64
}

// LedgerResult entrega los asientos aprobados en orden cronológico ascendente
// junto con el resumen derivado.
type LedgerResult struct {
	Entries []*entity.KardexEntry
	Summary LedgerSummary
}

// QueryLedger consulta el kardex de un producto en un rango de fechas.
// Solo considera asientos APPROVED; la dirección de cada asiento se toma del
// catálogo, nunca del contenido del código.
func (s *Service) QueryLedger(ctx context.Context, productID string, from, to *time.Time, limit, offset int) (*LedgerResult, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	types, err := s.movementTypes.List()
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*entity.MovementType, len(types))
	for _, mt := range types {
		byCode[mt.Code] = mt
	}

	entries, err := s.kardexRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}

	summary := LedgerSummary{
		ValuedIn:     decimal.Zero,
		ValuedOut:    decimal.Zero,
		OpeningStock: product.Stock,
		ClosingStock: product.Stock,
	}
	for _, e := range entries {
		mt := byCode[e.MovementType]
		if mt == nil {
			continue
		}
		if mt.Direction == entity.DirectionIn {
			summary.TotalIn += e.Quantity
			summary.ValuedIn = summary.ValuedIn.Add(e.TotalCost)
		} else {
			summary.TotalOut += e.Quantity
			summary.ValuedOut = summary.ValuedOut.Add(e.TotalCost)
		}
	}
	if len(entries) > 0 {
		summary.OpeningStock = entries[0].StockBefore
		summary.ClosingStock = entries[len(entries)-1].StockAfter
	}

	return &LedgerResult{Entries: entries, Summary: summary}, nil
}
