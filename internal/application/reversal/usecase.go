package reversal

import (
	"context"
	"sort"
	"time"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// Tipos de documento anulables.
const (
	DocPurchase = "COMPRA"
	DocSale     = "VENTA"
)

// Service anula documentos de compra o venta mediante asientos de
// compensación. Los documentos nunca se eliminan ni se tocan sus asientos
// originales: anular solo agrega movimientos inversos y marca el documento
// ANULADA, preservando el historial completo del kardex.
type Service struct {
	txRunner kardex.TxRunner
	notifier notify.Notifier
	log      *logger.Logger
}

// NewService construye el caso de uso de anulación.
func NewService(txRunner kardex.TxRunner, notifier notify.Notifier, log *logger.Logger) *Service {
	return &Service{txRunner: txRunner, notifier: notifier, log: log}
}

// ReverseDocument anula un documento: por cada línea del original aplica el
// movimiento inverso al precio unitario original (compra → DEV_PROVEEDOR,
// venta → DEV_CLIENTE), todo en una sola transacción. Anular una compra cuyas
// unidades ya se vendieron falla con stock insuficiente y no deja efecto alguno.
func (s *Service) ReverseDocument(ctx context.Context, docType, docID, userID string) ([]*entity.KardexEntry, error) {
	if docID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var entries []*entity.KardexEntry
	events := &notify.Buffer{}
	var err error
	switch docType {
	case DocPurchase:
		err = s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
			entries, err = s.reversePurchase(tx, docID, userID, events)
			return err
		})
	case DocSale:
		err = s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
			entries, err = s.reverseSale(tx, docID, userID, events)
			return err
		})
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return entries, nil
}

// reversePurchase emite una salida DEV_PROVEEDOR por línea al precio original.
func (s *Service) reversePurchase(tx *kardex.TxRepos, purchaseID, userID string, events *notify.Buffer) ([]*entity.KardexEntry, error) {
	purchase, err := tx.Purchases.GetByIDForUpdate(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.Status != entity.DocumentStatusActive {
		return nil, domain.ErrConflict
	}
	lines, err := tx.Purchases.GetLines(purchaseID)
	if err != nil {
		return nil, err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	now := time.Now()
	entries := make([]*entity.KardexEntry, 0, len(lines))
	for _, line := range lines {
		entry, err := kardex.ApplyMovement(tx, kardex.ApplyInput{
			ProductID:       line.ProductID,
			WarehouseID:     purchase.WarehouseID,
			MovementType:    entity.MovementDevProv,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice, // compensación al precio original del documento
			SourceDocType:   entity.DocTypePurchase,
			SourceDocNumber: purchase.Number,
			UserID:          userID,
			Date:            now,
			Notes:           "anulación de compra " + purchase.Number,
		}, events)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	purchase.Status = entity.DocumentStatusVoided
	if err := tx.Purchases.Update(purchase); err != nil {
		return nil, err
	}
	return entries, nil
}

// reverseSale emite una entrada DEV_CLIENTE por línea al precio original.
func (s *Service) reverseSale(tx *kardex.TxRepos, saleID, userID string, events *notify.Buffer) ([]*entity.KardexEntry, error) {
	sale, err := tx.Sales.GetByIDForUpdate(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.DocumentStatusActive {
		return nil, domain.ErrConflict
	}
	lines, err := tx.Sales.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	now := time.Now()
	entries := make([]*entity.KardexEntry, 0, len(lines))
	for _, line := range lines {
		entry, err := kardex.ApplyMovement(tx, kardex.ApplyInput{
			ProductID:       line.ProductID,
			WarehouseID:     sale.WarehouseID,
			MovementType:    entity.MovementDevCliente,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice, // compensación al precio original del documento
			SourceDocType:   entity.DocTypeSale,
			SourceDocNumber: sale.Number,
			UserID:          userID,
			Date:            now,
			Notes:           "anulación de venta " + sale.Number,
		}, events)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sale.Status = entity.DocumentStatusVoided
	if err := tx.Sales.Update(sale); err != nil {
		return nil, err
	}
	return entries, nil
}
