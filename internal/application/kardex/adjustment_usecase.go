package kardex

import (
	"context"
	"time"

	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/kardex"
)

// ApproveEntry aprueba un asiento PENDING y aplica la mutación de stock
// diferida. La idempotencia se garantiza releyendo el asiento con bloqueo
// dentro de la transacción: dos aprobaciones concurrentes producen exactamente
// un éxito y un ErrConflict, nunca doble mutación de stock.
func (s *Service) ApproveEntry(ctx context.Context, entryID, approverID string) (*entity.KardexEntry, error) {
	if entryID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var approved *entity.KardexEntry
	events := &notify.Buffer{}
	err := s.txRunner.Run(ctx, func(tx *TxRepos) error {
		entry, err := tx.Kardex.GetByIDForUpdate(entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Status != entity.EntryStatusPending {
			return domain.ErrConflict
		}
		mt, err := tx.MovementTypes.GetByCode(entry.MovementType)
		if err != nil {
			return err
		}
		if mt == nil || !mt.Active {
			return domain.ErrInvalidInput
		}

		product, err := tx.Products.GetByIDForUpdate(entry.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		// El saldo pudo variar desde la creación del asiento: se revalida
		// contra el stock vivo y el antes/después se recalcula aquí.
		stockBefore := product.Stock
		stockAfter := stockBefore
		if mt.AffectsStock {
			stockAfter = stockBefore + mt.Sign()*entry.Quantity
			if stockAfter < 0 {
				return domain.ErrInsufficientStock
			}
			if mt.Code == entity.MovementCompra {
				newCost := kardex.AverageCost(stockBefore, product.AverageCost, entry.Quantity, entry.UnitPrice)
				if err := tx.Products.UpdateStockAndCost(product.ID, stockAfter, newCost, entry.UnitPrice); err != nil {
					return err
				}
			} else {
				if err := tx.Products.UpdateStock(product.ID, stockAfter); err != nil {
					return err
				}
			}
		}

		// La fecha del movimiento es el momento en que el stock muta de
		// verdad, no cuando se solicitó el ajuste: así el kardex conserva
		// el orden cronológico y la cadena antes/después queda contigua.
		now := time.Now()
		entry.Date = now
		entry.StockBefore = stockBefore
		entry.StockAfter = stockAfter
		entry.Status = entity.EntryStatusApproved
		entry.AuthorizedBy = &approverID
		entry.AuthorizedAt = &now
		if err := tx.Kardex.Update(entry); err != nil {
			return err
		}
		if mt.AffectsStock && stockAfter <= product.ReorderPoint {
			events.Add(notify.LowStock(product.ID, stockAfter))
		}
		approved = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return approved, nil
}

// RejectEntry rechaza un asiento PENDING. Nunca toca stock; estampa aprobador,
// fecha y anexa el motivo a las notas.
func (s *Service) RejectEntry(ctx context.Context, entryID, approverID, reason string) (*entity.KardexEntry, error) {
	if entryID == "" || approverID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rejected *entity.KardexEntry
	err := s.txRunner.Run(ctx, func(tx *TxRepos) error {
		entry, err := tx.Kardex.GetByIDForUpdate(entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Status != entity.EntryStatusPending {
			return domain.ErrConflict
		}
		now := time.Now()
		entry.Status = entity.EntryStatusRejected
		entry.AuthorizedBy = &approverID
		entry.AuthorizedAt = &now
		if entry.Notes != "" {
			entry.Notes += " | "
		}
		entry.Notes += "rechazado: " + reason
		if err := tx.Kardex.Update(entry); err != nil {
			return err
		}
		rejected = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}
