package purchases

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// Service registra compras a proveedor: documento + líneas + una entrada
// COMPRA por línea (con recalculo de costo promedio) en una sola transacción.
type Service struct {
	txRunner      kardex.TxRunner
	purchaseRepo  repository.PurchaseRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	notifier      notify.Notifier
	log           *logger.Logger
}

// NewService construye el caso de uso de compras.
func NewService(
	txRunner kardex.TxRunner,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier notify.Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:      txRunner,
		purchaseRepo:  purchaseRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log,
	}
}

// LineInput línea de compra: cantidad y precio unitario pactado con el proveedor.
type LineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// RegisterPurchaseInput entrada para registrar una compra.
type RegisterPurchaseInput struct {
	Number      string // número de factura del proveedor (numeración externa)
	SupplierID  string
	WarehouseID string
	UserID      string
	Lines       []LineInput
}

// RegisterPurchase registra la compra completa de forma atómica: por cada
// línea una entrada COMPRA al kardex (stock + costo promedio + último precio)
// y al final el documento con sus líneas. Cualquier fallo revierte todo.
func (s *Service) RegisterPurchase(ctx context.Context, in RegisterPurchaseInput) (*entity.Purchase, error) {
	if in.Number == "" || in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if supplier, err := s.supplierRepo.GetByID(in.SupplierID); err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	if wh, err := s.warehouseRepo.GetByID(in.WarehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}
	for _, li := range in.Lines {
		if li.ProductID == "" || li.Quantity <= 0 || !li.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	sorted := make([]LineInput, len(in.Lines))
	copy(sorted, in.Lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	now := time.Now()
	purchaseID := uuid.New().String()
	var purchase *entity.Purchase
	events := &notify.Buffer{}

	err := s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
		subtotal := decimal.Zero
		lines := make([]*entity.PurchaseLine, 0, len(sorted))
		for _, li := range sorted {
			if _, err := kardex.ApplyMovement(tx, kardex.ApplyInput{
				ProductID:       li.ProductID,
				WarehouseID:     in.WarehouseID,
				MovementType:    entity.MovementCompra,
				Quantity:        li.Quantity,
				UnitPrice:       li.UnitPrice,
				SourceDocType:   entity.DocTypePurchase,
				SourceDocNumber: in.Number,
				UserID:          in.UserID,
				Date:            now,
			}, events); err != nil {
				return err
			}
			lineSubtotal := li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
			lines = append(lines, &entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				ProductID:  li.ProductID,
				Quantity:   li.Quantity,
				UnitPrice:  li.UnitPrice,
				Subtotal:   lineSubtotal,
			})
			subtotal = subtotal.Add(lineSubtotal)
		}

		purchase = &entity.Purchase{
			ID:          purchaseID,
			Number:      in.Number,
			SupplierID:  in.SupplierID,
			WarehouseID: in.WarehouseID,
			Subtotal:    subtotal,
			Total:       subtotal,
			Status:      entity.DocumentStatusActive,
			CreatedBy:   in.UserID,
			Date:        now,
			CreatedAt:   now,
		}
		return tx.Purchases.Create(purchase, lines)
	})
	if err != nil {
		return nil, err
	}
	events.Add(notify.PurchaseRegistered(purchase.ID, purchase.Number))
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return purchase, nil
}

// GetPurchase devuelve una compra con sus líneas.
func (s *Service) GetPurchase(ctx context.Context, purchaseID string) (*entity.Purchase, []*entity.PurchaseLine, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, nil, err
	}
	if purchase == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := s.purchaseRepo.GetLines(purchaseID)
	if err != nil {
		return nil, nil, err
	}
	return purchase, lines, nil
}
