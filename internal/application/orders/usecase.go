package orders

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

// Service gobierna la máquina de estados de pedidos y su conversión en venta:
// PENDING → {APPROVED→PROCESSED, REJECTED}, CANCELLED desde PENDING.
// Los pedidos DIRECTO nacen aprobados y se convierten en la misma transacción.
type Service struct {
	txRunner      kardex.TxRunner
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository
	notifier      notify.Notifier
	log           *logger.Logger
	taxRate       decimal.Decimal // tasa fija aplicada al subtotal del pedido
}

// NewService construye el caso de uso de pedidos.
func NewService(
	txRunner kardex.TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
	notifier notify.Notifier,
	log *logger.Logger,
	taxRate decimal.Decimal,
) *Service {
	return &Service{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
		notifier:      notifier,
		log:           log,
		taxRate:       taxRate,
	}
}

// LineInput línea solicitada por el cliente. El precio unitario se relee del
// producto al crear el pedido; el descuento es por línea.
type LineInput struct {
	ProductID string
	Quantity  int64
	Discount  decimal.Decimal
}

// CreateOrderInput entrada para crear un pedido.
type CreateOrderInput struct {
	Number      string // consecutivo suministrado por numeración externa
	CustomerID  string
	WarehouseID string
	Kind        string // DIRECTO | REQUIERE_APROBACION
	UserID      string
	Lines       []LineInput
}

// CreateOrder valida todas las líneas contra el stock y precio vivos antes de
// escribir fila alguna (todo o nada), calcula totales con la tasa fija de
// impuesto y persiste pedido + líneas en una transacción. Un pedido DIRECTO se
// convierte en venta dentro de esa misma transacción.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if in.Number == "" || in.CustomerID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != entity.OrderKindDirect && in.Kind != entity.OrderKindRequiresApproval {
		return nil, domain.ErrInvalidInput
	}
	if customer, err := s.customerRepo.GetByID(in.CustomerID); err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if wh, err := s.warehouseRepo.GetByID(in.WarehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderID := uuid.New().String()
	var order *entity.Order
	events := &notify.Buffer{}

	err := s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
		// Pre-chequeo por línea con stock y precio vivos; ningún fallo deja filas.
		lines := make([]*entity.OrderLine, 0, len(in.Lines))
		subtotal := decimal.Zero
		discount := decimal.Zero
		for _, li := range in.Lines {
			if li.ProductID == "" || li.Quantity <= 0 || li.Discount.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			product, err := tx.Products.GetByID(li.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if !product.Active {
				return domain.ErrProductInactive
			}
			if product.Stock < li.Quantity {
				return domain.ErrInsufficientStock
			}
			lineSubtotal := product.Price.Mul(decimal.NewFromInt(li.Quantity)).Sub(li.Discount)
			if lineSubtotal.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			lines = append(lines, &entity.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: li.ProductID,
				Quantity:  li.Quantity,
				UnitPrice: product.Price,
				Discount:  li.Discount,
				Subtotal:  lineSubtotal,
			})
			subtotal = subtotal.Add(lineSubtotal)
			discount = discount.Add(li.Discount)
		}

		tax := subtotal.Mul(s.taxRate)
		order = &entity.Order{
			ID:          orderID,
			Number:      in.Number,
			CustomerID:  in.CustomerID,
			WarehouseID: in.WarehouseID,
			RequestedBy: in.UserID,
			Kind:        in.Kind,
			Status:      entity.OrderStatusPending,
			Subtotal:    subtotal,
			Discount:    discount,
			Tax:         tax,
			Total:       subtotal.Add(tax),
			CreatedAt:   now,
		}
		if in.Kind == entity.OrderKindDirect {
			// Un pedido directo nace aprobado: no pasa por PENDING.
			order.Status = entity.OrderStatusApproved
		}
		if err := tx.Orders.Create(order, lines); err != nil {
			return err
		}

		if in.Kind == entity.OrderKindDirect {
			if _, err := s.convertInTx(tx, order, lines, in.UserID, events); err != nil {
				return err
			}
			return nil
		}
		events.Add(notify.OrderPendingApproval(order.ID, order.Total))
		return nil
	})
	if err != nil {
		return nil, err
	}
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return order, nil
}

// Approve aprueba un pedido PENDING y lo convierte en venta. Si cualquier
// línea falla (el stock pudo variar desde la creación), toda la aprobación se
// revierte: sin descuentos parciales de stock, sin venta, pedido sigue PENDING.
func (s *Service) Approve(ctx context.Context, orderID, approverID string) (*entity.Order, error) {
	if orderID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var approved *entity.Order
	events := &notify.Buffer{}
	err := s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
		order, err := tx.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrConflict
		}
		lines, err := tx.Orders.GetLines(order.ID)
		if err != nil {
			return err
		}
		if _, err := s.convertInTx(tx, order, lines, approverID, events); err != nil {
			return err
		}
		approved = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return approved, nil
}

// convertInTx convierte un pedido en venta dentro de la transacción del caller:
// una salida VENTA por línea (bloqueando productos en orden ascendente de id
// para evitar deadlocks entre aprobaciones concurrentes), luego la venta única
// enlazada al pedido y el estado PROCESSED.
func (s *Service) convertInTx(
	tx *kardex.TxRepos,
	order *entity.Order,
	lines []*entity.OrderLine,
	approverID string,
	events *notify.Buffer,
) (*entity.Sale, error) {
	sorted := make([]*entity.OrderLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	now := time.Now()
	saleID := uuid.New().String()
	saleNumber := "V-" + order.Number

	saleLines := make([]*entity.SaleLine, 0, len(sorted))
	for _, line := range sorted {
		// Reutiliza la única ruta de mutación de stock; un fallo aquí
		// (ej. stock insuficiente) aborta la conversión completa.
		if _, err := kardex.ApplyMovement(tx, kardex.ApplyInput{
			ProductID:       line.ProductID,
			WarehouseID:     order.WarehouseID,
			MovementType:    entity.MovementVenta,
			Quantity:        line.Quantity,
			SourceDocType:   entity.DocTypeSale,
			SourceDocNumber: saleNumber,
			UserID:          approverID,
			Date:            now,
		}, events); err != nil {
			return nil, err
		}
		saleLines = append(saleLines, &entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	sale := &entity.Sale{
		ID:          saleID,
		Number:      saleNumber,
		CustomerID:  order.CustomerID,
		OrderID:     &order.ID,
		WarehouseID: order.WarehouseID,
		Subtotal:    order.Subtotal,
		Tax:         order.Tax,
		Total:       order.Total,
		Status:      entity.DocumentStatusActive,
		CreatedBy:   approverID,
		Date:        now,
		CreatedAt:   now,
	}
	if err := tx.Sales.Create(sale, saleLines); err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatusProcessed
	order.ApprovedBy = &approverID
	order.ApprovedAt = &now
	order.SaleID = &sale.ID
	if err := tx.Orders.Update(order); err != nil {
		return nil, err
	}
	events.Add(notify.SaleConfirmed(sale.ID, sale.Number))
	return sale, nil
}

// Reject rechaza un pedido PENDING; estampa aprobador y motivo, sin efecto en stock.
func (s *Service) Reject(ctx context.Context, orderID, approverID, reason string) (*entity.Order, error) {
	if orderID == "" || approverID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rejected *entity.Order
	err := s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
		order, err := tx.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrConflict
		}
		now := time.Now()
		order.Status = entity.OrderStatusRejected
		order.ApprovedBy = &approverID
		order.ApprovedAt = &now
		order.RejectReason = reason
		if err := tx.Orders.Update(order); err != nil {
			return err
		}
		rejected = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifier.Publish(ctx, notify.OrderRejected(rejected.ID, reason)); err != nil && s.log != nil {
		s.log.Warn().Err(err).Str("order_id", rejected.ID).Msg("no se pudo publicar notificación")
	}
	return rejected, nil
}

// Cancel anula un pedido PENDING a solicitud del cliente; sin efecto en stock.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	if orderID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var cancelled *entity.Order
	err := s.txRunner.Run(ctx, func(tx *kardex.TxRepos) error {
		order, err := tx.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrConflict
		}
		order.Status = entity.OrderStatusCancelled
		if err := tx.Orders.Update(order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetOrder devuelve un pedido con sus líneas.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*entity.Order, []*entity.OrderLine, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := s.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

// ListByStatus lista pedidos por estado (bandeja de aprobación).
func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	return s.orderRepo.ListByStatus(status, limit, offset)
}
