package kardex

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// Service registra movimientos manuales de kardex y gobierna la máquina de
// aprobación de ajustes (PENDING → APPROVED/REJECTED, ambos terminales).
type Service struct {
	txRunner      TxRunner
	kardexRepo    repository.KardexRepository
	productRepo   repository.ProductRepository
	movementTypes repository.MovementTypeRepository
	warehouseRepo repository.WarehouseRepository
	notifier      notify.Notifier
	log           *logger.Logger
}

// NewService construye el caso de uso. Los repos sueltos se usan para lecturas
// fuera de transacción; toda mutación pasa por txRunner.
func NewService(
	txRunner TxRunner,
	kardexRepo repository.KardexRepository,
	productRepo repository.ProductRepository,
	movementTypes repository.MovementTypeRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier notify.Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:      txRunner,
		kardexRepo:    kardexRepo,
		productRepo:   productRepo,
		movementTypes: movementTypes,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log,
	}
}

// RegisterMovementInput entrada para registrar un movimiento manual.
type RegisterMovementInput struct {
	ProductID       string
	WarehouseID     string
	MovementType    string
	Quantity        int64
	UnitPrice       decimal.Decimal
	SourceDocType   string
	SourceDocNumber string
	Notes           string
	UserID          string
}

// RegisterMovement registra un movimiento manual. Si el tipo de movimiento del
// catálogo exige autorización, el asiento queda PENDING sin tocar stock (la
// mutación se difiere a la aprobación); si no, se aplica de inmediato como
// APPROVED dentro de una transacción.
func (s *Service) RegisterMovement(ctx context.Context, in RegisterMovementInput) (*entity.KardexEntry, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.MovementType == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if wh, err := s.warehouseRepo.GetByID(in.WarehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}

	var entry *entity.KardexEntry
	events := &notify.Buffer{}
	err := s.txRunner.Run(ctx, func(tx *TxRepos) error {
		mt, err := tx.MovementTypes.GetByCode(in.MovementType)
		if err != nil {
			return err
		}
		if mt == nil || !mt.Active {
			return domain.ErrInvalidInput
		}
		if mt.RequiresAuthorization {
			entry, err = createPending(tx, in, mt)
			return err
		}
		entry, err = ApplyMovement(tx, ApplyInput{
			ProductID:       in.ProductID,
			WarehouseID:     in.WarehouseID,
			MovementType:    in.MovementType,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			SourceDocType:   in.SourceDocType,
			SourceDocNumber: in.SourceDocNumber,
			UserID:          in.UserID,
			Notes:           in.Notes,
		}, events)
		return err
	})
	if err != nil {
		return nil, err
	}
	notify.PublishAll(ctx, s.notifier, s.log, events)
	return entry, nil
}

// createPending valida el movimiento sin escribir stock y crea el asiento en
// PENDING. El antes/después guardado es hipotético: se recalcula del saldo
// vivo al momento de aprobar.
func createPending(tx *TxRepos, in RegisterMovementInput, mt *entity.MovementType) (*entity.KardexEntry, error) {
	if mt.RequiresDocument && (in.SourceDocType == "" || in.SourceDocNumber == "") {
		return nil, domain.ErrInvalidInput
	}
	product, err := tx.Products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}

	stockBefore := product.Stock
	stockAfter := stockBefore
	if mt.AffectsStock {
		stockAfter = stockBefore + mt.Sign()*in.Quantity
		if stockAfter < 0 {
			// Validación temprana: el ajuste dejaría saldo negativo incluso
			// antes de crear el asiento pendiente.
			return nil, domain.ErrInsufficientStock
		}
	}
	unitPrice := in.UnitPrice
	if mt.Direction == entity.DirectionOut && unitPrice.IsZero() {
		unitPrice = product.AverageCost
	}

	now := time.Now()
	entry := &entity.KardexEntry{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		MovementType:    mt.Code,
		Quantity:        in.Quantity,
		UnitPrice:       unitPrice,
		TotalCost:       decimal.NewFromInt(in.Quantity).Mul(unitPrice),
		StockBefore:     stockBefore,
		StockAfter:      stockAfter,
		SourceDocType:   in.SourceDocType,
		SourceDocNumber: in.SourceDocNumber,
		Date:            now,
		CreatedBy:       in.UserID,
		Notes:           in.Notes,
		Status:          entity.EntryStatusPending,
		CreatedAt:       now,
	}
	if err := tx.Kardex.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListPending lista los asientos en espera de autorización.
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*entity.KardexEntry, error) {
	return s.kardexRepo.ListPending(limit, offset)
}

// ListMovementTypes devuelve el catálogo de tipos de movimiento.
func (s *Service) ListMovementTypes(ctx context.Context) ([]*entity.MovementType, error) {
	return s.movementTypes.List()
}
