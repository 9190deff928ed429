package kardex

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/kardex"
)

// ApplyInput describe un movimiento a aplicar sobre el kardex.
// UnitPrice es obligatorio para COMPRA; en salidas, si viene en cero se valora
// al costo promedio vigente del producto (la anulación de documentos pasa el
// precio original explícitamente).
type ApplyInput struct {
	ProductID       string
	WarehouseID     string
	MovementType    string
	Quantity        int64
	UnitPrice       decimal.Decimal
	SourceDocType   string
	SourceDocNumber string
	UserID          string
	Date            time.Time
	Notes           string
}

// ApplyMovement es la única ruta que muta el stock vivo de un producto.
// Debe invocarse dentro de una transacción (tx): bloquea la fila del producto,
// valida dirección y saldo, recalcula costo promedio en compras y escribe el
// asiento APPROVED de forma atómica con la actualización de stock.
//
// Si events no es nil, encola low-stock cuando el saldo queda en o bajo el
// punto de reorden; el caller publica después del commit.
func ApplyMovement(tx *TxRepos, in ApplyInput, events *notify.Buffer) (*entity.KardexEntry, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	mt, err := tx.MovementTypes.GetByCode(in.MovementType)
	if err != nil {
		return nil, err
	}
	if mt == nil || !mt.Active {
		return nil, domain.ErrInvalidInput
	}
	if mt.RequiresDocument && (in.SourceDocType == "" || in.SourceDocNumber == "") {
		return nil, domain.ErrInvalidInput
	}
	if mt.Code == entity.MovementCompra && !in.UnitPrice.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Bloquea la fila del producto (SELECT FOR UPDATE): StockBefore queda
	// garantizado igual al saldo vivo hasta el commit.
	product, err := tx.Products.GetByIDForUpdate(in.ProductID)
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
			return nil, domain.ErrInsufficientStock
		}
	}

	// Las salidas sin precio explícito se valoran al costo promedio vigente.
	unitPrice := in.UnitPrice
	if mt.Direction == entity.DirectionOut && unitPrice.IsZero() {
		unitPrice = product.AverageCost
	}

	if mt.AffectsStock {
		if mt.Code == entity.MovementCompra {
			newCost := kardex.AverageCost(stockBefore, product.AverageCost, in.Quantity, unitPrice)
			if err := tx.Products.UpdateStockAndCost(product.ID, stockAfter, newCost, unitPrice); err != nil {
				return nil, err
			}
			product.AverageCost = newCost
			product.LastPurchasePrice = unitPrice
		} else {
			if err := tx.Products.UpdateStock(product.ID, stockAfter); err != nil {
				return nil, err
			}
		}
		product.Stock = stockAfter
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
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
		Date:            date,
		CreatedBy:       in.UserID,
		Notes:           in.Notes,
		Status:          entity.EntryStatusApproved,
		CreatedAt:       now,
	}
	if err := tx.Kardex.Create(entry); err != nil {
		return nil, err
	}

	if events != nil && mt.AffectsStock && stockAfter <= product.ReorderPoint {
		events.Add(notify.LowStock(product.ID, stockAfter))
	}
	return entry, nil
}
