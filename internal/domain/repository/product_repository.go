package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) y solo tiene sentido
// dentro de una transacción; es la única vía para leer-modificar-escribir stock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByIDForUpdate(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock int64) error
	UpdateStockAndCost(productID string, stock int64, averageCost, lastPurchasePrice decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
	ListBelowReorder() ([]*entity.Product, error)
}
