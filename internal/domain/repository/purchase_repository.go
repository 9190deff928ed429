package repository

import "github.com/tu-usuario/kardex-erp/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase, lines []*entity.PurchaseLine) error
	GetByID(id string) (*entity.Purchase, error)
	GetByIDForUpdate(id string) (*entity.Purchase, error)
	GetLines(purchaseID string) ([]*entity.PurchaseLine, error)
	Update(purchase *entity.Purchase) error
	List(limit, offset int) ([]*entity.Purchase, error)
}
