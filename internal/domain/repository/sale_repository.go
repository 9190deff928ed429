package repository

import "github.com/tu-usuario/kardex-erp/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	Create(sale *entity.Sale, lines []*entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	GetByIDForUpdate(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	Update(sale *entity.Sale) error
	List(limit, offset int) ([]*entity.Sale, error)
}
