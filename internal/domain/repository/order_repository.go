package repository

import "github.com/tu-usuario/kardex-erp/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order, lines []*entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	GetByIDForUpdate(id string) (*entity.Order, error)
	GetLines(orderID string) ([]*entity.OrderLine, error)
	Update(order *entity.Order) error
	ListByStatus(status string, limit, offset int) ([]*entity.Order, error)
}
