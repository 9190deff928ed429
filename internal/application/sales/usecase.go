package sales

import (
	"context"

	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

// Service consultas de ventas. Las ventas solo nacen por conversión de pedidos
// y solo cambian de estado por anulación; aquí no hay escrituras.
type Service struct {
	saleRepo repository.SaleRepository
}

// NewService construye el caso de uso de consulta de ventas.
func NewService(saleRepo repository.SaleRepository) *Service {
	return &Service{saleRepo: saleRepo}
}

// GetSale devuelve una venta con sus líneas.
func (s *Service) GetSale(ctx context.Context, saleID string) (*entity.Sale, []*entity.SaleLine, error) {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := s.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, lines, nil
}

// List lista ventas con paginación.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return s.saleRepo.List(limit, offset)
}
