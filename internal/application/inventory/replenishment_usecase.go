package inventory

import (
	"context"

	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

// ReplenishmentSuggestion un SKU en o bajo su punto de reorden con la
// cantidad de pedido sugerida.
type ReplenishmentSuggestion struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Stock             int64  `json:"stock"`
	ReorderPoint      int64  `json:"reorder_point"`
	SuggestedQuantity int64  `json:"suggested_quantity"`
}

// ReplenishmentUseCase genera la lista de reposición a partir del punto de
// reorden de cada producto.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos activos con stock en o bajo
// su punto de reorden. La cantidad sugerida repone hasta el doble del punto de
// reorden, de modo que el SKU no vuelva a disparar la alerta de inmediato.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	products, err := uc.productRepo.ListBelowReorder()
	if err != nil {
		return nil, err
	}
	list := make([]ReplenishmentSuggestion, 0, len(products))
	for _, p := range products {
		suggested := p.ReorderPoint*2 - p.Stock
		if suggested <= 0 {
			continue
		}
		list = append(list, ReplenishmentSuggestion{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			Stock:             p.Stock,
			ReorderPoint:      p.ReorderPoint,
			SuggestedQuantity: suggested,
		})
	}
	return list, nil
}
