package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-erp/internal/application/inventory"
)

// InventoryHandler maneja consultas auxiliares de inventario (protegido).
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment}
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Devuelve los SKUs en o bajo el punto de reorden con la
//
//	cantidad sugerida de pedido.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   inventory.ReplenishmentSuggestion
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "replenishments": list})
}
