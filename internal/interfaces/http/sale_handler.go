package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-erp/internal/application/dto"
	"github.com/tu-usuario/kardex-erp/internal/application/reversal"
	"github.com/tu-usuario/kardex-erp/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido). Las ventas se
// crean únicamente por conversión de pedidos; aquí solo hay consulta y anulación.
type SaleHandler struct {
	svc      *sales.Service
	reversal *reversal.Service
}

// NewSaleHandler construye el handler.
func NewSaleHandler(svc *sales.Service, rev *reversal.Service) *SaleHandler {
	return &SaleHandler{svc: svc, reversal: rev}
}

// GetByID godoc
// @Summary      Consultar venta con líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, lines, err := h.svc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromSale(sale, lines))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.svc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSale(s, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "sales": out})
}

// Reverse godoc
// @Summary      Anular venta
// @Description  Marca la venta ANULADA y registra una entrada DEV_CLIENTE por
//
//	línea al precio original, restaurando el stock.
//
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {array}   dto.KardexEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/reverse [post]
func (h *SaleHandler) Reverse(c *fiber.Ctx) error {
	entries, err := h.reversal.ReverseDocument(c.Context(), reversal.DocSale, c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta anulada", "entries": dto.FromKardexEntries(entries)})
}
