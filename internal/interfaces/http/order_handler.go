package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/dto"
	"github.com/tu-usuario/kardex-erp/internal/application/orders"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	svc *orders.Service
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Valida stock y precio vivos de todas las líneas antes de
//
//	escribir. Un pedido DIRECTO se convierte en venta en la misma
//	transacción; uno REQUIERE_APROBACION queda PENDING.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lines := make([]orders.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		discount := l.Discount
		if discount.LessThan(decimal.Zero) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "descuento negativo"})
		}
		lines = append(lines, orders.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, Discount: discount})
	}
	order, err := h.svc.CreateOrder(c.Context(), orders.CreateOrderInput{
		Number:      in.Number,
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Kind:        in.Kind,
		UserID:      GetUserID(c),
		Lines:       lines,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(order, nil))
}

// GetByID godoc
// @Summary      Consultar pedido con líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, lines, err := h.svc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromOrder(order, lines))
}

// List godoc
// @Summary      Listar pedidos por estado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | PROCESSED | REJECTED | CANCELLED"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	status := c.Query("status", entity.OrderStatusPending)
	list, err := h.svc.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.FromOrder(o, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Approve godoc
// @Summary      Aprobar pedido pendiente
// @Description  Convierte el pedido en venta de forma atómica. Si alguna
//
//	línea ya no tiene stock toda la aprobación se revierte y el
//	pedido sigue PENDING.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	order, err := h.svc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromOrder(order, nil))
}

// Reject godoc
// @Summary      Rechazar pedido pendiente
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del pedido"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo requerido"})
	}
	order, err := h.svc.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromOrder(order, nil))
}

// Cancel godoc
// @Summary      Cancelar pedido pendiente
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.svc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromOrder(order, nil))
}
