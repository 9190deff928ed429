package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-erp/internal/application/dto"
	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
)

// KardexHandler maneja las peticiones HTTP del kardex (protegido).
type KardexHandler struct {
	svc *kardex.Service
}

// NewKardexHandler construye el handler.
func NewKardexHandler(svc *kardex.Service) *KardexHandler {
	return &KardexHandler{svc: svc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de kardex
// @Description  Registra una entrada o salida manual. Si el tipo de movimiento
//
//	exige autorización el asiento queda PENDING sin afectar stock.
//
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.KardexEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movements [post]
func (h *KardexHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	entry, err := h.svc.RegisterMovement(c.Context(), kardex.RegisterMovementInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		MovementType:    in.Type,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		SourceDocType:   in.SourceDocType,
		SourceDocNumber: in.SourceDocNumber,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromKardexEntry(entry))
}

// GetLedger godoc
// @Summary      Consultar kardex de un producto
// @Description  Asientos aprobados en orden cronológico con resumen de
//
//	entradas, salidas y saldos de apertura/cierre del rango.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        from   query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to     query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200    {object}  dto.LedgerResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/kardex/products/{id} [get]
func (h *KardexHandler) GetLedger(c *fiber.Ctx) error {
	productID := c.Params("id")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
	}
	if to != nil {
		// El rango es inclusivo: el límite superior cubre todo el día.
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	result, err := h.svc.QueryLedger(c.Context(), productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.LedgerResponse{
		Entries: dto.FromKardexEntries(result.Entries),
		Summary: dto.LedgerSummaryResponse{
			TotalIn:      result.Summary.TotalIn,
			TotalOut:     result.Summary.TotalOut,
			ValuedIn:     result.Summary.ValuedIn.StringFixed(2),
			ValuedOut:    result.Summary.ValuedOut.StringFixed(2),
			OpeningStock: result.Summary.OpeningStock,
			ClosingStock: result.Summary.ClosingStock,
		},
	})
}

// ListPending godoc
// @Summary      Bandeja de asientos pendientes de autorización
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.KardexEntryResponse
// @Router       /api/kardex/pending [get]
func (h *KardexHandler) ListPending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.svc.ListPending(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": dto.FromKardexEntries(entries)})
}

// ApproveEntry godoc
// @Summary      Aprobar un asiento pendiente
// @Description  Aplica la mutación de stock diferida. Aprobar dos veces el
//
//	mismo asiento responde 409.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del asiento"
// @Success      200  {object}  dto.KardexEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/kardex/pending/{id}/approve [post]
func (h *KardexHandler) ApproveEntry(c *fiber.Ctx) error {
	entry, err := h.svc.ApproveEntry(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromKardexEntry(entry))
}

// RejectEntry godoc
// @Summary      Rechazar un asiento pendiente
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del asiento"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200   {object}  dto.KardexEntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/pending/{id}/reject [post]
func (h *KardexHandler) RejectEntry(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo requerido"})
	}
	entry, err := h.svc.RejectEntry(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromKardexEntry(entry))
}

// ListMovementTypes godoc
// @Summary      Catálogo de tipos de movimiento
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.MovementType
// @Router       /api/kardex/movement-types [get]
func (h *KardexHandler) ListMovementTypes(c *fiber.Ctx) error {
	types, err := h.svc.ListMovementTypes(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(types)
}

// parseDateQuery interpreta un query param de fecha YYYY-MM-DD; vacío → nil.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
