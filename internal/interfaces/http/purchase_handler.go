package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/dto"
	"github.com/tu-usuario/kardex-erp/internal/application/purchases"
	"github.com/tu-usuario/kardex-erp/internal/application/reversal"
)

// PurchaseHandler maneja las peticiones HTTP de compras (protegido).
type PurchaseHandler struct {
	svc      *purchases.Service
	reversal *reversal.Service
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(svc *purchases.Service, rev *reversal.Service) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, reversal: rev}
}

// Register godoc
// @Summary      Registrar compra a proveedor
// @Description  Crea el documento, sus líneas y una entrada COMPRA al kardex
//
//	por línea (stock + costo promedio) en una sola transacción.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lines := make([]purchases.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		if !l.UnitPrice.GreaterThan(decimal.Zero) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "precio unitario debe ser positivo"})
		}
		lines = append(lines, purchases.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	purchase, err := h.svc.RegisterPurchase(c.Context(), purchases.RegisterPurchaseInput{
		Number:      in.Number,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		UserID:      GetUserID(c),
		Lines:       lines,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchase(purchase, nil))
}

// GetByID godoc
// @Summary      Consultar compra con líneas
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, lines, err := h.svc.GetPurchase(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.FromPurchase(purchase, lines))
}

// Reverse godoc
// @Summary      Anular compra
// @Description  Marca la compra ANULADA y registra una salida DEV_PROVEEDOR
//
//	por línea al precio original. Si las unidades ya se vendieron
//	responde 409 sin efecto alguno.
//
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {array}   dto.KardexEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/reverse [post]
func (h *PurchaseHandler) Reverse(c *fiber.Ctx) error {
	entries, err := h.reversal.ReverseDocument(c.Context(), reversal.DocPurchase, c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra anulada", "entries": dto.FromKardexEntries(entries)})
}
