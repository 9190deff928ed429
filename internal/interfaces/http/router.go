package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-erp/internal/application/inventory"
	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/application/orders"
	"github.com/tu-usuario/kardex-erp/internal/application/purchases"
	"github.com/tu-usuario/kardex-erp/internal/application/reversal"
	"github.com/tu-usuario/kardex-erp/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	KardexSvc     *kardex.Service
	OrderSvc      *orders.Service
	PurchaseSvc   *purchases.Service
	SaleSvc       *sales.Service
	ReversalSvc   *reversal.Service
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Toda la API exige Bearer Token;
// aprobaciones, rechazos y anulaciones exigen además rol admin o supervisor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	approvers := RequireRole("admin", "supervisor")

	// Kardex
	kardexGroup := api.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexSvc)
	kardexGroup.Post("/movements", kardexHandler.RegisterMovement)
	kardexGroup.Get("/movement-types", kardexHandler.ListMovementTypes)
	kardexGroup.Get("/products/:id", kardexHandler.GetLedger)
	kardexGroup.Get("/pending", kardexHandler.ListPending)
	kardexGroup.Post("/pending/:id/approve", approvers, kardexHandler.ApproveEntry)
	kardexGroup.Post("/pending/:id/reject", approvers, kardexHandler.RejectEntry)

	// Pedidos
	orderGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderSvc)
	orderGroup.Post("/", orderHandler.Create)
	orderGroup.Get("/", orderHandler.List)
	orderGroup.Get("/:id", orderHandler.GetByID)
	orderGroup.Post("/:id/approve", approvers, orderHandler.Approve)
	orderGroup.Post("/:id/reject", approvers, orderHandler.Reject)
	orderGroup.Post("/:id/cancel", orderHandler.Cancel)

	// Compras
	purchaseGroup := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc, deps.ReversalSvc)
	purchaseGroup.Post("/", purchaseHandler.Register)
	purchaseGroup.Get("/:id", purchaseHandler.GetByID)
	purchaseGroup.Post("/:id/reverse", approvers, purchaseHandler.Reverse)

	// Ventas
	saleGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleSvc, deps.ReversalSvc)
	saleGroup.Get("/", saleHandler.List)
	saleGroup.Get("/:id", saleHandler.GetByID)
	saleGroup.Post("/:id/reverse", approvers, saleHandler.Reverse)

	// Inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
}
