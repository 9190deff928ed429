package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex/kardextest"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/application/orders"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

type captureNotifier struct {
	events []notify.Event
}

func (n *captureNotifier) Publish(_ context.Context, ev notify.Event) error {
	n.events = append(n.events, ev)
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newService(f *kardextest.Fixture, n notify.Notifier) *orders.Service {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return orders.NewService(f.Tx, f.Orders, f.Products, f.Customers, f.Warehouses, f.Sales, n, log, dec("0.19"))
}

// seedBase siembra bodega, cliente y dos productos con stock y precio.
func seedBase(f *kardextest.Fixture) {
	f.AddWarehouse("bod-1", "Principal")
	f.AddCustomer("cli-1", "Cliente Uno")
	f.AddProduct("prod-a", "SKU-A", 50, dec("6.00"), dec("10.00"), 0)
	f.AddProduct("prod-b", "SKU-B", 50, dec("4.00"), dec("8.00"), 0)
}

func TestCreateOrder_CalculaTotalesConImpuesto(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})

	order, err := svc.CreateOrder(context.Background(), orders.CreateOrderInput{
		Number:      "P-001",
		CustomerID:  "cli-1",
		WarehouseID: "bod-1",
		Kind:        entity.OrderKindRequiresApproval,
		UserID:      "vendedor-1",
		Lines: []orders.LineInput{
			{ProductID: "prod-a", Quantity: 3, Discount: dec("2.00")}, // 3*10 - 2 = 28
			{ProductID: "prod-b", Quantity: 2},                       // 2*8 = 16
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(dec("44.00")))
	assert.True(t, order.Discount.Equal(dec("2.00")))
	assert.True(t, order.Tax.Equal(dec("8.36")), "impuesto = 44.00 * 0.19")
	assert.True(t, order.Total.Equal(dec("52.36")))

	// La creación no toca stock: eso ocurre en la conversión a venta.
	assert.Equal(t, int64(50), f.Store.Products["prod-a"].Stock)
	assert.Equal(t, int64(50), f.Store.Products["prod-b"].Stock)
}

func TestCreateOrder_ValidacionesDeEntrada(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-1", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindDirect, UserID: "u",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-1", CustomerID: "no-existe", WarehouseID: "bod-1",
		Kind: entity.OrderKindDirect, UserID: "u",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente inexistente")

	_, err = svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-1", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: "OTRO", UserID: "u",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clase de pedido desconocida")

	_, err = svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-1", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindDirect, UserID: "u",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "más unidades que el stock vivo")
}

func TestCreateOrder_DirectoConvierteEnLaMismaTransaccion(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	capture := &captureNotifier{}
	svc := newService(f, capture)

	order, err := svc.CreateOrder(context.Background(), orders.CreateOrderInput{
		Number:      "P-010",
		CustomerID:  "cli-1",
		WarehouseID: "bod-1",
		Kind:        entity.OrderKindDirect,
		UserID:      "vendedor-1",
		Lines:       []orders.LineInput{{ProductID: "prod-a", Quantity: 5}},
	})
	require.NoError(t, err)

	stored, err := f.Orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessed, stored.Status)
	require.NotNil(t, stored.SaleID)

	sale, err := f.Sales.GetByID(*stored.SaleID)
	require.NoError(t, err)
	assert.Equal(t, "V-P-010", sale.Number)
	assert.Equal(t, entity.DocumentStatusActive, sale.Status)
	assert.Equal(t, order.ID, *sale.OrderID)

	assert.Equal(t, int64(45), f.Store.Products["prod-a"].Stock)

	entries, err := f.Kardex.ListByDocument(entity.DocTypeSale, "V-P-010")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementVenta, entries[0].MovementType)
	assert.True(t, entries[0].UnitPrice.Equal(dec("6.00")), "salida valorada al costo promedio")

	require.NotEmpty(t, capture.events)
	assert.Equal(t, notify.EventSaleConfirmed, capture.events[len(capture.events)-1].Type)
}

func TestCreateOrder_RequiereAprobacionNotificaYQuedaPendiente(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	capture := &captureNotifier{}
	svc := newService(f, capture)

	order, err := svc.CreateOrder(context.Background(), orders.CreateOrderInput{
		Number:      "P-011",
		CustomerID:  "cli-1",
		WarehouseID: "bod-1",
		Kind:        entity.OrderKindRequiresApproval,
		UserID:      "vendedor-1",
		Lines:       []orders.LineInput{{ProductID: "prod-a", Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Nil(t, order.SaleID)
	assert.Equal(t, int64(50), f.Store.Products["prod-a"].Stock)

	require.Len(t, capture.events, 1)
	assert.Equal(t, notify.EventOrderPendingApproval, capture.events[0].Type)
	assert.Equal(t, order.ID, capture.events[0].Payload["order_id"])
}

func TestApprove_ConvierteYDescuentaStock(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-020", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindRequiresApproval, UserID: "vendedor-1",
		Lines: []orders.LineInput{
			{ProductID: "prod-a", Quantity: 3},
			{ProductID: "prod-b", Quantity: 2},
		},
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, order.ID, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusProcessed, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "supervisor-1", *approved.ApprovedBy)
	require.NotNil(t, approved.SaleID)

	assert.Equal(t, int64(47), f.Store.Products["prod-a"].Stock)
	assert.Equal(t, int64(48), f.Store.Products["prod-b"].Stock)

	// Aprobar de nuevo responde conflicto.
	_, err = svc.Approve(ctx, order.ID, "supervisor-2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApprove_FalloEnUnaLineaRevierteTodo(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-021", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindRequiresApproval, UserID: "vendedor-1",
		Lines: []orders.LineInput{
			{ProductID: "prod-a", Quantity: 10},
			{ProductID: "prod-b", Quantity: 10},
		},
	})
	require.NoError(t, err)

	// El stock de prod-b se agota entre la creación y la aprobación.
	f.Store.Products["prod-b"].Stock = 4

	_, err = svc.Approve(ctx, order.ID, "supervisor-1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada quedó a medias: prod-a intacto, pedido sigue PENDING, sin venta.
	assert.Equal(t, int64(50), f.Store.Products["prod-a"].Stock, "la línea ya aplicada debe revertirse")
	assert.Equal(t, int64(4), f.Store.Products["prod-b"].Stock)

	stored, err := f.Orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.SaleID)
	assert.Empty(t, f.Store.Sales)
	assert.Empty(t, f.Store.Entries)
}

func TestReject_EstampaMotivoYNotifica(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	capture := &captureNotifier{}
	svc := newService(f, capture)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-030", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindRequiresApproval, UserID: "vendedor-1",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, order.ID, "supervisor-1", "cliente en mora")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusRejected, rejected.Status)
	assert.Equal(t, "cliente en mora", rejected.RejectReason)
	assert.Equal(t, int64(50), f.Store.Products["prod-a"].Stock)

	last := capture.events[len(capture.events)-1]
	assert.Equal(t, notify.EventOrderRejected, last.Type)

	// Rechazo sin motivo es inválido; rechazar dos veces es conflicto.
	_, err = svc.Reject(ctx, order.ID, "supervisor-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Reject(ctx, order.ID, "supervisor-1", "de nuevo")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_SoloDesdePendiente(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-040", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindRequiresApproval, UserID: "vendedor-1",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, order.ID, "vendedor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	// Un pedido ya procesado no se puede cancelar.
	direct, err := svc.CreateOrder(ctx, orders.CreateOrderInput{
		Number: "P-041", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindDirect, UserID: "vendedor-1",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, direct.ID, "vendedor-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
