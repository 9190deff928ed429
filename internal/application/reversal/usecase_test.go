package reversal_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex/kardextest"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/application/orders"
	"github.com/tu-usuario/kardex-erp/internal/application/purchases"
	"github.com/tu-usuario/kardex-erp/internal/application/reversal"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// seedPurchase registra una compra real a través del caso de uso de compras
// para que la anulación opere sobre un documento legítimo.
func seedPurchase(t *testing.T, f *kardextest.Fixture) *entity.Purchase {
	t.Helper()
	f.AddWarehouse("bod-1", "Principal")
	f.AddSupplier("prov-1", "Proveedor Uno")
	f.AddProduct("prod-a", "SKU-A", 0, dec("0"), dec("12.00"), 0)

	svc := purchases.NewService(f.Tx, f.Purchases, f.Suppliers, f.Warehouses, notify.NopNotifier{}, testLogger())
	purchase, err := svc.RegisterPurchase(context.Background(), purchases.RegisterPurchaseInput{
		Number: "FC-1", SupplierID: "prov-1", WarehouseID: "bod-1", UserID: "u",
		Lines: []purchases.LineInput{{ProductID: "prod-a", Quantity: 10, UnitPrice: dec("5.00")}},
	})
	require.NoError(t, err)
	return purchase
}

func TestReversePurchase_RestauraStockYMarcaAnulada(t *testing.T) {
	f := kardextest.New()
	purchase := seedPurchase(t, f)
	svc := reversal.NewService(f.Tx, notify.NopNotifier{}, testLogger())

	entries, err := svc.ReverseDocument(context.Background(), reversal.DocPurchase, purchase.ID, "supervisor-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, entity.MovementDevProv, entries[0].MovementType)
	assert.True(t, entries[0].UnitPrice.Equal(dec("5.00")), "compensación al precio original")
	assert.Equal(t, int64(0), f.Store.Products["prod-a"].Stock)

	stored, err := f.Purchases.GetByID(purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusVoided, stored.Status)

	// El kardex conserva el asiento original y el de compensación.
	all, err := f.Kardex.ListByDocument(entity.DocTypePurchase, "FC-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReversePurchase_DobleAnulacionRespondeConflicto(t *testing.T) {
	f := kardextest.New()
	purchase := seedPurchase(t, f)
	svc := reversal.NewService(f.Tx, notify.NopNotifier{}, testLogger())
	ctx := context.Background()

	_, err := svc.ReverseDocument(ctx, reversal.DocPurchase, purchase.ID, "supervisor-1")
	require.NoError(t, err)

	_, err = svc.ReverseDocument(ctx, reversal.DocPurchase, purchase.ID, "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(0), f.Store.Products["prod-a"].Stock, "la segunda anulación no debe mutar stock")
}

func TestReversePurchase_UnidadesYaVendidasFallaSinEfecto(t *testing.T) {
	f := kardextest.New()
	purchase := seedPurchase(t, f)

	// Se venden 8 de las 10 unidades compradas.
	f.Store.Products["prod-a"].Stock = 2

	svc := reversal.NewService(f.Tx, notify.NopNotifier{}, testLogger())
	_, err := svc.ReverseDocument(context.Background(), reversal.DocPurchase, purchase.ID, "supervisor-1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := f.Purchases.GetByID(purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusActive, stored.Status, "el documento sigue activo tras el fallo")
	assert.Equal(t, int64(2), f.Store.Products["prod-a"].Stock)
}

func TestReverseSale_RestauraStockConDevolucionDeCliente(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddCustomer("cli-1", "Cliente Uno")
	f.AddProduct("prod-a", "SKU-A", 20, dec("6.00"), dec("10.00"), 0)

	orderSvc := orders.NewService(f.Tx, f.Orders, f.Products, f.Customers, f.Warehouses, f.Sales, notify.NopNotifier{}, testLogger(), dec("0.19"))
	order, err := orderSvc.CreateOrder(context.Background(), orders.CreateOrderInput{
		Number: "P-1", CustomerID: "cli-1", WarehouseID: "bod-1",
		Kind: entity.OrderKindDirect, UserID: "vendedor-1",
		Lines: []orders.LineInput{{ProductID: "prod-a", Quantity: 5}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.SaleID)
	require.Equal(t, int64(15), f.Store.Products["prod-a"].Stock)

	svc := reversal.NewService(f.Tx, notify.NopNotifier{}, testLogger())
	entries, err := svc.ReverseDocument(context.Background(), reversal.DocSale, *order.SaleID, "supervisor-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, entity.MovementDevCliente, entries[0].MovementType)
	assert.True(t, entries[0].UnitPrice.Equal(dec("10.00")), "devolución al precio de venta original")
	assert.Equal(t, int64(20), f.Store.Products["prod-a"].Stock, "el stock vuelve al nivel previo a la venta")

	sale, err := f.Sales.GetByID(*order.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusVoided, sale.Status)
}

func TestReverseDocument_TipoDesconocido(t *testing.T) {
	f := kardextest.New()
	svc := reversal.NewService(f.Tx, notify.NopNotifier{}, testLogger())

	_, err := svc.ReverseDocument(context.Background(), "OTRO", "id", "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ReverseDocument(context.Background(), reversal.DocSale, "no-existe", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
