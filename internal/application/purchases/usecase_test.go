package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex/kardextest"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/application/purchases"
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

func newService(f *kardextest.Fixture, n notify.Notifier) *purchases.Service {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return purchases.NewService(f.Tx, f.Purchases, f.Suppliers, f.Warehouses, n, log)
}

func seedBase(f *kardextest.Fixture) {
	f.AddWarehouse("bod-1", "Principal")
	f.AddSupplier("prov-1", "Proveedor Uno")
	f.AddProduct("prod-a", "SKU-A", 10, dec("5.00"), dec("12.00"), 0)
	f.AddProduct("prod-b", "SKU-B", 0, dec("0"), dec("9.00"), 0)
}

func TestRegisterPurchase_ActualizaStockCostoYDocumento(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	capture := &captureNotifier{}
	svc := newService(f, capture)

	purchase, err := svc.RegisterPurchase(context.Background(), purchases.RegisterPurchaseInput{
		Number:      "FC-100",
		SupplierID:  "prov-1",
		WarehouseID: "bod-1",
		UserID:      "bodeguero-1",
		Lines: []purchases.LineInput{
			{ProductID: "prod-a", Quantity: 5, UnitPrice: dec("8.00")},
			{ProductID: "prod-b", Quantity: 20, UnitPrice: dec("3.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusActive, purchase.Status)
	assert.True(t, purchase.Subtotal.Equal(dec("100.00")), "5*8 + 20*3")
	assert.True(t, purchase.Total.Equal(dec("100.00")))

	a := f.Store.Products["prod-a"]
	assert.Equal(t, int64(15), a.Stock)
	assert.True(t, a.AverageCost.Equal(dec("6")), "(10*5 + 5*8)/15")
	assert.True(t, a.LastPurchasePrice.Equal(dec("8.00")))

	b := f.Store.Products["prod-b"]
	assert.Equal(t, int64(20), b.Stock)
	assert.True(t, b.AverageCost.Equal(dec("3.00")), "primer ingreso fija el costo")

	entries, err := f.Kardex.ListByDocument(entity.DocTypePurchase, "FC-100")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, entity.MovementCompra, e.MovementType)
		assert.Equal(t, entity.EntryStatusApproved, e.Status)
	}

	lines, err := f.Purchases.GetLines(purchase.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	last := capture.events[len(capture.events)-1]
	assert.Equal(t, notify.EventPurchaseRegistered, last.Type)
	assert.Equal(t, "FC-100", last.Payload["number"])
}

func TestRegisterPurchase_Validaciones(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	_, err := svc.RegisterPurchase(ctx, purchases.RegisterPurchaseInput{
		Number: "FC-1", SupplierID: "prov-1", WarehouseID: "bod-1", UserID: "u",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = svc.RegisterPurchase(ctx, purchases.RegisterPurchaseInput{
		Number: "FC-1", SupplierID: "no-existe", WarehouseID: "bod-1", UserID: "u",
		Lines: []purchases.LineInput{{ProductID: "prod-a", Quantity: 1, UnitPrice: dec("1.00")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inexistente")

	_, err = svc.RegisterPurchase(ctx, purchases.RegisterPurchaseInput{
		Number: "FC-1", SupplierID: "prov-1", WarehouseID: "bod-1", UserID: "u",
		Lines: []purchases.LineInput{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una compra exige precio unitario positivo")
}

func TestRegisterPurchase_FalloEnUnaLineaRevierteTodo(t *testing.T) {
	f := kardextest.New()
	seedBase(f)
	svc := newService(f, notify.NopNotifier{})

	_, err := svc.RegisterPurchase(context.Background(), purchases.RegisterPurchaseInput{
		Number: "FC-200", SupplierID: "prov-1", WarehouseID: "bod-1", UserID: "u",
		Lines: []purchases.LineInput{
			{ProductID: "prod-a", Quantity: 5, UnitPrice: dec("8.00")},
			{ProductID: "no-existe", Quantity: 1, UnitPrice: dec("1.00")},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// La línea válida también se revirtió.
	assert.Equal(t, int64(10), f.Store.Products["prod-a"].Stock)
	assert.True(t, f.Store.Products["prod-a"].AverageCost.Equal(dec("5.00")))
	assert.Empty(t, f.Store.Entries)
	assert.Empty(t, f.Store.Purchases)
}

func TestGetPurchase_NoEncontrada(t *testing.T) {
	f := kardextest.New()
	svc := newService(f, notify.NopNotifier{})

	_, _, err := svc.GetPurchase(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
