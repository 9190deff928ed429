package kardex_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/application/kardex/kardextest"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

// captureNotifier acumula los eventos publicados para inspección.
type captureNotifier struct {
	events []notify.Event
}

func (n *captureNotifier) Publish(_ context.Context, ev notify.Event) error {
	n.events = append(n.events, ev)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func newService(f *kardextest.Fixture, n notify.Notifier) *kardex.Service {
	return kardex.NewService(f.Tx, f.Kardex, f.Products, f.MovementTypes, f.Warehouses, n, testLogger())
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRegisterMovement_CompraActualizaStockYCostoPromedio(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementCompra,
		Quantity:        5,
		UnitPrice:       dec("8.00"),
		SourceDocType:   entity.DocTypePurchase,
		SourceDocNumber: "FC-001",
		UserID:          "user-1",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, entity.EntryStatusApproved, entry.Status)
	assert.Equal(t, int64(10), entry.StockBefore)
	assert.Equal(t, int64(15), entry.StockAfter)
	assert.True(t, entry.TotalCost.Equal(dec("40.00")), "total = 5 * 8.00")

	p := f.Store.Products["prod-1"]
	assert.Equal(t, int64(15), p.Stock)
	// (10*5.00 + 5*8.00) / 15 = 6.00
	assert.True(t, p.AverageCost.Equal(dec("6")), "costo promedio esperado 6, fue %s", p.AverageCost)
	assert.True(t, p.LastPurchasePrice.Equal(dec("8.00")))
}

func TestRegisterMovement_SalidaSinPrecioSeValoraAlCostoPromedio(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 20, dec("6.50"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementVenta,
		Quantity:        4,
		SourceDocType:   entity.DocTypeSale,
		SourceDocNumber: "V-100",
		UserID:          "user-1",
	})
	require.NoError(t, err)

	assert.True(t, entry.UnitPrice.Equal(dec("6.50")), "salida valorada al costo promedio")
	assert.True(t, entry.TotalCost.Equal(dec("26.00")))
	assert.Equal(t, int64(16), f.Store.Products["prod-1"].Stock)
	// El costo promedio no cambia en salidas.
	assert.True(t, f.Store.Products["prod-1"].AverageCost.Equal(dec("6.50")))
}

func TestRegisterMovement_StockInsuficienteNoDejaEfecto(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 3, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	_, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementVenta,
		Quantity:        5,
		SourceDocType:   entity.DocTypeSale,
		SourceDocNumber: "V-100",
		UserID:          "user-1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), f.Store.Products["prod-1"].Stock, "el stock no debe cambiar")
	assert.Empty(t, f.Store.Entries, "no debe quedar asiento alguno")
}

func TestRegisterMovement_DocumentoObligatorio(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	_, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementCompra,
		Quantity:     5,
		UnitPrice:    dec("8.00"),
		UserID:       "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoInactivo(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	p := f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	p.Active = false
	svc := newService(f, notify.NopNotifier{})

	_, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementVenta,
		Quantity:        1,
		SourceDocType:   entity.DocTypeSale,
		SourceDocNumber: "V-1",
		UserID:          "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrProductInactive)
}

func TestRegisterMovement_AjusteQuedaPendienteSinTocarStock(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     4,
		UserID:       "user-1",
		Notes:        "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.EntryStatusPending, entry.Status)
	assert.Nil(t, entry.AuthorizedBy)
	assert.Equal(t, int64(10), f.Store.Products["prod-1"].Stock, "un asiento PENDING no toca stock")
}

func TestApproveEntry_AplicaLaMutacionDiferida(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     4,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	approved, err := svc.ApproveEntry(context.Background(), entry.ID, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, entity.EntryStatusApproved, approved.Status)
	require.NotNil(t, approved.AuthorizedBy)
	assert.Equal(t, "supervisor-1", *approved.AuthorizedBy)
	assert.NotNil(t, approved.AuthorizedAt)
	assert.Equal(t, int64(10), approved.StockBefore)
	assert.Equal(t, int64(6), approved.StockAfter)
	assert.Equal(t, int64(6), f.Store.Products["prod-1"].Stock)
}

func TestApproveEntry_EstampaLaFechaDelMovimientoAlAprobar(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	entry, err := svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     2,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	// Una venta se interpone entre la creación del ajuste y su aprobación.
	_, err = svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementVenta,
		Quantity: 5, SourceDocType: entity.DocTypeSale, SourceDocNumber: "V-1", UserID: "u",
	})
	require.NoError(t, err)

	approved, err := svc.ApproveEntry(ctx, entry.ID, "supervisor-1")
	require.NoError(t, err)

	// La fecha del asiento es la de la aprobación (cuando el stock mutó),
	// no la de la solicitud.
	require.NotNil(t, approved.AuthorizedAt)
	assert.True(t, approved.Date.Equal(*approved.AuthorizedAt))

	result, err := svc.QueryLedger(ctx, "prod-1", nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	// La venta va primero y la cadena antes/después queda contigua.
	assert.Equal(t, entity.MovementVenta, result.Entries[0].MovementType)
	assert.Equal(t, entity.MovementAjusteNeg, result.Entries[1].MovementType)
	assert.Equal(t, result.Entries[0].StockAfter, result.Entries[1].StockBefore)

	// El cierre del kardex coincide con el stock vivo.
	assert.Equal(t, int64(3), result.Summary.ClosingStock)
	assert.Equal(t, f.Store.Products["prod-1"].Stock, result.Summary.ClosingStock)
}

func TestApproveEntry_TipoDesactivadoNoSeAprueba(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     4,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	// El tipo se desactiva en el catálogo antes de la aprobación.
	f.Store.MovementTypes[entity.MovementAjusteNeg].Active = false

	_, err = svc.ApproveEntry(context.Background(), entry.ID, "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := f.Kardex.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusPending, stored.Status)
	assert.Equal(t, int64(10), f.Store.Products["prod-1"].Stock)
}

func TestApproveEntry_DobleAprobacionRespondeConflicto(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     4,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	_, err = svc.ApproveEntry(context.Background(), entry.ID, "supervisor-1")
	require.NoError(t, err)

	_, err = svc.ApproveEntry(context.Background(), entry.ID, "supervisor-2")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(6), f.Store.Products["prod-1"].Stock, "la segunda aprobación no debe mutar stock")
}

func TestApproveEntry_RevalidaContraElStockVivo(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjusteNeg,
		Quantity:     8,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	// El saldo baja a 5 entre la creación del asiento y su aprobación.
	_, err = svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementVenta,
		Quantity:        5,
		SourceDocType:   entity.DocTypeSale,
		SourceDocNumber: "V-1",
		UserID:          "user-1",
	})
	require.NoError(t, err)

	_, err = svc.ApproveEntry(context.Background(), entry.ID, "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := f.Kardex.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusPending, stored.Status, "el asiento sigue PENDING tras el fallo")
	assert.Equal(t, int64(5), f.Store.Products["prod-1"].Stock)
}

func TestRejectEntry_NuncaTocaStock(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})

	entry, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:    "prod-1",
		WarehouseID:  "bod-1",
		MovementType: entity.MovementAjustePos,
		Quantity:     100,
		UserID:       "user-1",
	})
	require.NoError(t, err)

	rejected, err := svc.RejectEntry(context.Background(), entry.ID, "supervisor-1", "cantidad improbable")
	require.NoError(t, err)

	assert.Equal(t, entity.EntryStatusRejected, rejected.Status)
	assert.Contains(t, rejected.Notes, "cantidad improbable")
	assert.Equal(t, int64(10), f.Store.Products["prod-1"].Stock)

	// Rechazar de nuevo responde conflicto.
	_, err = svc.RejectEntry(context.Background(), entry.ID, "supervisor-1", "otra vez")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterMovement_EmiteLowStockTrasElCommit(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 10, dec("5.00"), dec("12.00"), 8)
	capture := &captureNotifier{}
	svc := newService(f, capture)

	_, err := svc.RegisterMovement(context.Background(), kardex.RegisterMovementInput{
		ProductID:       "prod-1",
		WarehouseID:     "bod-1",
		MovementType:    entity.MovementVenta,
		Quantity:        3,
		SourceDocType:   entity.DocTypeSale,
		SourceDocNumber: "V-1",
		UserID:          "user-1",
	})
	require.NoError(t, err)

	require.Len(t, capture.events, 1)
	assert.Equal(t, notify.EventLowStock, capture.events[0].Type)
	assert.Equal(t, int64(7), capture.events[0].Payload["new_stock"])
}

func TestQueryLedger_ResumenYOrdenCronologico(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 0, dec("0"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	_, err := svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementCompra,
		Quantity: 10, UnitPrice: dec("5.00"),
		SourceDocType: entity.DocTypePurchase, SourceDocNumber: "FC-1", UserID: "u",
	})
	require.NoError(t, err)
	_, err = svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementVenta,
		Quantity: 4, SourceDocType: entity.DocTypeSale, SourceDocNumber: "V-1", UserID: "u",
	})
	require.NoError(t, err)

	// Un asiento pendiente no debe aparecer ni sumar en el resumen.
	_, err = svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementAjusteNeg,
		Quantity: 1, UserID: "u",
	})
	require.NoError(t, err)

	result, err := svc.QueryLedger(ctx, "prod-1", nil, nil, 50, 0)
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, entity.MovementCompra, result.Entries[0].MovementType)
	assert.Equal(t, entity.MovementVenta, result.Entries[1].MovementType)

	assert.Equal(t, int64(10), result.Summary.TotalIn)
	assert.Equal(t, int64(4), result.Summary.TotalOut)
	assert.True(t, result.Summary.ValuedIn.Equal(dec("50.00")))
	assert.True(t, result.Summary.ValuedOut.Equal(dec("20.00")), "salida valorada al costo promedio 5.00")
	assert.Equal(t, int64(0), result.Summary.OpeningStock)
	assert.Equal(t, int64(6), result.Summary.ClosingStock)
}

func TestQueryLedger_PaginaSoloSobreAprobados(t *testing.T) {
	f := kardextest.New()
	f.AddWarehouse("bod-1", "Principal")
	f.AddProduct("prod-1", "SKU-1", 0, dec("0"), dec("12.00"), 0)
	svc := newService(f, notify.NopNotifier{})
	ctx := context.Background()

	_, err := svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementCompra,
		Quantity: 10, UnitPrice: dec("5.00"),
		SourceDocType: entity.DocTypePurchase, SourceDocNumber: "FC-1", UserID: "u",
	})
	require.NoError(t, err)

	// Un pendiente en medio de la secuencia no debe consumir cupo de página.
	_, err = svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
		ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementAjusteNeg,
		Quantity: 1, UserID: "u",
	})
	require.NoError(t, err)

	for _, doc := range []string{"V-1", "V-2"} {
		_, err = svc.RegisterMovement(ctx, kardex.RegisterMovementInput{
			ProductID: "prod-1", WarehouseID: "bod-1", MovementType: entity.MovementVenta,
			Quantity: 2, SourceDocType: entity.DocTypeSale, SourceDocNumber: doc, UserID: "u",
		})
		require.NoError(t, err)
	}

	page1, err := svc.QueryLedger(ctx, "prod-1", nil, nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1.Entries, 2, "la página debe venir completa de aprobados")
	assert.Equal(t, entity.MovementCompra, page1.Entries[0].MovementType)
	assert.Equal(t, entity.MovementVenta, page1.Entries[1].MovementType)

	page2, err := svc.QueryLedger(ctx, "prod-1", nil, nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2.Entries, 1)
	assert.Equal(t, entity.MovementVenta, page2.Entries[0].MovementType)
	// Las páginas son contiguas sobre el kardex efectivo.
	assert.Equal(t, page1.Entries[1].StockAfter, page2.Entries[0].StockBefore)
}

func TestQueryLedger_ProductoInexistente(t *testing.T) {
	f := kardextest.New()
	svc := newService(f, notify.NopNotifier{})

	_, err := svc.QueryLedger(context.Background(), "no-existe", nil, nil, 50, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
