package kardextest

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// Fixture agrupa el estado en memoria, los repos y un TxRunner con rollback
// por snapshot. Un fixture por test; no es seguro para uso concurrente.
type Fixture struct {
	Store *Store

	Products      *ProductRepo
	Kardex        *KardexRepo
	MovementTypes *MovementTypeRepo
	Orders        *OrderRepo
	Sales         *SaleRepo
	Purchases     *PurchaseRepo
	Customers     *CustomerRepo
	Suppliers     *SupplierRepo
	Warehouses    *WarehouseRepo

	Tx *TxRunner
}

// New crea un fixture con el catálogo de movimientos sembrado.
func New() *Fixture {
	s := NewStore()
	f := &Fixture{
		Store:         s,
		Products:      &ProductRepo{s: s},
		Kardex:        &KardexRepo{s: s},
		MovementTypes: &MovementTypeRepo{s: s},
		Orders:        &OrderRepo{s: s},
		Sales:         &SaleRepo{s: s},
		Purchases:     &PurchaseRepo{s: s},
		Customers:     &CustomerRepo{s: s},
		Suppliers:     &SupplierRepo{s: s},
		Warehouses:    &WarehouseRepo{s: s},
	}
	f.Tx = &TxRunner{f: f}
	return f
}

// TxRunner implementa kardex.TxRunner sobre el estado en memoria: toma un
// snapshot antes de ejecutar fn y lo restaura si fn falla, reproduciendo la
// semántica todo-o-nada de una transacción real.
type TxRunner struct {
	f *Fixture
}

func (r *TxRunner) Run(ctx context.Context, fn func(tx *kardex.TxRepos) error) error {
	snapshot := r.f.Store.Clone()
	repos := &kardex.TxRepos{
		Kardex:        r.f.Kardex,
		Products:      r.f.Products,
		MovementTypes: r.f.MovementTypes,
		Orders:        r.f.Orders,
		Sales:         r.f.Sales,
		Purchases:     r.f.Purchases,
	}
	if err := fn(repos); err != nil {
		r.f.Store.Restore(snapshot)
		return err
	}
	return nil
}

// AddProduct siembra un producto activo con el saldo y costo indicados.
func (f *Fixture) AddProduct(id, sku string, stock int64, avgCost, price decimal.Decimal, reorderPoint int64) *entity.Product {
	p := &entity.Product{
		ID:           id,
		SKU:          sku,
		Name:         "Producto " + sku,
		Price:        price,
		AverageCost:  avgCost,
		Stock:        stock,
		ReorderPoint: reorderPoint,
		Active:       true,
	}
	f.Store.Products[id] = p
	return p
}

// AddWarehouse siembra una bodega.
func (f *Fixture) AddWarehouse(id, name string) *entity.Warehouse {
	w := &entity.Warehouse{ID: id, Name: name}
	f.Store.Warehouses[id] = w
	return w
}

// AddCustomer siembra un cliente.
func (f *Fixture) AddCustomer(id, name string) *entity.Customer {
	c := &entity.Customer{ID: id, Name: name}
	f.Store.Customers[id] = c
	return c
}

// AddSupplier siembra un proveedor.
func (f *Fixture) AddSupplier(id, name string) *entity.Supplier {
	s := &entity.Supplier{ID: id, Name: name}
	f.Store.Suppliers[id] = s
	return s
}

// SetMovementFlags modifica los flags de un tipo de movimiento sembrado
// (útil para probar los caminos de autorización y documento obligatorio).
func (f *Fixture) SetMovementFlags(code string, requiresDoc, requiresAuth, active bool) {
	mt := f.Store.MovementTypes[code]
	mt.RequiresDocument = requiresDoc
	mt.RequiresAuthorization = requiresAuth
	mt.Active = active
}
