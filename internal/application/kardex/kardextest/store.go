// Package kardextest provee repos en memoria y un TxRunner con rollback por
// snapshot para probar los casos de uso sin base de datos. El catálogo de
// tipos de movimiento viene sembrado con los mismos flags del seed real.
package kardextest

import (
	"time"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// Store es el estado en memoria compartido por todos los repos del fixture.
type Store struct {
	Products      map[string]*entity.Product
	MovementTypes map[string]*entity.MovementType
	Entries       []*entity.KardexEntry
	Orders        map[string]*entity.Order
	OrderLines    map[string][]*entity.OrderLine
	Sales         map[string]*entity.Sale
	SaleLines     map[string][]*entity.SaleLine
	Purchases     map[string]*entity.Purchase
	PurchaseLines map[string][]*entity.PurchaseLine
	Customers     map[string]*entity.Customer
	Suppliers     map[string]*entity.Supplier
	Warehouses    map[string]*entity.Warehouse
}

// NewStore crea un estado vacío con el catálogo de movimientos sembrado.
func NewStore() *Store {
	s := &Store{
		Products:      make(map[string]*entity.Product),
		MovementTypes: make(map[string]*entity.MovementType),
		Orders:        make(map[string]*entity.Order),
		OrderLines:    make(map[string][]*entity.OrderLine),
		Sales:         make(map[string]*entity.Sale),
		SaleLines:     make(map[string][]*entity.SaleLine),
		Purchases:     make(map[string]*entity.Purchase),
		PurchaseLines: make(map[string][]*entity.PurchaseLine),
		Customers:     make(map[string]*entity.Customer),
		Suppliers:     make(map[string]*entity.Supplier),
		Warehouses:    make(map[string]*entity.Warehouse),
	}
	s.seedMovementTypes()
	return s
}

// seedMovementTypes siembra el catálogo con los flags del seed de producción:
// los ajustes y la merma exigen autorización; compras, ventas, devoluciones y
// traslados exigen documento fuente.
func (s *Store) seedMovementTypes() {
	seed := []entity.MovementType{
		{Code: entity.MovementCompra, Name: "Entrada por compra", Direction: entity.DirectionIn, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementDevCliente, Name: "Devolución de cliente", Direction: entity.DirectionIn, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementAjustePos, Name: "Ajuste positivo", Direction: entity.DirectionIn, AffectsStock: true, RequiresAuthorization: true, Active: true},
		{Code: entity.MovementTrasladoIn, Name: "Entrada por traslado", Direction: entity.DirectionIn, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementVenta, Name: "Salida por venta", Direction: entity.DirectionOut, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementDevProv, Name: "Devolución a proveedor", Direction: entity.DirectionOut, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementAjusteNeg, Name: "Ajuste negativo", Direction: entity.DirectionOut, AffectsStock: true, RequiresAuthorization: true, Active: true},
		{Code: entity.MovementTrasladoOut, Name: "Salida por traslado", Direction: entity.DirectionOut, AffectsStock: true, RequiresDocument: true, Active: true},
		{Code: entity.MovementMerma, Name: "Merma o pérdida", Direction: entity.DirectionOut, AffectsStock: true, RequiresAuthorization: true, Active: true},
	}
	for i := range seed {
		mt := seed[i]
		s.MovementTypes[mt.Code] = &mt
	}
}

// Clone copia profunda del estado, usada como snapshot para simular rollback.
func (s *Store) Clone() *Store {
	c := &Store{
		Products:      make(map[string]*entity.Product, len(s.Products)),
		MovementTypes: make(map[string]*entity.MovementType, len(s.MovementTypes)),
		Entries:       make([]*entity.KardexEntry, 0, len(s.Entries)),
		Orders:        make(map[string]*entity.Order, len(s.Orders)),
		OrderLines:    make(map[string][]*entity.OrderLine, len(s.OrderLines)),
		Sales:         make(map[string]*entity.Sale, len(s.Sales)),
		SaleLines:     make(map[string][]*entity.SaleLine, len(s.SaleLines)),
		Purchases:     make(map[string]*entity.Purchase, len(s.Purchases)),
		PurchaseLines: make(map[string][]*entity.PurchaseLine, len(s.PurchaseLines)),
		Customers:     make(map[string]*entity.Customer, len(s.Customers)),
		Suppliers:     make(map[string]*entity.Supplier, len(s.Suppliers)),
		Warehouses:    make(map[string]*entity.Warehouse, len(s.Warehouses)),
	}
	for id, p := range s.Products {
		c.Products[id] = cloneProduct(p)
	}
	for code, mt := range s.MovementTypes {
		dup := *mt
		c.MovementTypes[code] = &dup
	}
	for _, e := range s.Entries {
		c.Entries = append(c.Entries, cloneEntry(e))
	}
	for id, o := range s.Orders {
		c.Orders[id] = cloneOrder(o)
	}
	for id, lines := range s.OrderLines {
		dup := make([]*entity.OrderLine, 0, len(lines))
		for _, l := range lines {
			dl := *l
			dup = append(dup, &dl)
		}
		c.OrderLines[id] = dup
	}
	for id, v := range s.Sales {
		c.Sales[id] = cloneSale(v)
	}
	for id, lines := range s.SaleLines {
		dup := make([]*entity.SaleLine, 0, len(lines))
		for _, l := range lines {
			dl := *l
			dup = append(dup, &dl)
		}
		c.SaleLines[id] = dup
	}
	for id, p := range s.Purchases {
		dup := *p
		c.Purchases[id] = &dup
	}
	for id, lines := range s.PurchaseLines {
		dup := make([]*entity.PurchaseLine, 0, len(lines))
		for _, l := range lines {
			dl := *l
			dup = append(dup, &dl)
		}
		c.PurchaseLines[id] = dup
	}
	for id, cu := range s.Customers {
		dup := *cu
		c.Customers[id] = &dup
	}
	for id, su := range s.Suppliers {
		dup := *su
		c.Suppliers[id] = &dup
	}
	for id, w := range s.Warehouses {
		dup := *w
		c.Warehouses[id] = &dup
	}
	return c
}

// Restore reemplaza el contenido del estado con el del snapshot.
func (s *Store) Restore(snapshot *Store) {
	*s = *snapshot
}

func cloneProduct(p *entity.Product) *entity.Product {
	dup := *p
	return &dup
}

func cloneEntry(e *entity.KardexEntry) *entity.KardexEntry {
	dup := *e
	dup.AuthorizedBy = cloneStrPtr(e.AuthorizedBy)
	dup.AuthorizedAt = cloneTimePtr(e.AuthorizedAt)
	return &dup
}

func cloneOrder(o *entity.Order) *entity.Order {
	dup := *o
	dup.ApprovedBy = cloneStrPtr(o.ApprovedBy)
	dup.ApprovedAt = cloneTimePtr(o.ApprovedAt)
	dup.SaleID = cloneStrPtr(o.SaleID)
	return &dup
}

func cloneSale(v *entity.Sale) *entity.Sale {
	dup := *v
	dup.OrderID = cloneStrPtr(v.OrderID)
	return &dup
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
