package kardextest

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// ProductRepo repo en memoria de productos.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.Products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.Products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// GetByIDForUpdate en memoria no bloquea nada; los tests son secuenciales.
func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	stored, ok := r.s.Products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	dup := *p
	dup.Stock = stored.Stock
	dup.AverageCost = stored.AverageCost
	dup.LastPurchasePrice = stored.LastPurchasePrice
	r.s.Products[p.ID] = &dup
	return nil
}

func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	p, ok := r.s.Products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *ProductRepo) UpdateStockAndCost(productID string, stock int64, averageCost, lastPurchasePrice decimal.Decimal) error {
	p, ok := r.s.Products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.AverageCost = averageCost
	p.LastPurchasePrice = lastPurchasePrice
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.Products))
	for _, p := range r.s.Products {
		out = append(out, cloneProduct(p))
	}
	return paginate(out, limit, offset), nil
}

func (r *ProductRepo) ListBelowReorder() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.Active && p.Stock <= p.ReorderPoint {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

// KardexRepo repo en memoria de asientos.
type KardexRepo struct{ s *Store }

func (r *KardexRepo) Create(e *entity.KardexEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	r.s.Entries = append(r.s.Entries, cloneEntry(e))
	return nil
}

func (r *KardexRepo) GetByID(id string) (*entity.KardexEntry, error) {
	for _, e := range r.s.Entries {
		if e.ID == id {
			return cloneEntry(e), nil
		}
	}
	return nil, nil
}

func (r *KardexRepo) GetByIDForUpdate(id string) (*entity.KardexEntry, error) {
	return r.GetByID(id)
}

func (r *KardexRepo) Update(e *entity.KardexEntry) error {
	for i, stored := range r.s.Entries {
		if stored.ID == e.ID {
			r.s.Entries[i] = cloneEntry(e)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *KardexRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	for _, e := range r.s.Entries {
		if e.ProductID != productID || e.Status != entity.EntryStatusApproved {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, limit, offset), nil
}

func (r *KardexRepo) ListByDocument(docType, docNumber string) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	for _, e := range r.s.Entries {
		if e.SourceDocType == docType && e.SourceDocNumber == docNumber {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

func (r *KardexRepo) ListPending(limit, offset int) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	for _, e := range r.s.Entries {
		if e.Status == entity.EntryStatusPending {
			out = append(out, cloneEntry(e))
		}
	}
	return paginate(out, limit, offset), nil
}

// MovementTypeRepo catálogo en memoria.
type MovementTypeRepo struct{ s *Store }

func (r *MovementTypeRepo) GetByCode(code string) (*entity.MovementType, error) {
	mt, ok := r.s.MovementTypes[code]
	if !ok {
		return nil, nil
	}
	dup := *mt
	return &dup, nil
}

func (r *MovementTypeRepo) List() ([]*entity.MovementType, error) {
	out := make([]*entity.MovementType, 0, len(r.s.MovementTypes))
	for _, mt := range r.s.MovementTypes {
		dup := *mt
		out = append(out, &dup)
	}
	return out, nil
}

// OrderRepo repo en memoria de pedidos.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(order *entity.Order, lines []*entity.OrderLine) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, ok := r.s.Orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Orders[order.ID] = cloneOrder(order)
	dup := make([]*entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		dl := *l
		dl.OrderID = order.ID
		dup = append(dup, &dl)
	}
	r.s.OrderLines[order.ID] = dup
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *OrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	lines := r.s.OrderLines[orderID]
	out := make([]*entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		dl := *l
		out = append(out, &dl)
	}
	return out, nil
}

func (r *OrderRepo) Update(order *entity.Order) error {
	if _, ok := r.s.Orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) ListByStatus(status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.Orders {
		if o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	return paginate(out, limit, offset), nil
}

// SaleRepo repo en memoria de ventas.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(sale *entity.Sale, lines []*entity.SaleLine) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if _, ok := r.s.Sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.Sales[sale.ID] = cloneSale(sale)
	dup := make([]*entity.SaleLine, 0, len(lines))
	for _, l := range lines {
		dl := *l
		dl.SaleID = sale.ID
		dup = append(dup, &dl)
	}
	r.s.SaleLines[sale.ID] = dup
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	v, ok := r.s.Sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(v), nil
}

func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	lines := r.s.SaleLines[saleID]
	out := make([]*entity.SaleLine, 0, len(lines))
	for _, l := range lines {
		dl := *l
		out = append(out, &dl)
	}
	return out, nil
}

func (r *SaleRepo) Update(sale *entity.Sale) error {
	if _, ok := r.s.Sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	out := make([]*entity.Sale, 0, len(r.s.Sales))
	for _, v := range r.s.Sales {
		out = append(out, cloneSale(v))
	}
	return paginate(out, limit, offset), nil
}

// PurchaseRepo repo en memoria de compras.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) Create(purchase *entity.Purchase, lines []*entity.PurchaseLine) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if _, ok := r.s.Purchases[purchase.ID]; ok {
		return domain.ErrDuplicate
	}
	dup := *purchase
	r.s.Purchases[purchase.ID] = &dup
	dl := make([]*entity.PurchaseLine, 0, len(lines))
	for _, l := range lines {
		cp := *l
		cp.PurchaseID = purchase.ID
		dl = append(dl, &cp)
	}
	r.s.PurchaseLines[purchase.ID] = dl
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.s.Purchases[id]
	if !ok {
		return nil, nil
	}
	dup := *p
	return &dup, nil
}

func (r *PurchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	lines := r.s.PurchaseLines[purchaseID]
	out := make([]*entity.PurchaseLine, 0, len(lines))
	for _, l := range lines {
		dl := *l
		out = append(out, &dl)
	}
	return out, nil
}

func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	if _, ok := r.s.Purchases[purchase.ID]; !ok {
		return domain.ErrNotFound
	}
	dup := *purchase
	r.s.Purchases[purchase.ID] = &dup
	return nil
}

func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	out := make([]*entity.Purchase, 0, len(r.s.Purchases))
	for _, p := range r.s.Purchases {
		dup := *p
		out = append(out, &dup)
	}
	return paginate(out, limit, offset), nil
}

// CustomerRepo repo en memoria de clientes.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	dup := *c
	r.s.Customers[c.ID] = &dup
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.s.Customers[id]
	if !ok {
		return nil, nil
	}
	dup := *c
	return &dup, nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(r.s.Customers))
	for _, c := range r.s.Customers {
		dup := *c
		out = append(out, &dup)
	}
	return paginate(out, limit, offset), nil
}

// SupplierRepo repo en memoria de proveedores.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(sup *entity.Supplier) error {
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	dup := *sup
	r.s.Suppliers[sup.ID] = &dup
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sup, ok := r.s.Suppliers[id]
	if !ok {
		return nil, nil
	}
	dup := *sup
	return &dup, nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.s.Suppliers))
	for _, sup := range r.s.Suppliers {
		dup := *sup
		out = append(out, &dup)
	}
	return paginate(out, limit, offset), nil
}

// WarehouseRepo repo en memoria de bodegas.
type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(w *entity.Warehouse) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	dup := *w
	r.s.Warehouses[w.ID] = &dup
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.s.Warehouses[id]
	if !ok {
		return nil, nil
	}
	dup := *w
	return &dup, nil
}

func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0, len(r.s.Warehouses))
	for _, w := range r.s.Warehouses {
		dup := *w
		out = append(out, &dup)
	}
	return paginate(out, limit, offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
