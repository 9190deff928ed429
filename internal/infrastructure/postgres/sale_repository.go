package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-erp/internal/domain"
	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, number, customer_id, order_id, warehouse_id, subtotal, tax, total, status, created_by, date, created_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con todas sus líneas.
func (r *SaleRepo) Create(sale *entity.Sale, lines []*entity.SaleLine) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Number, sale.CustomerID, sale.OrderID, sale.WarehouseID,
		sale.Subtotal, sale.Tax, sale.Total, sale.Status, sale.CreatedBy, sale.Date, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	lineQuery := `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.SaleID = sale.ID
		if _, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal,
		); err != nil {
			return fmt.Errorf("create sale line: %w", err)
		}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.Number, &s.CustomerID, &s.OrderID, &s.WarehouseID,
		&s.Subtotal, &s.Tax, &s.Total, &s.Status, &s.CreatedBy, &s.Date, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene la venta y bloquea la fila (SELECT FOR UPDATE).
// Dos anulaciones concurrentes de la misma venta se serializan aquí.
func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// GetLines obtiene las líneas de una venta.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update persiste el cambio de estado de la venta (anulación).
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `UPDATE sales SET status = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, sale.ID, sale.Status)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas, primero las más recientes.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.Number, &s.CustomerID, &s.OrderID, &s.WarehouseID,
			&s.Subtotal, &s.Tax, &s.Total, &s.Status, &s.CreatedBy, &s.Date, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
