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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, number, supplier_id, warehouse_id, subtotal, total, status, created_by, date, created_at`

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la compra con todas sus líneas.
func (r *PurchaseRepo) Create(purchase *entity.Purchase, lines []*entity.PurchaseLine) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Number, purchase.SupplierID, purchase.WarehouseID,
		purchase.Subtotal, purchase.Total, purchase.Status, purchase.CreatedBy,
		purchase.Date, purchase.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.PurchaseID = purchase.ID
		if _, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.PurchaseID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal,
		); err != nil {
			return fmt.Errorf("create purchase line: %w", err)
		}
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.Number, &p.SupplierID, &p.WarehouseID,
		&p.Subtotal, &p.Total, &p.Status, &p.CreatedBy, &p.Date, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	return &p, nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	return scanPurchase(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene la compra y bloquea la fila (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	return scanPurchase(r.q.QueryRow(context.Background(), query, id))
}

// GetLines obtiene las líneas de una compra.
func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update persiste el cambio de estado de la compra (anulación).
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `UPDATE purchases SET status = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, purchase.ID, purchase.Status)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// List lista compras, primero las más recientes.
func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(
			&p.ID, &p.Number, &p.SupplierID, &p.WarehouseID,
			&p.Subtotal, &p.Total, &p.Status, &p.CreatedBy, &p.Date, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
