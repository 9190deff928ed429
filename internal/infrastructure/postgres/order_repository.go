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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, number, customer_id, warehouse_id, requested_by, kind, status,
	subtotal, discount, tax, total, approved_by, approved_at, sale_id, reject_reason, created_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido con todas sus líneas.
func (r *OrderRepo) Create(order *entity.Order, lines []*entity.OrderLine) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Number, order.CustomerID, order.WarehouseID, order.RequestedBy,
		order.Kind, order.Status, order.Subtotal, order.Discount, order.Tax, order.Total,
		order.ApprovedBy, order.ApprovedAt, order.SaleID, order.RejectReason, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}
	lineQuery := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.OrderID = order.ID
		if _, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal,
		); err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.WarehouseID, &o.RequestedBy, &o.Kind, &o.Status,
		&o.Subtotal, &o.Discount, &o.Tax, &o.Total, &o.ApprovedBy, &o.ApprovedAt,
		&o.SaleID, &o.RejectReason, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE).
// Serializa aprobar/rechazar/cancelar concurrentes sobre el mismo pedido.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.q.QueryRow(context.Background(), query, id))
}

// GetLines obtiene las líneas de un pedido.
func (r *OrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount, subtotal
		FROM order_lines WHERE order_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update persiste la transición de estado del pedido.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, approved_by = $3, approved_at = $4, sale_id = $5, reject_reason = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.ApprovedBy, order.ApprovedAt, order.SaleID, order.RejectReason,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListByStatus lista pedidos por estado, primero los más antiguos.
func (r *OrderRepo) ListByStatus(status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.Number, &o.CustomerID, &o.WarehouseID, &o.RequestedBy, &o.Kind, &o.Status,
			&o.Subtotal, &o.Discount, &o.Tax, &o.Total, &o.ApprovedBy, &o.ApprovedAt,
			&o.SaleID, &o.RejectReason, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
