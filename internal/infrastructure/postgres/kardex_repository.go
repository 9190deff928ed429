package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

const kardexColumns = `id, product_id, warehouse_id, movement_type, quantity, unit_price, total_cost,
	stock_before, stock_after, source_doc_type, source_doc_number, date, created_by,
	authorized_by, authorized_at, notes, status, created_at`

// KardexRepo implementación de KardexRepository sobre PostgreSQL (usable con pool o tx).
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

// Create persiste un asiento de kardex.
func (r *KardexRepo) Create(e *entity.KardexEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO kardex_entries (` + kardexColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ProductID, e.WarehouseID, e.MovementType, e.Quantity, e.UnitPrice, e.TotalCost,
		e.StockBefore, e.StockAfter, e.SourceDocType, e.SourceDocNumber, e.Date, e.CreatedBy,
		e.AuthorizedBy, e.AuthorizedAt, e.Notes, e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create kardex entry: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*entity.KardexEntry, error) {
	var e entity.KardexEntry
	err := row.Scan(
		&e.ID, &e.ProductID, &e.WarehouseID, &e.MovementType, &e.Quantity, &e.UnitPrice, &e.TotalCost,
		&e.StockBefore, &e.StockAfter, &e.SourceDocType, &e.SourceDocNumber, &e.Date, &e.CreatedBy,
		&e.AuthorizedBy, &e.AuthorizedAt, &e.Notes, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan kardex entry: %w", err)
	}
	return &e, nil
}

// GetByID obtiene un asiento por ID.
func (r *KardexRepo) GetByID(id string) (*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex_entries WHERE id = $1`
	return scanEntry(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene el asiento y bloquea la fila (SELECT FOR UPDATE).
// Dos aprobaciones concurrentes del mismo asiento se serializan aquí: la
// segunda relee el estado ya aprobado y falla con conflicto.
func (r *KardexRepo) GetByIDForUpdate(id string) (*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex_entries WHERE id = $1 FOR UPDATE`
	return scanEntry(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste la transición de estado de un asiento PENDING
// (status, autorizador, fecha del movimiento, antes/después recalculados, notas).
func (r *KardexRepo) Update(e *entity.KardexEntry) error {
	query := `
		UPDATE kardex_entries
		SET status = $2, authorized_by = $3, authorized_at = $4,
		    stock_before = $5, stock_after = $6, notes = $7, date = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Status, e.AuthorizedBy, e.AuthorizedAt, e.StockBefore, e.StockAfter, e.Notes, e.Date,
	)
	if err != nil {
		return fmt.Errorf("update kardex entry: %w", err)
	}
	return nil
}

// ListByProduct lista los asientos APPROVED de un producto en un rango de
// fechas, en orden cronológico ascendente (el orden natural de lectura de un
// kardex). El filtro de estado vive en la consulta para que limit/offset
// paginen sobre asientos aprobados, no sobre filas crudas.
func (r *KardexRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.KardexEntry, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex_entries WHERE product_id = $1 AND status = $2`
	args := []any{productID, entity.EntryStatusApproved}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date ASC, created_at ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByDocument lista los asientos generados por un documento fuente.
func (r *KardexRepo) ListByDocument(docType, docNumber string) ([]*entity.KardexEntry, error) {
	query := `
		SELECT ` + kardexColumns + `
		FROM kardex_entries
		WHERE source_doc_type = $1 AND source_doc_number = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, docType, docNumber)
	if err != nil {
		return nil, fmt.Errorf("list by document: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListPending lista los asientos en espera de autorización, primero los más antiguos.
func (r *KardexRepo) ListPending(limit, offset int) ([]*entity.KardexEntry, error) {
	query := `
		SELECT ` + kardexColumns + `
		FROM kardex_entries
		WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, entity.EntryStatusPending, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*entity.KardexEntry, error) {
	var list []*entity.KardexEntry
	for rows.Next() {
		var e entity.KardexEntry
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.WarehouseID, &e.MovementType, &e.Quantity, &e.UnitPrice, &e.TotalCost,
			&e.StockBefore, &e.StockAfter, &e.SourceDocType, &e.SourceDocNumber, &e.Date, &e.CreatedBy,
			&e.AuthorizedBy, &e.AuthorizedAt, &e.Notes, &e.Status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan kardex entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
