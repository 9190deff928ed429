package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
)

// Ensure TxRunner implements kardex.TxRunner.
var _ kardex.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con todos
// los repositorios del motor atados a la misma tx. Es el coordinador de
// transacciones: validar → mutar stock → asiento → documento padre, todo o nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *kardex.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := &kardex.TxRepos{
		Kardex:        NewKardexRepository(tx),
		Products:      NewProductRepository(tx),
		MovementTypes: NewMovementTypeRepository(tx),
		Orders:        NewOrderRepository(tx),
		Sales:         NewSaleRepository(tx),
		Purchases:     NewPurchaseRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
