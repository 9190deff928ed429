package kardex

import (
	"context"

	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// Todo caso de uso que muta stock recibe exactamente este juego de repos,
// de modo que validación, mutación de stock, asiento de kardex y documento
// padre se escriben de forma atómica.
type TxRepos struct {
	Kardex        repository.KardexRepository
	Products      repository.ProductRepository
	MovementTypes repository.MovementTypeRepository
	Orders        repository.OrderRepository
	Sales         repository.SaleRepository
	Purchases     repository.PurchaseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn retorna nil, Rollback si no.
// Es el coordinador de transacciones del motor de kardex.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx *TxRepos) error) error
}
