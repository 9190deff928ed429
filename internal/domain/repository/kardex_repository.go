package repository

import (
	"time"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
)

// KardexRepository define el puerto de persistencia para asientos del kardex.
// Update solo existe para la transición PENDING → APPROVED/REJECTED; los
// asientos aprobados son inmutables. ListByProduct devuelve únicamente
// asientos APPROVED en orden cronológico ascendente, de modo que limit/offset
// paginan sobre el kardex efectivo.
type KardexRepository interface {
	Create(entry *entity.KardexEntry) error
	GetByID(id string) (*entity.KardexEntry, error)
	GetByIDForUpdate(id string) (*entity.KardexEntry, error)
	Update(entry *entity.KardexEntry) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.KardexEntry, error)
	ListByDocument(docType, docNumber string) ([]*entity.KardexEntry, error)
	ListPending(limit, offset int) ([]*entity.KardexEntry, error)
}
