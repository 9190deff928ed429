package repository

import "github.com/tu-usuario/kardex-erp/internal/domain/entity"

// MovementTypeRepository define el puerto de lectura del catálogo de tipos de
// movimiento. El catálogo es configuración: se consulta, no se muta desde el kardex.
type MovementTypeRepository interface {
	GetByCode(code string) (*entity.MovementType, error)
	List() ([]*entity.MovementType, error)
}
