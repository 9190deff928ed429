package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-erp/internal/domain/entity"
	"github.com/tu-usuario/kardex-erp/internal/domain/repository"
)

var _ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)

// MovementTypeRepo lectura del catálogo de tipos de movimiento.
type MovementTypeRepo struct {
	q Querier
}

// NewMovementTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

// GetByCode obtiene un tipo de movimiento por su código.
func (r *MovementTypeRepo) GetByCode(code string) (*entity.MovementType, error) {
	query := `
		SELECT code, name, direction, affects_stock, requires_document, requires_authorization, active
		FROM movement_types WHERE code = $1`
	var mt entity.MovementType
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&mt.Code, &mt.Name, &mt.Direction, &mt.AffectsStock,
		&mt.RequiresDocument, &mt.RequiresAuthorization, &mt.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement type: %w", err)
	}
	return &mt, nil
}

// List lista el catálogo completo.
func (r *MovementTypeRepo) List() ([]*entity.MovementType, error) {
	query := `
		SELECT code, name, direction, affects_stock, requires_document, requires_authorization, active
		FROM movement_types ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list movement types: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementType
	for rows.Next() {
		var mt entity.MovementType
		if err := rows.Scan(
			&mt.Code, &mt.Name, &mt.Direction, &mt.AffectsStock,
			&mt.RequiresDocument, &mt.RequiresAuthorization, &mt.Active,
		); err != nil {
			return nil, fmt.Errorf("scan movement type: %w", err)
		}
		list = append(list, &mt)
	}
	return list, rows.Err()
}
