package repository

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para los materiales (ref_items).
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	GetByName(ctx context.Context, name string) (*entity.Material, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	Delete(ctx context.Context, id int64) error
}
