package repository

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// NamesByIDs devuelve id → nombre para enriquecer listados. Los ids desconocidos se omiten.
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
