package repository

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// StatusChangeRepository historial append-only de cambios de estado.
type StatusChangeRepository interface {
	Create(ctx context.Context, c *entity.StatusChange) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusChange, error)
}
