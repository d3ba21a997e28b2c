package repository

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// IssueRepository define el puerto de persistencia para Issue (DIP).
type IssueRepository interface {
	Create(ctx context.Context, i *entity.Issue) error
	GetByID(ctx context.Context, id int64) (*entity.Issue, error)
	List(ctx context.Context, f entity.IssueFilter) ([]*entity.Issue, int, error)
	// Update persiste todos los campos mutables (contenido y resolución).
	Update(ctx context.Context, i *entity.Issue) error
	Delete(ctx context.Context, id int64) error
	// CountOpen cuenta incidencias pendientes; reporterID vacío = todas.
	CountOpen(ctx context.Context, reporterID string) (int, error)
}
