package workflow

import (
	"time"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// NewStatusChange construye la fila de historial de una transición efectiva.
// Devuelve nil si el estado no cambió.
func NewStatusChange(entityType string, entityID int64, t Transition, actor Actor, note *string, now time.Time) *entity.StatusChange {
	if !t.Changed {
		return nil
	}
	c := &entity.StatusChange{
		EntityType: entityType,
		EntityID:   entityID,
		OldStatus:  t.From,
		NewStatus:  t.To,
		ChangedBy:  actor.ID,
		CreatedAt:  now,
	}
	if note != nil {
		c.Note = *note
	}
	return c
}
