// Package workflow contiene las reglas de transición de estado de los registros de peso
// (pending/approved/rejected) y de las incidencias (pending/resolved).
//
// Son funciones puras sobre las entidades: no persisten ni consultan nada. El caso de uso
// carga la entidad, aplica la transición y guarda el resultado.
package workflow

import (
	"time"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// Actor quien ejecuta la transición.
type Actor struct {
	ID   string
	Role string
}

// Transition resultado de aplicar un cambio de estado.
type Transition struct {
	From    string
	To      string
	Changed bool // From != To
}

// ApplyRecordStatus aplica el cambio de estado de un registro de peso.
//
//   - * → approved: approved_by = actor, approved_at = now.
//   - * → rejected: solo el estado (y la nota del revisor si viene).
//   - approved → pending: limpia approved_by, approved_at y resolution.
//   - cualquier otro → pending: solo sobrescribe el estado.
//
// Solo admin y manager pueden cambiar el estado. updated_at se actualiza siempre.
func ApplyRecordStatus(r *entity.WeightRecord, next string, actor Actor, note *string, now time.Time) (Transition, error) {
	if !entity.ValidRecordStatus(next) {
		return Transition{}, domain.ErrInvalidStatus
	}
	if !entity.IsReviewer(actor.Role) {
		return Transition{}, domain.ErrForbidden
	}
	prev := r.Status

	switch next {
	case entity.RecordStatusApproved:
		approver := actor.ID
		at := now
		r.ApprovedBy = &approver
		r.ApprovedAt = &at
		if note != nil {
			r.Resolution = note
		}
	case entity.RecordStatusRejected:
		if note != nil {
			r.Resolution = note
		}
	case entity.RecordStatusPending:
		if prev == entity.RecordStatusApproved {
			r.ApprovedBy = nil
			r.ApprovedAt = nil
			r.Resolution = nil
		}
	}

	r.Status = next
	r.UpdatedAt = now
	return Transition{From: prev, To: next, Changed: prev != next}, nil
}
