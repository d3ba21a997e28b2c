package workflow

import (
	"time"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// IssueStatusChange datos opcionales que acompañan un cambio de estado de incidencia.
type IssueStatusChange struct {
	Status     string
	ResolvedBy *string // si es nil al resolver, se usa el actor
	Resolution *string
}

// ApplyIssueStatus aplica el cambio de estado de una incidencia.
//
//   - no resuelta → resolved: resolved_at = now, resolved_by = ResolvedBy o el actor.
//   - resolved → pending (reapertura): limpia resolved_at, resolved_by y resolution.
//   - resolved → resolved y pending → pending no tocan los campos de resolución
//     (salvo la nota, que se puede corregir sobre una incidencia ya resuelta).
func ApplyIssueStatus(i *entity.Issue, in IssueStatusChange, actor Actor, now time.Time) (Transition, error) {
	if !entity.ValidIssueStatus(in.Status) {
		return Transition{}, domain.ErrInvalidStatus
	}
	if !entity.IsReviewer(actor.Role) {
		return Transition{}, domain.ErrForbidden
	}
	prev := i.Status

	switch {
	case in.Status == entity.IssueStatusResolved && prev != entity.IssueStatusResolved:
		at := now
		i.ResolvedAt = &at
		resolver := actor.ID
		if in.ResolvedBy != nil && *in.ResolvedBy != "" {
			resolver = *in.ResolvedBy
		}
		i.ResolvedBy = &resolver
		if in.Resolution != nil {
			i.Resolution = in.Resolution
		}
	case in.Status == entity.IssueStatusPending && prev == entity.IssueStatusResolved:
		i.ResolvedAt = nil
		i.ResolvedBy = nil
		i.Resolution = nil
	case in.Status == entity.IssueStatusResolved && in.Resolution != nil:
		i.Resolution = in.Resolution
	}

	i.Status = in.Status
	i.UpdatedAt = now
	return Transition{From: prev, To: in.Status, Changed: prev != in.Status}, nil
}
