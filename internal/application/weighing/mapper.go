package weighing

import (
	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// ToResponse convierte la entidad en el DTO de salida.
func ToResponse(r *entity.WeightRecord) dto.WeightRecordResponse {
	return dto.WeightRecordResponse{
		ID:          r.ID,
		MaterialID:  r.MaterialID,
		ItemName:    r.ItemName,
		TotalWeight: r.TotalWeight,
		Unit:        r.Unit,
		BatchNumber: r.BatchNumber,
		Source:      r.Source,
		Destination: r.Destination,
		Notes:       r.Notes,
		Status:      r.Status,
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  r.ApprovedAt,
		Resolution:  r.Resolution,
		RecordedBy:  r.RecordedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toHistoryResponse(c *entity.StatusChange) dto.StatusChangeResponse {
	return dto.StatusChangeResponse{
		OldStatus: c.OldStatus,
		NewStatus: c.NewStatus,
		ChangedBy: c.ChangedBy,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}
