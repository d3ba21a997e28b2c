package weighing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
)

// maxReportRecords tope de filas del PDF; se pagina contra el repositorio hasta alcanzarlo.
const maxReportRecords = 1000

// ReportUseCase genera el reporte PDF de pesajes para revisores.
type ReportUseCase struct {
	weights   *WeightUseCase
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(weights *WeightUseCase, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{weights: weights, generator: generator}
}

// WeightReport devuelve los bytes del PDF y el nombre sugerido del archivo.
func (uc *ReportUseCase) WeightReport(ctx context.Context, actor workflow.Actor, status string) ([]byte, string, error) {
	if !entity.IsReviewer(actor.Role) {
		return nil, "", domain.ErrForbidden
	}
	if status != "" && !entity.ValidRecordStatus(status) {
		return nil, "", domain.ErrInvalidStatus
	}

	var all []*entity.WeightRecord
	f := entity.WeightRecordFilter{Status: status, Limit: 100}
	for len(all) < maxReportRecords {
		page, total, err := uc.weights.records.List(ctx, f)
		if err != nil {
			return nil, "", fmt.Errorf("reporte: listar registros: %w", err)
		}
		all = append(all, page...)
		f.Offset += len(page)
		if len(page) == 0 || f.Offset >= total {
			break
		}
	}

	total := decimal.Zero
	for _, r := range all {
		total = total.Add(r.TotalWeight)
	}
	now := uc.weights.now()
	pdf, err := uc.generator.GenerateWeightReport(ctx, ReportData{
		Title:       "Reporte de pesajes",
		Status:      status,
		GeneratedBy: actor.ID,
		GeneratedAt: now,
		Records:     all,
		TotalWeight: total,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("pesajes_%s.pdf", now.Format(batchTimeLayout)), nil
}
