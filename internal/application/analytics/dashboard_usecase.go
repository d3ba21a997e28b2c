// Package analytics contiene el caso de uso del resumen del dashboard de pesajes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
)

const dashboardTopMaterials = 5 // materiales en el widget del dashboard

// Alcances del resumen.
const (
	ScopeAll = "all"
	ScopeOwn = "own"
)

// DashboardUseCase genera el resumen de registros e incidencias.
// Delega las agregaciones en los repositorios (consultas read-only).
type DashboardUseCase struct {
	records repository.WeightRecordRepository
	issues  repository.IssueRepository
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(records repository.WeightRecordRepository, issues repository.IssueRepository) *DashboardUseCase {
	return &DashboardUseCase{records: records, issues: issues, now: time.Now}
}

// GetSummary construye el resumen. Admin y manager ven todo; el operador solo lo propio.
//
// Dos llamadas en paralelo:
//  1. records.Summary → conteos por estado, peso aprobado, registros de hoy, top materiales
//  2. issues.CountOpen → incidencias pendientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor workflow.Actor) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	scope, owner := ScopeAll, ""
	if !entity.IsReviewer(actor.Role) {
		scope, owner = ScopeOwn, actor.ID
	}

	type summaryResult struct {
		s   *repository.RecordSummary
		err error
	}
	type openResult struct {
		n   int
		err error
	}
	summaryChan := make(chan summaryResult, 1)
	openChan := make(chan openResult, 1)

	go func() {
		s, err := uc.records.Summary(ctx, owner, todayStart, dashboardTopMaterials)
		summaryChan <- summaryResult{s, err}
	}()
	go func() {
		n, err := uc.issues.CountOpen(ctx, owner)
		openChan <- openResult{n, err}
	}()

	sumRes := <-summaryChan
	openRes := <-openChan
	if sumRes.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de registros: %w", sumRes.err)
	}
	if openRes.err != nil {
		return nil, fmt.Errorf("dashboard: incidencias abiertas: %w", openRes.err)
	}

	s := sumRes.s
	out := &dto.DashboardSummaryDTO{
		Scope: scope,
		Records: dto.RecordCountsDTO{
			Pending:  s.Pending,
			Approved: s.Approved,
			Rejected: s.Rejected,
			Total:    s.Pending + s.Approved + s.Rejected,
		},
		ApprovedWeight: s.ApprovedWeight,
		TodayRecords:   s.TodayCount,
		OpenIssues:     openRes.n,
		TopMaterials:   make([]dto.MaterialWeightDTO, 0, len(s.TopMaterials)),
		GeneratedAt:    now,
	}
	for _, m := range s.TopMaterials {
		out.TopMaterials = append(out.TopMaterials, dto.MaterialWeightDTO{
			MaterialName: m.MaterialName,
			TotalWeight:  m.TotalWeight,
			Records:      m.Records,
		})
	}
	return out, nil
}
