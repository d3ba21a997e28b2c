package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

// DefaultIssueType tipo asignado cuando el reporte no indica ninguno.
const DefaultIssueType = "general"

// IssueUseCase casos de uso de incidencias: alta, consulta, edición, resolución y borrado.
type IssueUseCase struct {
	issues  repository.IssueRepository
	records repository.WeightRecordRepository
	users   repository.UserRepository
	history repository.StatusChangeRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewIssueUseCase construye el caso de uso.
func NewIssueUseCase(
	issues repository.IssueRepository,
	records repository.WeightRecordRepository,
	users repository.UserRepository,
	history repository.StatusChangeRepository,
	log *logger.Logger,
) *IssueUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &IssueUseCase{
		issues:  issues,
		records: records,
		users:   users,
		history: history,
		log:     log.Named("issues"),
		now:     time.Now,
	}
}

// Create registra una incidencia a nombre del actor. record_id, si viene, debe existir.
func (uc *IssueUseCase) Create(ctx context.Context, actor workflow.Actor, in dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || desc == "" {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureRecord(ctx, in.RecordID); err != nil {
		return nil, err
	}

	issueType := firstNonEmpty(in.IssueType, in.Type, DefaultIssueType)
	now := uc.now()
	issue := &entity.Issue{
		Title:       title,
		Description: desc,
		IssueType:   issueType,
		Priority:    priority,
		Status:      entity.IssueStatusPending,
		ReporterID:  actor.ID,
		RecordID:    in.RecordID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.issues.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("incidencias: crear: %w", err)
	}
	uc.enrich(ctx, []*entity.Issue{issue})
	out := toIssueResponse(issue)
	return &out, nil
}

// Get obtiene una incidencia. El operador solo ve las que reportó.
func (uc *IssueUseCase) Get(ctx context.Context, actor workflow.Actor, id int64) (*dto.IssueResponse, error) {
	issue, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.IsReviewer(actor.Role) && issue.ReporterID != actor.ID {
		return nil, domain.ErrForbidden
	}
	uc.enrich(ctx, []*entity.Issue{issue})
	out := toIssueResponse(issue)
	return &out, nil
}

// IssueListInput filtros de GET /api/issues.
type IssueListInput struct {
	Status   string
	RecordID *int64
	Page     dto.PageRequest
}

// List lista incidencias enriquecidas con el nombre del reportante.
func (uc *IssueUseCase) List(ctx context.Context, actor workflow.Actor, in IssueListInput) (*dto.IssueListResponse, error) {
	if in.Status != "" && !entity.ValidIssueStatus(in.Status) {
		return nil, domain.ErrInvalidStatus
	}
	in.Page.DefaultPage()
	f := entity.IssueFilter{
		Status:   in.Status,
		RecordID: in.RecordID,
		Limit:    in.Page.Limit,
		Offset:   in.Page.Offset,
	}
	if !entity.IsReviewer(actor.Role) {
		f.ReporterID = actor.ID
	}
	list, total, err := uc.issues.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("incidencias: listar: %w", err)
	}
	uc.enrich(ctx, list)
	out := &dto.IssueListResponse{
		Items: make([]dto.IssueResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}
	for _, i := range list {
		out.Items = append(out.Items, toIssueResponse(i))
	}
	return out, nil
}

// Update aplica una actualización parcial.
// Título, descripción, tipo y prioridad: reportante o admin/manager.
// Estado, resolución y resolutor: solo admin/manager (reglas de workflow.ApplyIssueStatus).
func (uc *IssueUseCase) Update(ctx context.Context, actor workflow.Actor, id int64, in dto.UpdateIssueRequest) (*dto.IssueResponse, error) {
	issue, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	reviewer := entity.IsReviewer(actor.Role)
	if !reviewer && issue.ReporterID != actor.ID {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, domain.ErrInvalidInput
		}
		issue.Title = t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			return nil, domain.ErrInvalidInput
		}
		issue.Description = d
	}
	if in.IssueType != nil && *in.IssueType != "" {
		issue.IssueType = *in.IssueType
	} else if in.Type != nil && *in.Type != "" {
		issue.IssueType = *in.Type
	}
	if in.Priority != nil {
		if !entity.ValidPriority(*in.Priority) {
			return nil, domain.ErrInvalidInput
		}
		issue.Priority = *in.Priority
	}

	now := uc.now()
	var change *entity.StatusChange
	statusTouched := in.Status != nil || in.Resolution != nil || in.ResolverID != nil
	if statusTouched {
		if !reviewer {
			return nil, domain.ErrForbidden
		}
		next := issue.Status
		if in.Status != nil {
			next = *in.Status
		}
		t, err := workflow.ApplyIssueStatus(issue, workflow.IssueStatusChange{
			Status:     next,
			ResolvedBy: in.ResolverID,
			Resolution: in.Resolution,
		}, actor, now)
		if err != nil {
			return nil, err
		}
		change = workflow.NewStatusChange(entity.EntityIssue, issue.ID, t, actor, in.Resolution, now)
	}
	issue.UpdatedAt = now

	if err := uc.issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("incidencias: actualizar: %w", err)
	}
	if change != nil && uc.history != nil {
		if err := uc.history.Create(ctx, change); err != nil {
			uc.log.Warn().Err(err).Int64("issue_id", issue.ID).Msg("no se pudo guardar el historial de estado")
		}
	}
	uc.enrich(ctx, []*entity.Issue{issue})
	out := toIssueResponse(issue)
	return &out, nil
}

// Delete elimina una incidencia: solo el reportante o un admin.
func (uc *IssueUseCase) Delete(ctx context.Context, actor workflow.Actor, id int64) error {
	issue, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != entity.RoleAdmin && issue.ReporterID != actor.ID {
		return domain.ErrForbidden
	}
	if err := uc.issues.Delete(ctx, id); err != nil {
		return fmt.Errorf("incidencias: eliminar: %w", err)
	}
	return nil
}

func (uc *IssueUseCase) load(ctx context.Context, id int64) (*entity.Issue, error) {
	issue, err := uc.issues.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("incidencias: obtener: %w", err)
	}
	if issue == nil {
		return nil, domain.ErrNotFound
	}
	return issue, nil
}

func (uc *IssueUseCase) ensureRecord(ctx context.Context, recordID *int64) error {
	if recordID == nil {
		return nil
	}
	rec, err := uc.records.GetByID(ctx, *recordID)
	if err != nil {
		return fmt.Errorf("incidencias: obtener registro: %w", err)
	}
	if rec == nil {
		return domain.ErrRecordNotFound
	}
	return nil
}

// enrich completa ReporterName. Si falla la consulta de usuarios se devuelve sin nombre.
func (uc *IssueUseCase) enrich(ctx context.Context, list []*entity.Issue) {
	if len(list) == 0 || uc.users == nil {
		return
	}
	seen := make(map[string]struct{}, len(list))
	ids := make([]string, 0, len(list))
	for _, i := range list {
		if _, ok := seen[i.ReporterID]; ok || i.ReporterID == "" {
			continue
		}
		seen[i.ReporterID] = struct{}{}
		ids = append(ids, i.ReporterID)
	}
	names, err := uc.users.NamesByIDs(ctx, ids)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron resolver los nombres de reportantes")
		return
	}
	for _, i := range list {
		i.ReporterName = names[i.ReporterID]
	}
}

func toIssueResponse(i *entity.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:           i.ID,
		Title:        i.Title,
		Description:  i.Description,
		IssueType:    i.IssueType,
		Priority:     i.Priority,
		Status:       i.Status,
		ReporterID:   i.ReporterID,
		ReporterName: i.ReporterName,
		ResolvedBy:   i.ResolvedBy,
		ResolvedAt:   i.ResolvedAt,
		Resolution:   i.Resolution,
		RecordID:     i.RecordID,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
