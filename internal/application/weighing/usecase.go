package weighing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

const batchTimeLayout = "20060102150405"

// WeightUseCase casos de uso de registros de peso: alta simple y multi-material,
// consulta, flujo de aprobación, borrado e historial.
type WeightUseCase struct {
	records   repository.WeightRecordRepository
	materials repository.MaterialRepository
	history   repository.StatusChangeRepository
	txRunner  TxRunner
	log       *logger.Logger
	now       func() time.Time
}

// NewWeightUseCase construye el caso de uso.
func NewWeightUseCase(
	records repository.WeightRecordRepository,
	materials repository.MaterialRepository,
	history repository.StatusChangeRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *WeightUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WeightUseCase{
		records:   records,
		materials: materials,
		history:   history,
		txRunner:  txRunner,
		log:       log.Named("weighing"),
		now:       time.Now,
	}
}

// Create registra un peso de un solo material. El estado siempre arranca en pending.
func (uc *WeightUseCase) Create(ctx context.Context, actor workflow.Actor, in dto.CreateWeightRequest) (*dto.WeightRecordResponse, error) {
	if in.MaterialID <= 0 || !in.Weight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	material, err := uc.materials.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("weighing: obtener material: %w", err)
	}
	if material == nil {
		return nil, domain.ErrMaterialNotFound
	}

	now := uc.now()
	rec := newRecord(material, in.Weight, in.BatchNumber, in.Source, in.Destination, in.Notes, actor.ID, now)
	if err := uc.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("weighing: crear registro: %w", err)
	}
	out := ToResponse(rec)
	return &out, nil
}

// CreateMultiMaterial registra una carga con varios materiales bajo un mismo lote.
// Todas las líneas se validan antes de escribir; las inserciones van en una sola transacción.
func (uc *WeightUseCase) CreateMultiMaterial(ctx context.Context, actor workflow.Actor, in dto.MultiMaterialRequest) (*dto.MultiMaterialResponse, error) {
	if len(in.MaterialEntries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, e := range in.MaterialEntries {
		if e.MaterialID <= 0 || !e.Weight.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Resolver todos los materiales antes de abrir la transacción.
	resolved := make(map[int64]*entity.Material, len(in.MaterialEntries))
	for _, e := range in.MaterialEntries {
		if _, ok := resolved[e.MaterialID]; ok {
			continue
		}
		m, err := uc.materials.GetByID(ctx, e.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("weighing: obtener material %d: %w", e.MaterialID, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: id %d", domain.ErrMaterialNotFound, e.MaterialID)
		}
		resolved[e.MaterialID] = m
	}

	now := uc.now()
	batch := in.BatchNumber
	if batch == "" {
		batch = "BATCH-" + now.Format(batchTimeLayout)
	}

	created := make([]*entity.WeightRecord, 0, len(in.MaterialEntries))
	total := decimal.Zero
	err := uc.txRunner.Run(ctx, func(records repository.WeightRecordRepository) error {
		for _, e := range in.MaterialEntries {
			rec := newRecord(resolved[e.MaterialID], e.Weight, batch, in.Source, in.Destination, e.Notes, actor.ID, now)
			if err := records.Create(ctx, rec); err != nil {
				return fmt.Errorf("crear registro de %s: %w", rec.ItemName, err)
			}
			created = append(created, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("weighing: carga multi-material: %w", err)
	}

	out := &dto.MultiMaterialResponse{
		Records:     make([]dto.CreatedRecordDTO, 0, len(created)),
		BatchNumber: batch,
		Count:       len(created),
	}
	for i, rec := range created {
		total = total.Add(in.MaterialEntries[i].Weight)
		out.Records = append(out.Records, dto.CreatedRecordDTO{
			ID:         rec.ID,
			MaterialID: *rec.MaterialID,
			ItemName:   rec.ItemName,
			Weight:     rec.TotalWeight,
			Status:     rec.Status,
		})
	}
	out.TotalWeight = total
	return out, nil
}

// Get obtiene un registro. Un operador solo puede ver los suyos.
func (uc *WeightUseCase) Get(ctx context.Context, actor workflow.Actor, id int64) (*dto.WeightRecordResponse, error) {
	rec, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := ToResponse(rec)
	return &out, nil
}

// ListInput filtros de GET /api/weights.
type ListInput struct {
	Status     string
	MaterialID *int64
	Page       dto.PageRequest
}

// List lista registros paginados. Admin y manager ven todo; el operador solo lo que registró.
func (uc *WeightUseCase) List(ctx context.Context, actor workflow.Actor, in ListInput) (*dto.WeightRecordListResponse, error) {
	if in.Status != "" && !entity.ValidRecordStatus(in.Status) {
		return nil, domain.ErrInvalidStatus
	}
	in.Page.DefaultPage()
	f := entity.WeightRecordFilter{
		Status:     in.Status,
		MaterialID: in.MaterialID,
		Limit:      in.Page.Limit,
		Offset:     in.Page.Offset,
	}
	if !entity.IsReviewer(actor.Role) {
		f.RecordedBy = actor.ID
	}
	list, total, err := uc.records.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("weighing: listar registros: %w", err)
	}
	out := &dto.WeightRecordListResponse{
		Items: make([]dto.WeightRecordResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}
	for _, r := range list {
		out.Items = append(out.Items, ToResponse(r))
	}
	return out, nil
}

// UpdateStatus aprueba, rechaza o devuelve a pendiente un registro (solo admin/manager).
// Cada cambio efectivo deja una fila en el historial.
func (uc *WeightUseCase) UpdateStatus(ctx context.Context, actor workflow.Actor, id int64, in dto.UpdateRecordStatusRequest) (*dto.WeightRecordResponse, error) {
	if !entity.IsReviewer(actor.Role) {
		return nil, domain.ErrForbidden
	}
	rec, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("weighing: obtener registro: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrRecordNotFound
	}

	now := uc.now()
	t, err := workflow.ApplyRecordStatus(rec, in.Status, actor, in.Resolution, now)
	if err != nil {
		return nil, err
	}
	if err := uc.records.UpdateStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("weighing: actualizar estado: %w", err)
	}
	uc.appendHistory(ctx, workflow.NewStatusChange(entity.EntityWeightRecord, rec.ID, t, actor, in.Resolution, now))

	out := ToResponse(rec)
	return &out, nil
}

// Delete elimina un registro (solo admin).
func (uc *WeightUseCase) Delete(ctx context.Context, actor workflow.Actor, id int64) error {
	if actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	rec, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("weighing: obtener registro: %w", err)
	}
	if rec == nil {
		return domain.ErrRecordNotFound
	}
	if err := uc.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("weighing: eliminar registro: %w", err)
	}
	return nil
}

// History devuelve las transiciones de estado de un registro, de la más antigua a la más reciente.
func (uc *WeightUseCase) History(ctx context.Context, actor workflow.Actor, id int64) ([]dto.StatusChangeResponse, error) {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	changes, err := uc.history.ListByEntity(ctx, entity.EntityWeightRecord, id)
	if err != nil {
		return nil, fmt.Errorf("weighing: historial: %w", err)
	}
	out := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, toHistoryResponse(c))
	}
	return out, nil
}

func (uc *WeightUseCase) load(ctx context.Context, actor workflow.Actor, id int64) (*entity.WeightRecord, error) {
	rec, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("weighing: obtener registro: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrRecordNotFound
	}
	if !entity.IsReviewer(actor.Role) && rec.RecordedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	return rec, nil
}

// appendHistory es best effort: el cambio de estado ya quedó persistido.
func (uc *WeightUseCase) appendHistory(ctx context.Context, c *entity.StatusChange) {
	if c == nil || uc.history == nil {
		return
	}
	if err := uc.history.Create(ctx, c); err != nil {
		uc.log.Warn().Err(err).Int64("record_id", c.EntityID).Msg("no se pudo guardar el historial de estado")
	}
}

func newRecord(m *entity.Material, weight decimal.Decimal, batch, source, destination, notes, recordedBy string, now time.Time) *entity.WeightRecord {
	materialID := m.ID
	return &entity.WeightRecord{
		MaterialID:  &materialID,
		ItemName:    m.Name,
		TotalWeight: weight,
		Unit:        entity.UnitKilogram,
		BatchNumber: batch,
		Source:      source,
		Destination: destination,
		Notes:       notes,
		Status:      entity.RecordStatusPending,
		RecordedBy:  recordedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
