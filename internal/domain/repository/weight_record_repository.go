package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// MaterialWeight peso acumulado por material (widget del dashboard).
type MaterialWeight struct {
	MaterialName string
	TotalWeight  decimal.Decimal
	Records      int
}

// RecordSummary agregados de registros de peso. Lo produce la DB; el use case lo convierte en DTO.
type RecordSummary struct {
	Pending        int
	Approved       int
	Rejected       int
	ApprovedWeight decimal.Decimal // suma de total_weight de los aprobados
	TodayCount     int             // registros creados desde el inicio del día
	TopMaterials   []MaterialWeight
}

// WeightRecordRepository define el puerto de persistencia para WeightRecord (DIP).
// GetByID devuelve nil, nil si no existe.
type WeightRecordRepository interface {
	// Create inserta el registro y completa r.ID con el identificador generado.
	Create(ctx context.Context, r *entity.WeightRecord) error
	GetByID(ctx context.Context, id int64) (*entity.WeightRecord, error)
	// List devuelve la página pedida y el total que cumple el filtro, ordenado por created_at DESC.
	List(ctx context.Context, f entity.WeightRecordFilter) ([]*entity.WeightRecord, int, error)
	// UpdateStatus persiste solo status, approved_by, approved_at, resolution y updated_at.
	UpdateStatus(ctx context.Context, r *entity.WeightRecord) error
	Delete(ctx context.Context, id int64) error
	// Summary agrega por estado; recordedBy vacío = todos los registros.
	Summary(ctx context.Context, recordedBy string, todayStart time.Time, topN int) (*RecordSummary, error)
}
