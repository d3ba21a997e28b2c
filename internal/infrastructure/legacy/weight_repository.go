package legacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var _ repository.WeightRecordRepository = (*weightRepo)(nil)

type weightRepo struct {
	db *gorm.DB
}

// NewWeightRecordRepository repositorio de registros sobre la tabla weights.
func NewWeightRecordRepository(db *gorm.DB) repository.WeightRecordRepository {
	return &weightRepo{db: db}
}

func (r *weightRepo) Create(ctx context.Context, rec *entity.WeightRecord) error {
	row := weightFromEntity(rec)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert weight record: %w", err)
	}
	rec.ID = row.ID
	return nil
}

func (r *weightRepo) GetByID(ctx context.Context, id int64) (*entity.WeightRecord, error) {
	var row weightRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get weight record: %w", err)
	}
	return row.toEntity(), nil
}

func (r *weightRepo) List(ctx context.Context, f entity.WeightRecordFilter) ([]*entity.WeightRecord, int, error) {
	q := r.db.WithContext(ctx).Model(&weightRow{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RecordedBy != "" {
		q = q.Where("recorded_by = ?", f.RecordedBy)
	}
	if f.MaterialID != nil {
		q = q.Where("item_id = ?", *f.MaterialID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count weight records: %w", err)
	}
	var rows []weightRow
	q = q.Order("timestamp DESC").Order("id DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list weight records: %w", err)
	}
	out := make([]*entity.WeightRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, int(total), nil
}

func (r *weightRepo) UpdateStatus(ctx context.Context, rec *entity.WeightRecord) error {
	res := r.db.WithContext(ctx).Model(&weightRow{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
		"status":      rec.Status,
		"approved_by": rec.ApprovedBy,
		"approved_at": rec.ApprovedAt,
		"resolution":  rec.Resolution,
		"updated_at":  rec.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update weight record status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update weight record status: id %d sin filas", rec.ID)
	}
	return nil
}

// Delete borra el registro y sus lecturas RFID y desliga sus incidencias
// (el esquema heredado no tiene FK en cascada).
func (r *weightRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&issueRow{}).Where("record_id = ?", id).Update("record_id", nil).Error; err != nil {
			return fmt.Errorf("unlink issues: %w", err)
		}
		if err := tx.Where("record_id = ?", id).Delete(&rfidLogRow{}).Error; err != nil {
			return fmt.Errorf("delete rfid logs: %w", err)
		}
		if err := tx.Delete(&weightRow{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete weight record: %w", err)
		}
		return nil
	})
}

type statusCount struct {
	Status string
	N      int
	Total  decimal.Decimal
}

type materialTotal struct {
	ItemName string
	Total    decimal.Decimal
	Records  int
}

func (r *weightRepo) Summary(ctx context.Context, recordedBy string, todayStart time.Time, topN int) (*repository.RecordSummary, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&weightRow{})
		if recordedBy != "" {
			q = q.Where("recorded_by = ?", recordedBy)
		}
		return q
	}

	var counts []statusCount
	if err := scoped().Select("status, COUNT(*) AS n, COALESCE(SUM(total_weight), 0) AS total").Group("status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("weight summary: %w", err)
	}
	out := &repository.RecordSummary{ApprovedWeight: decimal.Zero}
	for _, c := range counts {
		switch c.Status {
		case entity.RecordStatusPending:
			out.Pending = c.N
		case entity.RecordStatusApproved:
			out.Approved = c.N
			out.ApprovedWeight = c.Total
		case entity.RecordStatusRejected:
			out.Rejected = c.N
		}
	}

	var today int64
	if err := scoped().Where("timestamp >= ?", todayStart).Count(&today).Error; err != nil {
		return nil, fmt.Errorf("weight summary today: %w", err)
	}
	out.TodayCount = int(today)

	var top []materialTotal
	err := scoped().
		Select("item_name, SUM(total_weight) AS total, COUNT(*) AS records").
		Where("status <> ?", entity.RecordStatusRejected).
		Group("item_name").
		Order("total DESC").Order("item_name").
		Limit(topN).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("top materials: %w", err)
	}
	for _, t := range top {
		out.TopMaterials = append(out.TopMaterials, repository.MaterialWeight{
			MaterialName: t.ItemName,
			TotalWeight:  t.Total,
			Records:      t.Records,
		})
	}
	return out, nil
}
