package legacy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var _ repository.IssueRepository = (*issueRepo)(nil)

type issueRepo struct {
	db *gorm.DB
}

// NewIssueRepository repositorio de incidencias; traduce user_id/type/resolver_id.
func NewIssueRepository(db *gorm.DB) repository.IssueRepository {
	return &issueRepo{db: db}
}

func (r *issueRepo) Create(ctx context.Context, i *entity.Issue) error {
	row := issueFromEntity(i)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	i.ID = row.ID
	return nil
}

func (r *issueRepo) GetByID(ctx context.Context, id int64) (*entity.Issue, error) {
	var row issueRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return row.toEntity(), nil
}

func (r *issueRepo) List(ctx context.Context, f entity.IssueFilter) ([]*entity.Issue, int, error) {
	q := r.db.WithContext(ctx).Model(&issueRow{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ReporterID != "" {
		q = q.Where("user_id = ?", f.ReporterID)
	}
	if f.RecordID != nil {
		q = q.Where("record_id = ?", *f.RecordID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}
	var rows []issueRow
	q = q.Order("created_at DESC").Order("id DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	out := make([]*entity.Issue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, int(total), nil
}

func (r *issueRepo) Update(ctx context.Context, i *entity.Issue) error {
	err := r.db.WithContext(ctx).Model(&issueRow{}).Where("id = ?", i.ID).Updates(map[string]interface{}{
		"title":       i.Title,
		"description": i.Description,
		"type":        i.IssueType,
		"priority":    i.Priority,
		"status":      i.Status,
		"resolver_id": i.ResolvedBy,
		"resolved_at": i.ResolvedAt,
		"resolution":  i.Resolution,
		"updated_at":  i.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	return nil
}

func (r *issueRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&issueRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	return nil
}

func (r *issueRepo) CountOpen(ctx context.Context, reporterID string) (int, error) {
	q := r.db.WithContext(ctx).Model(&issueRow{}).Where("status <> ?", entity.IssueStatusResolved)
	if reporterID != "" {
		q = q.Where("user_id = ?", reporterID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count open issues: %w", err)
	}
	return int(n), nil
}
