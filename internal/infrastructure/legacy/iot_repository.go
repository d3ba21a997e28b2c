package legacy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var (
	_ repository.DeviceReadingRepository = (*deviceReadingRepo)(nil)
	_ repository.RFIDLogRepository       = (*rfidLogRepo)(nil)
	_ repository.StatusChangeRepository  = (*statusChangeRepo)(nil)
)

type deviceReadingRepo struct {
	db *gorm.DB
}

// NewDeviceReadingRepository último valor por báscula.
func NewDeviceReadingRepository(db *gorm.DB) repository.DeviceReadingRepository {
	return &deviceReadingRepo{db: db}
}

func (r *deviceReadingRepo) Upsert(ctx context.Context, d *entity.DeviceReading) error {
	row := deviceReadingRow{DeviceID: d.DeviceID, Weight: d.Weight, RFIDID: d.RFIDID, UpdatedAt: d.UpdatedAt}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "rfid_id", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert device reading: %w", err)
	}
	return nil
}

func (r *deviceReadingRepo) Get(ctx context.Context, deviceID string) (*entity.DeviceReading, error) {
	var row deviceReadingRow
	if err := r.db.WithContext(ctx).First(&row, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device reading: %w", err)
	}
	return &entity.DeviceReading{DeviceID: row.DeviceID, Weight: row.Weight, RFIDID: row.RFIDID, UpdatedAt: row.UpdatedAt}, nil
}

func (r *deviceReadingRepo) List(ctx context.Context) ([]*entity.DeviceReading, error) {
	var rows []deviceReadingRow
	if err := r.db.WithContext(ctx).Order("device_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list device readings: %w", err)
	}
	out := make([]*entity.DeviceReading, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.DeviceReading{DeviceID: row.DeviceID, Weight: row.Weight, RFIDID: row.RFIDID, UpdatedAt: row.UpdatedAt})
	}
	return out, nil
}

type rfidLogRepo struct {
	db *gorm.DB
}

// NewRFIDLogRepository bitácora RFID.
func NewRFIDLogRepository(db *gorm.DB) repository.RFIDLogRepository {
	return &rfidLogRepo{db: db}
}

func (r *rfidLogRepo) Create(ctx context.Context, l *entity.RFIDLog) error {
	row := rfidLogRow{RecordID: l.RecordID, RFIDID: l.RFIDID, DeviceID: l.DeviceID, ScannedAt: l.ScannedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert rfid log: %w", err)
	}
	l.ID = row.ID
	return nil
}

func (r *rfidLogRepo) Latest(ctx context.Context) (*entity.RFIDLog, error) {
	var row rfidLogRow
	err := r.db.WithContext(ctx).Order("scanned_at DESC").Order("id DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest rfid log: %w", err)
	}
	return &entity.RFIDLog{ID: row.ID, RecordID: row.RecordID, RFIDID: row.RFIDID, DeviceID: row.DeviceID, ScannedAt: row.ScannedAt}, nil
}

type statusChangeRepo struct {
	db *gorm.DB
}

// NewStatusChangeRepository historial de estados.
func NewStatusChangeRepository(db *gorm.DB) repository.StatusChangeRepository {
	return &statusChangeRepo{db: db}
}

func (r *statusChangeRepo) Create(ctx context.Context, c *entity.StatusChange) error {
	row := statusChangeRow{
		EntityType: c.EntityType,
		EntityID:   c.EntityID,
		OldStatus:  c.OldStatus,
		NewStatus:  c.NewStatus,
		ChangedBy:  c.ChangedBy,
		Note:       c.Note,
		CreatedAt:  c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	c.ID = row.ID
	return nil
}

func (r *statusChangeRepo) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusChange, error) {
	var rows []statusChangeRow
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	out := make([]*entity.StatusChange, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.StatusChange{
			ID:         row.ID,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			OldStatus:  row.OldStatus,
			NewStatus:  row.NewStatus,
			ChangedBy:  row.ChangedBy,
			Note:       row.Note,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
