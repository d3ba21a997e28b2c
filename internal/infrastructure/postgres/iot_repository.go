package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var (
	_ repository.DeviceReadingRepository = (*DeviceReadingRepo)(nil)
	_ repository.RFIDLogRepository       = (*RFIDLogRepo)(nil)
	_ repository.StatusChangeRepository  = (*StatusChangeRepo)(nil)
)

// DeviceReadingRepo último valor por báscula (tabla device_readings).
type DeviceReadingRepo struct {
	db Querier
}

// NewDeviceReadingRepository construye el repositorio.
func NewDeviceReadingRepository(db Querier) *DeviceReadingRepo {
	return &DeviceReadingRepo{db: db}
}

// Upsert reemplaza la lectura del dispositivo.
func (r *DeviceReadingRepo) Upsert(ctx context.Context, d *entity.DeviceReading) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO device_readings (device_id, weight, rfid_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id) DO UPDATE
		SET weight = EXCLUDED.weight, rfid_id = EXCLUDED.rfid_id, updated_at = EXCLUDED.updated_at`,
		d.DeviceID, d.Weight, d.RFIDID, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert device reading: %w", err)
	}
	return nil
}

// Get devuelve la lectura; nil, nil si el dispositivo nunca reportó.
func (r *DeviceReadingRepo) Get(ctx context.Context, deviceID string) (*entity.DeviceReading, error) {
	var d entity.DeviceReading
	err := r.db.QueryRow(ctx,
		`SELECT device_id, weight, rfid_id, updated_at FROM device_readings WHERE device_id = $1`, deviceID,
	).Scan(&d.DeviceID, &d.Weight, &d.RFIDID, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device reading: %w", err)
	}
	return &d, nil
}

// List todas las lecturas, ordenadas por dispositivo.
func (r *DeviceReadingRepo) List(ctx context.Context) ([]*entity.DeviceReading, error) {
	rows, err := r.db.Query(ctx, `SELECT device_id, weight, rfid_id, updated_at FROM device_readings ORDER BY device_id`)
	if err != nil {
		return nil, fmt.Errorf("list device readings: %w", err)
	}
	defer rows.Close()
	var out []*entity.DeviceReading
	for rows.Next() {
		var d entity.DeviceReading
		if err := rows.Scan(&d.DeviceID, &d.Weight, &d.RFIDID, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan device reading: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// RFIDLogRepo bitácora RFID (tabla rfid_logs).
type RFIDLogRepo struct {
	db Querier
}

// NewRFIDLogRepository construye el repositorio.
func NewRFIDLogRepository(db Querier) *RFIDLogRepo {
	return &RFIDLogRepo{db: db}
}

// Create inserta la lectura RFID.
func (r *RFIDLogRepo) Create(ctx context.Context, l *entity.RFIDLog) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO rfid_logs (record_id, rfid_id, device_id, scanned_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		l.RecordID, l.RFIDID, l.DeviceID, l.ScannedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert rfid log: %w", err)
	}
	return nil
}

// Latest última lectura RFID; nil, nil si no hay ninguna.
func (r *RFIDLogRepo) Latest(ctx context.Context) (*entity.RFIDLog, error) {
	var l entity.RFIDLog
	err := r.db.QueryRow(ctx, `
		SELECT id, record_id, rfid_id, device_id, scanned_at
		FROM rfid_logs ORDER BY scanned_at DESC, id DESC LIMIT 1`,
	).Scan(&l.ID, &l.RecordID, &l.RFIDID, &l.DeviceID, &l.ScannedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest rfid log: %w", err)
	}
	return &l, nil
}

// StatusChangeRepo historial de estados (tabla status_changes).
type StatusChangeRepo struct {
	db Querier
}

// NewStatusChangeRepository construye el repositorio.
func NewStatusChangeRepository(db Querier) *StatusChangeRepo {
	return &StatusChangeRepo{db: db}
}

// Create agrega una fila al historial.
func (r *StatusChangeRepo) Create(ctx context.Context, c *entity.StatusChange) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO status_changes (entity_type, entity_id, old_status, new_status, changed_by, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		c.EntityType, c.EntityID, c.OldStatus, c.NewStatus, c.ChangedBy, c.Note, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

// ListByEntity historial en orden cronológico.
func (r *StatusChangeRepo) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusChange, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, entity_type, entity_id, old_status, new_status, changed_by, note, created_at
		FROM status_changes WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, id`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()
	var out []*entity.StatusChange
	for rows.Next() {
		var c entity.StatusChange
		if err := rows.Scan(&c.ID, &c.EntityType, &c.EntityID, &c.OldStatus, &c.NewStatus, &c.ChangedBy, &c.Note, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
