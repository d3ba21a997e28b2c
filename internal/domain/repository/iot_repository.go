package repository

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// DeviceReadingRepository guarda el último valor reportado por cada báscula.
type DeviceReadingRepository interface {
	Upsert(ctx context.Context, r *entity.DeviceReading) error
	Get(ctx context.Context, deviceID string) (*entity.DeviceReading, error)
	List(ctx context.Context) ([]*entity.DeviceReading, error)
}

// RFIDLogRepository bitácora de lecturas RFID ligadas a registros de peso.
type RFIDLogRepository interface {
	Create(ctx context.Context, l *entity.RFIDLog) error
	Latest(ctx context.Context) (*entity.RFIDLog, error)
}
