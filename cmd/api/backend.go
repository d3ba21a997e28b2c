package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/legacy"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/memory"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/veroscale-api/pkg/config"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

// backend repositorios del almacén elegido con DB_BACKEND.
type backend struct {
	records  repository.WeightRecordRepository
	issues   repository.IssueRepository
	material repository.MaterialRepository
	users    repository.UserRepository
	readings repository.DeviceReadingRepository
	rfid     repository.RFIDLogRepository
	history  repository.StatusChangeRepository
	tx       weighing.TxRunner
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.DB.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &backend{
			records:  postgres.NewWeightRecordRepository(pool),
			issues:   postgres.NewIssueRepository(pool),
			material: postgres.NewMaterialRepository(pool),
			users:    postgres.NewUserRepository(pool),
			readings: postgres.NewDeviceReadingRepository(pool),
			rfid:     postgres.NewRFIDLogRepository(pool),
			history:  postgres.NewStatusChangeRepository(pool),
			tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil

	case config.BackendLegacy:
		db, err := legacy.Open(cfg.Legacy, log)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := legacy.Migrate(db); err != nil {
				return nil, err
			}
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &backend{
			records:  legacy.NewWeightRecordRepository(db),
			issues:   legacy.NewIssueRepository(db),
			material: legacy.NewMaterialRepository(db),
			users:    legacy.NewUserRepository(db),
			readings: legacy.NewDeviceReadingRepository(db),
			rfid:     legacy.NewRFIDLogRepository(db),
			history:  legacy.NewStatusChangeRepository(db),
			tx:       legacy.NewTxRunner(db),
			close:    closeFn,
		}, nil

	case config.BackendMemory:
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &backend{
			records:  s.WeightRecords(),
			issues:   s.Issues(),
			material: s.Materials(),
			users:    s.Users(),
			readings: s.DeviceReadings(),
			rfid:     s.RFIDLogs(),
			history:  s.StatusChanges(),
			tx:       memory.NewTxRunner(s),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("backend no soportado: %q", cfg.DB.Backend)
}
