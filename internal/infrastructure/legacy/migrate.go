package legacy

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

// Migrate crea o completa las tablas heredadas con AutoMigrate (no borra columnas).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userRow{},
		&materialRow{},
		&weightRow{},
		&issueRow{},
		&rfidLogRow{},
		&deviceReadingRow{},
		&statusChangeRow{},
	); err != nil {
		return fmt.Errorf("automigrate legacy: %w", err)
	}
	return nil
}

var _ weighing.TxRunner = (*TxRunner)(nil)

// TxRunner transacción GORM: rollback si fn devuelve error.
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con el repositorio de registros atado a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(records repository.WeightRecordRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewWeightRecordRepository(tx))
	})
}
