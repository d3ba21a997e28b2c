package weighing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando el repositorio de registros atado a esa tx.
// Si fn devuelve error se hace rollback de todas las inserciones.
type TxRunner interface {
	Run(ctx context.Context, fn func(records repository.WeightRecordRepository) error) error
}

// ReportData datos ya resueltos que necesita el generador del reporte PDF.
type ReportData struct {
	Title       string
	Status      string // filtro aplicado; vacío = todos
	GeneratedBy string
	GeneratedAt time.Time
	Records     []*entity.WeightRecord
	TotalWeight decimal.Decimal
}

// ReportGenerator genera el PDF del reporte de pesajes.
type ReportGenerator interface {
	GenerateWeightReport(ctx context.Context, data ReportData) ([]byte, error)
}
