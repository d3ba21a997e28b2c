package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

func TestGenerateWeightReport_DevuelvePDF(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	data := weighing.ReportData{
		Title:       "Reporte de pesajes",
		Status:      entity.RecordStatusApproved,
		GeneratedBy: "Ana Gerente",
		GeneratedAt: at,
		Records: []*entity.WeightRecord{
			{ID: 1, ItemName: "Cobre", BatchNumber: "B-1", TotalWeight: decimal.NewFromInt(10), Status: entity.RecordStatusApproved, CreatedAt: at},
			{ID: 2, ItemName: "Hierro", TotalWeight: decimal.RequireFromString("2.5"), Status: entity.RecordStatusApproved, CreatedAt: at},
		},
		TotalWeight: decimal.RequireFromString("12.5"),
	}

	out, err := NewMarotoReportGenerator().GenerateWeightReport(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateWeightReport_SinRegistros(t *testing.T) {
	out, err := NewMarotoReportGenerator().GenerateWeightReport(context.Background(), weighing.ReportData{
		Title:       "Reporte de pesajes",
		GeneratedAt: time.Now(),
		TotalWeight: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
