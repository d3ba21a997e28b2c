package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

func newRecord(by string, status string, w int64, at time.Time) *entity.WeightRecord {
	return &entity.WeightRecord{
		ItemName:    "Cobre",
		TotalWeight: decimal.NewFromInt(w),
		Unit:        entity.UnitKilogram,
		Status:      status,
		RecordedBy:  by,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tx := NewTxRunner(s)
	now := time.Now()

	require.NoError(t, s.WeightRecords().Create(ctx, newRecord("u1", entity.RecordStatusPending, 10, now)))

	boom := errors.New("boom")
	err := tx.Run(ctx, func(records repository.WeightRecordRepository) error {
		require.NoError(t, records.Create(ctx, newRecord("u1", entity.RecordStatusPending, 20, now)))
		require.NoError(t, records.Create(ctx, newRecord("u1", entity.RecordStatusPending, 30, now)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, total, err := s.WeightRecords().List(ctx, entity.WeightRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.True(t, list[0].TotalWeight.Equal(decimal.NewFromInt(10)))
}

func TestTxRunner_CommitConservaInserciones(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := NewTxRunner(s).Run(ctx, func(records repository.WeightRecordRepository) error {
		return records.Create(ctx, newRecord("u1", entity.RecordStatusPending, 5, time.Now()))
	})
	require.NoError(t, err)
	_, total, err := s.WeightRecords().List(ctx, entity.WeightRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestWeightRecords_ListFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().WeightRecords()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newRecord("u1", entity.RecordStatusPending, int64(i+1), base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, newRecord("u2", entity.RecordStatusApproved, 99, base)))

	list, total, err := repo.List(ctx, entity.WeightRecordFilter{RecordedBy: "u1", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, list, 2)
	// created_at DESC: el segundo más reciente es el de peso 4
	assert.True(t, list[0].TotalWeight.Equal(decimal.NewFromInt(4)))

	list, total, err = repo.List(ctx, entity.WeightRecordFilter{Status: entity.RecordStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "u2", list[0].RecordedBy)
}

func TestWeightRecords_Summary(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().WeightRecords()
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newRecord("u1", entity.RecordStatusApproved, 10, today.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newRecord("u1", entity.RecordStatusApproved, 5, today.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newRecord("u1", entity.RecordStatusRejected, 7, today.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newRecord("u2", entity.RecordStatusPending, 1, today.Add(time.Hour))))

	s, err := repo.Summary(ctx, "u1", today, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Approved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 0, s.Pending)
	assert.Equal(t, 2, s.TodayCount)
	assert.True(t, s.ApprovedWeight.Equal(decimal.NewFromInt(15)))
	require.Len(t, s.TopMaterials, 1)
	assert.Equal(t, 2, s.TopMaterials[0].Records)
}

func TestMaterials_DeleteDesligaRegistros(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	m := &entity.Material{Name: "Aluminio", Unit: entity.UnitKilogram}
	require.NoError(t, s.Materials().Create(ctx, m))
	rec := newRecord("u1", entity.RecordStatusPending, 3, time.Now())
	rec.MaterialID = &m.ID
	require.NoError(t, s.WeightRecords().Create(ctx, rec))

	require.NoError(t, s.Materials().Delete(ctx, m.ID))
	got, err := s.WeightRecords().GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MaterialID)
	assert.Equal(t, "Cobre", got.ItemName)
}

func TestTxRunner_RollbackNoPierdeEscriturasConcurrentes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	boom := errors.New("boom")
	var otherRecord, otherIssue int64
	err := NewTxRunner(s).Run(ctx, func(records repository.WeightRecordRepository) error {
		require.NoError(t, records.Create(ctx, newRecord("u1", entity.RecordStatusPending, 20, now)))

		done := make(chan struct{})
		go func() {
			defer close(done)
			rec := newRecord("iot", entity.RecordStatusPending, 7, now)
			if err := s.WeightRecords().Create(ctx, rec); err == nil {
				otherRecord = rec.ID
			}
			issue := &entity.Issue{Title: "Báscula descalibrada", Status: entity.IssueStatusPending, ReporterID: "u2"}
			if err := s.Issues().Create(ctx, issue); err == nil {
				otherIssue = issue.ID
			}
		}()
		<-done
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, total, err := s.WeightRecords().List(ctx, entity.WeightRecordFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, otherRecord, list[0].ID)

	_, issues, err := s.Issues().List(ctx, entity.IssueFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, issues)
	assert.NotZero(t, otherIssue)

	// los ids no se reutilizan tras el rollback
	next := newRecord("u1", entity.RecordStatusPending, 1, now)
	require.NoError(t, s.WeightRecords().Create(ctx, next))
	assert.Greater(t, next.ID, otherRecord)
}

func TestTxRunner_RollbackRevierteEstadoYBorrado(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	keep := newRecord("u1", entity.RecordStatusPending, 10, now)
	gone := newRecord("u1", entity.RecordStatusPending, 11, now)
	require.NoError(t, s.WeightRecords().Create(ctx, keep))
	require.NoError(t, s.WeightRecords().Create(ctx, gone))
	require.NoError(t, s.RFIDLogs().Create(ctx, &entity.RFIDLog{RecordID: gone.ID, RFIDID: "TAG1", DeviceID: "esp32_1", ScannedAt: now}))
	issue := &entity.Issue{Title: "Lote mezclado", Status: entity.IssueStatusPending, ReporterID: "u1", RecordID: &gone.ID}
	require.NoError(t, s.Issues().Create(ctx, issue))

	boom := errors.New("boom")
	err := NewTxRunner(s).Run(ctx, func(records repository.WeightRecordRepository) error {
		upd := *keep
		upd.Status = entity.RecordStatusApproved
		require.NoError(t, records.UpdateStatus(ctx, &upd))
		require.NoError(t, records.Delete(ctx, gone.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.WeightRecords().GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusPending, got.Status)

	restored, err := s.WeightRecords().GetByID(ctx, gone.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)
	gotIssue, err := s.Issues().GetByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, gotIssue.RecordID)
	assert.Equal(t, gone.ID, *gotIssue.RecordID)
	last, err := s.RFIDLogs().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, gone.ID, last.RecordID)
}

func TestWeightRecords_DeleteDesligaIncidenciasYBorraRFID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	rec := newRecord("u1", entity.RecordStatusPending, 4, now)
	require.NoError(t, s.WeightRecords().Create(ctx, rec))
	require.NoError(t, s.RFIDLogs().Create(ctx, &entity.RFIDLog{RecordID: rec.ID, RFIDID: "TAG9", DeviceID: "esp32_2", ScannedAt: now}))
	issue := &entity.Issue{Title: "Peso dudoso", Status: entity.IssueStatusPending, ReporterID: "u1", RecordID: &rec.ID}
	require.NoError(t, s.Issues().Create(ctx, issue))

	require.NoError(t, s.WeightRecords().Delete(ctx, rec.ID))

	gotIssue, err := s.Issues().GetByID(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, gotIssue)
	assert.Nil(t, gotIssue.RecordID)
	last, err := s.RFIDLogs().Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}
