package legacy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

func TestWeightRow_TraduceColumnasHeredadas(t *testing.T) {
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mat := int64(7)
	rec := &entity.WeightRecord{
		ID:          3,
		MaterialID:  &mat,
		ItemName:    "Cobre",
		TotalWeight: decimal.RequireFromString("12.345"),
		Unit:        entity.UnitKilogram,
		Status:      entity.RecordStatusPending,
		RecordedBy:  "u-1",
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	row := weightFromEntity(rec)
	require.NotNil(t, row.ItemID)
	assert.Equal(t, int64(7), *row.ItemID)
	assert.Equal(t, at, row.Timestamp)
	assert.Equal(t, "weights", row.TableName())

	back := row.toEntity()
	assert.Equal(t, rec, back)
}

func TestWeightRow_UnidadPorDefecto(t *testing.T) {
	got := weightRow{ItemName: "Hierro"}.toEntity()
	assert.Equal(t, entity.UnitKilogram, got.Unit)
	assert.Nil(t, got.MaterialID)
}

func TestIssueRow_TraduceReportanteYTipo(t *testing.T) {
	resolver := "mgr-1"
	i := &entity.Issue{
		ID:          9,
		Title:       "Báscula descalibrada",
		Description: "marca 2kg de más",
		IssueType:   "equipment",
		Priority:    entity.PriorityHigh,
		Status:      entity.IssueStatusResolved,
		ReporterID:  "op-1",
		ResolvedBy:  &resolver,
	}

	row := issueFromEntity(i)
	assert.Equal(t, "equipment", row.Type)
	assert.Equal(t, "op-1", row.UserID)
	require.NotNil(t, row.ResolverID)
	assert.Equal(t, "mgr-1", *row.ResolverID)

	back := row.toEntity()
	assert.Equal(t, i.IssueType, back.IssueType)
	assert.Equal(t, i.ReporterID, back.ReporterID)
	assert.Equal(t, i.ResolvedBy, back.ResolvedBy)
}

func TestIssueRow_PrioridadPorDefecto(t *testing.T) {
	got := issueRow{Title: "x"}.toEntity()
	assert.Equal(t, entity.PriorityMedium, got.Priority)
}

func TestUserRow_HashEnColumnaPassword(t *testing.T) {
	u := &entity.User{ID: "u-1", Email: "a@b.co", PasswordHash: "$2a$10$hash", Role: entity.RoleAdmin, Status: entity.UserStatusActive}
	row := userFromEntity(u)
	assert.Equal(t, "$2a$10$hash", row.PasswordHash)
	assert.Equal(t, u, row.toEntity())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "ref_items", materialRow{}.TableName())
	assert.Equal(t, "issues", issueRow{}.TableName())
	assert.Equal(t, "users", userRow{}.TableName())
	assert.Equal(t, "device_readings", deviceReadingRow{}.TableName())
	assert.Equal(t, "rfid_logs", rfidLogRow{}.TableName())
	assert.Equal(t, "status_changes", statusChangeRow{}.TableName())
}
