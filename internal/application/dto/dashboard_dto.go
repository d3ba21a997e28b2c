package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordCountsDTO conteo de registros por estado.
type RecordCountsDTO struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// MaterialWeightDTO peso acumulado por material.
type MaterialWeightDTO struct {
	MaterialName string          `json:"material_name"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	Records      int             `json:"records"`
}

// DashboardSummaryDTO resumen del dashboard. Scope = "all" (admin/manager) u "own" (operador).
type DashboardSummaryDTO struct {
	Scope          string              `json:"scope"`
	Records        RecordCountsDTO     `json:"records"`
	ApprovedWeight decimal.Decimal     `json:"approved_weight"`
	TodayRecords   int                 `json:"today_records"`
	OpenIssues     int                 `json:"open_issues"`
	TopMaterials   []MaterialWeightDTO `json:"top_materials"`
	GeneratedAt    time.Time           `json:"generated_at"`
}
