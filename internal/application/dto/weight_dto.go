package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWeightRequest entrada para registrar un peso de un solo material.
type CreateWeightRequest struct {
	MaterialID  int64           `json:"material_id" validate:"required,gt=0"`
	Weight      decimal.Decimal `json:"weight" validate:"gt=0"`
	BatchNumber string          `json:"batch_number" validate:"max=100"`
	Source      string          `json:"source" validate:"max=200"`
	Destination string          `json:"destination" validate:"max=200"`
	Notes       string          `json:"notes" validate:"max=1000"`
}

// MaterialEntry una línea de la carga multi-material.
type MaterialEntry struct {
	MaterialID int64           `json:"materialId" validate:"required,gt=0"`
	Weight     decimal.Decimal `json:"weight" validate:"gt=0"`
	Notes      string          `json:"notes" validate:"max=1000"`
}

// MultiMaterialRequest entrada de POST /api/weights/multi-material.
// batch_number, source y destination se comparten entre todas las líneas.
type MultiMaterialRequest struct {
	MaterialEntries []MaterialEntry `json:"material_entries" validate:"required,min=1,max=100,dive"`
	BatchNumber     string          `json:"batch_number" validate:"max=100"`
	Source          string          `json:"source" validate:"max=200"`
	Destination     string          `json:"destination" validate:"max=200"`
}

// CreatedRecordDTO resumen de un registro creado en la carga multi-material.
type CreatedRecordDTO struct {
	ID         int64           `json:"id"`
	MaterialID int64           `json:"material_id"`
	ItemName   string          `json:"item_name"`
	Weight     decimal.Decimal `json:"weight"`
	Status     string          `json:"status"`
}

// MultiMaterialResponse salida de la carga multi-material.
// TotalWeight es la suma de los pesos de entrada (no se relee de la DB).
type MultiMaterialResponse struct {
	Records     []CreatedRecordDTO `json:"records"`
	TotalWeight decimal.Decimal    `json:"total_weight"`
	Count       int                `json:"count"`
	BatchNumber string             `json:"batch_number"`
}

// UpdateRecordStatusRequest entrada para aprobar, rechazar o devolver a pendiente.
type UpdateRecordStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved rejected"`
	Resolution *string `json:"resolution" validate:"omitempty,max=1000"`
}

// WeightRecordResponse salida de un registro de peso.
type WeightRecordResponse struct {
	ID          int64           `json:"id"`
	MaterialID  *int64          `json:"material_id"`
	ItemName    string          `json:"item_name"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	Unit        string          `json:"unit"`
	BatchNumber string          `json:"batch_number"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Notes       string          `json:"notes"`
	Status      string          `json:"status"`
	ApprovedBy  *string         `json:"approved_by"`
	ApprovedAt  *time.Time      `json:"approved_at"`
	Resolution  *string         `json:"resolution"`
	RecordedBy  string          `json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WeightRecordListResponse lista paginada de registros.
type WeightRecordListResponse struct {
	Items []WeightRecordResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// StatusChangeResponse una fila del historial de estados.
type StatusChangeResponse struct {
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
