package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación de un registro de peso.
const (
	RecordStatusPending  = "pending"
	RecordStatusApproved = "approved"
	RecordStatusRejected = "rejected"
)

// UnitKilogram unidad fija de todos los pesos.
const UnitKilogram = "kg"

// WeightRecord representa una medición de peso de material pendiente o revisada.
// ItemName se copia del material al insertar; no se recalcula si el material cambia.
type WeightRecord struct {
	ID          int64
	MaterialID  *int64
	ItemName    string
	TotalWeight decimal.Decimal
	Unit        string
	BatchNumber string
	Source      string
	Destination string
	Notes       string
	Status      string
	ApprovedBy  *string
	ApprovedAt  *time.Time
	Resolution  *string // nota del revisor
	RecordedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidRecordStatus valida un estado de registro.
func ValidRecordStatus(s string) bool {
	switch s {
	case RecordStatusPending, RecordStatusApproved, RecordStatusRejected:
		return true
	}
	return false
}

// WeightRecordFilter filtros de igualdad para listar registros. Campos vacíos no filtran.
type WeightRecordFilter struct {
	Status     string
	RecordedBy string
	MaterialID *int64
	Limit      int
	Offset     int
}
