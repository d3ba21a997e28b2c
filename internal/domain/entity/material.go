package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material es el dato de referencia (ref_items) para los registros de peso.
type Material struct {
	ID             int64
	Name           string
	StandardWeight decimal.Decimal
	PricePerUnit   decimal.Decimal
	Unit           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
