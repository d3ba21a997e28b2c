package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material de referencia.
type CreateMaterialRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	StandardWeight decimal.Decimal `json:"standard_weight" validate:"gte=0"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit" validate:"gte=0"`
}

// UpdateMaterialRequest actualización parcial de un material.
type UpdateMaterialRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	StandardWeight *decimal.Decimal `json:"standard_weight" validate:"omitempty,gte=0"`
	PricePerUnit   *decimal.Decimal `json:"price_per_unit" validate:"omitempty,gte=0"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	StandardWeight decimal.Decimal `json:"standard_weight"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	Unit           string          `json:"unit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
