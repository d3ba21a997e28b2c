package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/pkg/validator"
)

type sample struct {
	Name   string          `json:"name" validate:"required,max=10"`
	Weight decimal.Decimal `json:"weight" validate:"gt=0"`
	Limit  *int            `json:"limit" validate:"omitempty,min=1"`
}

func TestValidateStruct_Valido(t *testing.T) {
	assert.Nil(t, validator.ValidateStruct(sample{Name: "cobre", Weight: decimal.NewFromFloat(1.5)}))
}

func TestValidateStruct_ReportaCamposPorNombreJSON(t *testing.T) {
	zero := 0
	errs := validator.ValidateStruct(sample{Weight: decimal.Zero, Limit: &zero})
	require.Len(t, errs, 3)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "gt", fields["weight"])
	assert.Equal(t, "min", fields["limit"])
}

func TestValidateStruct_DecimalNegativo(t *testing.T) {
	errs := validator.ValidateStruct(sample{Name: "x", Weight: decimal.NewFromInt(-3)})
	require.Len(t, errs, 1)
	assert.Equal(t, "weight", errs[0].Field)
}
