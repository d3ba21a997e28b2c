package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/memory"
)

func TestMaterialCRUD(t *testing.T) {
	ctx := context.Background()
	uc := NewMaterialUseCase(memory.NewStore().Materials())

	m, err := uc.Create(ctx, dto.CreateMaterialRequest{Name: " Cobre ", StandardWeight: decimal.NewFromInt(25), PricePerUnit: decimal.RequireFromString("8.4")})
	require.NoError(t, err)
	assert.Equal(t, "Cobre", m.Name)
	assert.Equal(t, "kg", m.Unit)

	_, err = uc.Create(ctx, dto.CreateMaterialRequest{Name: "Cobre"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateMaterialRequest{Name: "Bronce"})
	require.NoError(t, err)

	name := "Bronce"
	_, err = uc.Update(ctx, m.ID, dto.UpdateMaterialRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	price := decimal.NewFromInt(9)
	updated, err := uc.Update(ctx, m.ID, dto.UpdateMaterialRequest{PricePerUnit: &price})
	require.NoError(t, err)
	assert.True(t, updated.PricePerUnit.Equal(price))

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bronce", list[0].Name)

	require.NoError(t, uc.Delete(ctx, m.ID))
	_, err = uc.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
}
