package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

// MaterialUseCase gestiona el catálogo de materiales de referencia.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// Create crea un material. El nombre es único (case-sensitive, sin espacios al borde).
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.StandardWeight.IsNegative() || in.PricePerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("materiales: buscar por nombre: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	m := &entity.Material{
		Name:           name,
		StandardWeight: in.StandardWeight,
		PricePerUnit:   in.PricePerUnit,
		Unit:           entity.UnitKilogram,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("materiales: crear: %w", err)
	}
	out := toMaterialResponse(m)
	return &out, nil
}

// GetByID obtiene un material.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("materiales: obtener: %w", err)
	}
	if m == nil {
		return nil, domain.ErrMaterialNotFound
	}
	out := toMaterialResponse(m)
	return &out, nil
}

// List lista materiales ordenados por nombre.
func (uc *MaterialUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.MaterialResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("materiales: listar: %w", err)
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMaterialResponse(m))
	}
	return out, nil
}

// Update actualiza parcialmente un material. Los registros ya creados conservan el nombre anterior.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("materiales: obtener: %w", err)
	}
	if m == nil {
		return nil, domain.ErrMaterialNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != m.Name {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("materiales: buscar por nombre: %w", err)
			}
			if other != nil && other.ID != m.ID {
				return nil, domain.ErrDuplicate
			}
		}
		m.Name = name
	}
	if in.StandardWeight != nil {
		if in.StandardWeight.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		m.StandardWeight = *in.StandardWeight
	}
	if in.PricePerUnit != nil {
		if in.PricePerUnit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		m.PricePerUnit = *in.PricePerUnit
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("materiales: actualizar: %w", err)
	}
	out := toMaterialResponse(m)
	return &out, nil
}

// Delete elimina un material. Los registros que lo referencian quedan con material_id NULL.
func (uc *MaterialUseCase) Delete(ctx context.Context, id int64) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("materiales: obtener: %w", err)
	}
	if m == nil {
		return domain.ErrMaterialNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("materiales: eliminar: %w", err)
	}
	return nil
}

func toMaterialResponse(m *entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:             m.ID,
		Name:           m.Name,
		StandardWeight: m.StandardWeight,
		PricePerUnit:   m.PricePerUnit,
		Unit:           m.Unit,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
