package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, name, standard_weight, price_per_unit, unit, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre la tabla ref_items.
type MaterialRepo struct {
	db Querier
}

// NewMaterialRepository construye el repositorio.
func NewMaterialRepository(db Querier) *MaterialRepo {
	return &MaterialRepo{db: db}
}

// Create inserta un material; ErrDuplicate si el nombre ya existe.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ref_items (name, standard_weight, price_per_unit, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		m.Name, m.StandardWeight, m.PricePerUnit, m.Unit, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material; nil, nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM ref_items WHERE id = $1`, id)
}

// GetByName busca por nombre exacto.
func (r *MaterialRepo) GetByName(ctx context.Context, name string) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM ref_items WHERE name = $1`, name)
}

// List lista materiales ordenados por nombre.
func (r *MaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	rows, err := r.db.Query(ctx, `SELECT `+materialColumns+` FROM ref_items ORDER BY name LIMIT $1 OFFSET $2`, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update persiste nombre, peso estándar y precio.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	_, err := r.db.Exec(ctx, `
		UPDATE ref_items SET name = $2, standard_weight = $3, price_per_unit = $4, updated_at = $5
		WHERE id = $1`,
		m.ID, m.Name, m.StandardWeight, m.PricePerUnit, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// Delete elimina el material; la FK de weight_records es ON DELETE SET NULL.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ref_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

func (r *MaterialRepo) findOne(ctx context.Context, query string, arg any) (*entity.Material, error) {
	m, err := scanMaterial(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.Name, &m.StandardWeight, &m.PricePerUnit, &m.Unit, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
