package legacy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*materialRepo)(nil)
	_ repository.UserRepository     = (*userRepo)(nil)
)

type materialRepo struct {
	db *gorm.DB
}

// NewMaterialRepository repositorio de materiales (ref_items).
func NewMaterialRepository(db *gorm.DB) repository.MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, m *entity.Material) error {
	row := materialFromEntity(m)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	m.ID = row.ID
	return nil
}

func (r *materialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *materialRepo) GetByName(ctx context.Context, name string) (*entity.Material, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *materialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	q := r.db.WithContext(ctx).Order("name").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []materialRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	out := make([]*entity.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *materialRepo) Update(ctx context.Context, m *entity.Material) error {
	err := r.db.WithContext(ctx).Model(&materialRow{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":            m.Name,
		"standard_weight": m.StandardWeight,
		"price_per_unit":  m.PricePerUnit,
		"updated_at":      m.UpdatedAt,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// Delete borra el material y desliga los registros (sin FK en el esquema heredado).
func (r *materialRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&weightRow{}).Where("item_id = ?", id).Update("item_id", nil).Error; err != nil {
			return fmt.Errorf("unlink weight records: %w", err)
		}
		if err := tx.Delete(&materialRow{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete material: %w", err)
		}
		return nil
	})
}

func (r *materialRepo) findOne(ctx context.Context, cond string, arg interface{}) (*entity.Material, error) {
	var row materialRow
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return row.toEntity(), nil
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository repositorio de usuarios (la columna heredada del hash es password).
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	row := userFromEntity(u)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	q := r.db.WithContext(ctx).Order("email").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []userRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *userRepo) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []userRow
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("user names: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

func (r *userRepo) findOne(ctx context.Context, cond string, arg interface{}) (*entity.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toEntity(), nil
}
