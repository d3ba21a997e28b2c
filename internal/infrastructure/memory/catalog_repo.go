package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

type materialRepo struct{ s *Store }

func (r *materialRepo) Create(ctx context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.materials {
		if other.Name == m.Name {
			return fmt.Errorf("insert material: %w", domain.ErrDuplicate)
		}
	}
	m.ID = r.s.next("materials")
	r.s.st.materials[m.ID] = *m
	return nil
}

func (r *materialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.st.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *materialRepo) GetByName(ctx context.Context, name string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.st.materials {
		if m.Name == name {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *materialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Material, 0, len(r.s.st.materials))
	for _, m := range r.s.st.materials {
		m := m
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	from, to := paginate(len(all), limit, offset)
	return all[from:to], nil
}

func (r *materialRepo) Update(ctx context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.materials[m.ID]; !ok {
		return fmt.Errorf("update material %d: no existe", m.ID)
	}
	r.s.st.materials[m.ID] = *m
	return nil
}

// Delete borra el material y deja material_id en NULL en los registros que lo usan.
func (r *materialRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.materials, id)
	for rid, rec := range r.s.st.records {
		if rec.MaterialID != nil && *rec.MaterialID == id {
			rec.MaterialID = nil
			r.s.st.records[rid] = rec
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return fmt.Errorf("insert user: %w", domain.ErrEmailAlreadyExists)
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.User, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	from, to := paginate(len(all), limit, offset)
	return all[from:to], nil
}

func (r *userRepo) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.s.st.users[id]; ok {
			out[id] = u.Name
		}
	}
	return out, nil
}
