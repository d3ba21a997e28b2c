package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

type issueRepo struct{ s *Store }

func (r *issueRepo) Create(ctx context.Context, i *entity.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i.ID = r.s.next("issues")
	cp := *i
	cp.ReporterName = ""
	r.s.st.issues[i.ID] = cp
	return nil
}

func (r *issueRepo) GetByID(ctx context.Context, id int64) (*entity.Issue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.st.issues[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *issueRepo) List(ctx context.Context, f entity.IssueFilter) ([]*entity.Issue, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Issue
	for _, i := range r.s.st.issues {
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		if f.ReporterID != "" && i.ReporterID != f.ReporterID {
			continue
		}
		if f.RecordID != nil && (i.RecordID == nil || *i.RecordID != *f.RecordID) {
			continue
		}
		i := i
		all = append(all, &i)
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].CreatedAt.Equal(all[b].CreatedAt) {
			return all[a].ID > all[b].ID
		}
		return all[a].CreatedAt.After(all[b].CreatedAt)
	})
	from, to := paginate(len(all), f.Limit, f.Offset)
	return all[from:to], len(all), nil
}

func (r *issueRepo) Update(ctx context.Context, i *entity.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.issues[i.ID]; !ok {
		return fmt.Errorf("update issue %d: no existe", i.ID)
	}
	cp := *i
	cp.ReporterName = ""
	r.s.st.issues[i.ID] = cp
	return nil
}

func (r *issueRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.issues, id)
	return nil
}

func (r *issueRepo) CountOpen(ctx context.Context, reporterID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, i := range r.s.st.issues {
		if i.Status == entity.IssueStatusResolved {
			continue
		}
		if reporterID != "" && i.ReporterID != reporterID {
			continue
		}
		n++
	}
	return n, nil
}
