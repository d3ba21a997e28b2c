package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

type weightRecordRepo struct{ s *Store }

func (r *weightRecordRepo) Create(ctx context.Context, rec *entity.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec.ID = r.s.next("weights")
	r.s.st.records[rec.ID] = *rec
	return nil
}

func (r *weightRecordRepo) GetByID(ctx context.Context, id int64) (*entity.WeightRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.st.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *weightRecordRepo) List(ctx context.Context, f entity.WeightRecordFilter) ([]*entity.WeightRecord, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.WeightRecord
	for _, rec := range r.s.st.records {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.RecordedBy != "" && rec.RecordedBy != f.RecordedBy {
			continue
		}
		if f.MaterialID != nil && (rec.MaterialID == nil || *rec.MaterialID != *f.MaterialID) {
			continue
		}
		rec := rec
		all = append(all, &rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	from, to := paginate(len(all), f.Limit, f.Offset)
	return all[from:to], len(all), nil
}

func (r *weightRecordRepo) UpdateStatus(ctx context.Context, rec *entity.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateRecordStatusLocked(rec)
}

// Delete borra el registro y sus lecturas RFID y desliga las incidencias que lo citaban,
// igual que las FK del esquema Postgres.
func (r *weightRecordRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteRecordLocked(id)
	return nil
}

func (s *Store) updateRecordStatusLocked(rec *entity.WeightRecord) error {
	cur, ok := s.st.records[rec.ID]
	if !ok {
		return fmt.Errorf("update weight record %d: no existe", rec.ID)
	}
	cur.Status = rec.Status
	cur.ApprovedBy = rec.ApprovedBy
	cur.ApprovedAt = rec.ApprovedAt
	cur.Resolution = rec.Resolution
	cur.UpdatedAt = rec.UpdatedAt
	s.st.records[rec.ID] = cur
	return nil
}

// removed lo que quitó un borrado de registro.
type removed struct {
	record   entity.WeightRecord
	found    bool
	rfid     []entity.RFIDLog
	unlinked []int64 // incidencias cuyo record_id quedó en nil
}

func (s *Store) deleteRecordLocked(id int64) removed {
	rec, ok := s.st.records[id]
	if !ok {
		return removed{}
	}
	rm := removed{record: rec, found: true}
	delete(s.st.records, id)
	for lid, l := range s.st.rfid {
		if l.RecordID == id {
			rm.rfid = append(rm.rfid, l)
			delete(s.st.rfid, lid)
		}
	}
	for iid, i := range s.st.issues {
		if i.RecordID != nil && *i.RecordID == id {
			i.RecordID = nil
			s.st.issues[iid] = i
			rm.unlinked = append(rm.unlinked, iid)
		}
	}
	return rm
}

func (r *weightRecordRepo) Summary(ctx context.Context, recordedBy string, todayStart time.Time, topN int) (*repository.RecordSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := &repository.RecordSummary{ApprovedWeight: decimal.Zero}
	byMaterial := make(map[string]*repository.MaterialWeight)
	for _, rec := range r.s.st.records {
		if recordedBy != "" && rec.RecordedBy != recordedBy {
			continue
		}
		switch rec.Status {
		case entity.RecordStatusPending:
			out.Pending++
		case entity.RecordStatusApproved:
			out.Approved++
			out.ApprovedWeight = out.ApprovedWeight.Add(rec.TotalWeight)
		case entity.RecordStatusRejected:
			out.Rejected++
		}
		if !rec.CreatedAt.Before(todayStart) {
			out.TodayCount++
		}
		if rec.Status == entity.RecordStatusRejected {
			continue
		}
		mw, ok := byMaterial[rec.ItemName]
		if !ok {
			mw = &repository.MaterialWeight{MaterialName: rec.ItemName, TotalWeight: decimal.Zero}
			byMaterial[rec.ItemName] = mw
		}
		mw.TotalWeight = mw.TotalWeight.Add(rec.TotalWeight)
		mw.Records++
	}
	for _, mw := range byMaterial {
		out.TopMaterials = append(out.TopMaterials, *mw)
	}
	sort.Slice(out.TopMaterials, func(i, j int) bool {
		c := out.TopMaterials[i].TotalWeight.Cmp(out.TopMaterials[j].TotalWeight)
		if c == 0 {
			return out.TopMaterials[i].MaterialName < out.TopMaterials[j].MaterialName
		}
		return c > 0
	})
	if topN > 0 && len(out.TopMaterials) > topN {
		out.TopMaterials = out.TopMaterials[:topN]
	}
	return out, nil
}
