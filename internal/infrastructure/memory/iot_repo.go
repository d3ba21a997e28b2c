package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

type deviceReadingRepo struct{ s *Store }

func (r *deviceReadingRepo) Upsert(ctx context.Context, d *entity.DeviceReading) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.readings[d.DeviceID] = *d
	return nil
}

func (r *deviceReadingRepo) Get(ctx context.Context, deviceID string) (*entity.DeviceReading, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.st.readings[deviceID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *deviceReadingRepo) List(ctx context.Context) ([]*entity.DeviceReading, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.DeviceReading, 0, len(r.s.st.readings))
	for _, d := range r.s.st.readings {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out, nil
}

type rfidLogRepo struct{ s *Store }

func (r *rfidLogRepo) Create(ctx context.Context, l *entity.RFIDLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.next("rfid_logs")
	r.s.st.rfid[l.ID] = *l
	return nil
}

func (r *rfidLogRepo) Latest(ctx context.Context) (*entity.RFIDLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *entity.RFIDLog
	for _, l := range r.s.st.rfid {
		l := l
		if latest == nil || l.ScannedAt.After(latest.ScannedAt) || (l.ScannedAt.Equal(latest.ScannedAt) && l.ID > latest.ID) {
			latest = &l
		}
	}
	return latest, nil
}

type statusChangeRepo struct{ s *Store }

func (r *statusChangeRepo) Create(ctx context.Context, c *entity.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.next("status_changes")
	r.s.st.history[c.ID] = *c
	return nil
}

func (r *statusChangeRepo) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*entity.StatusChange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StatusChange
	for _, c := range r.s.st.history {
		if c.EntityType == entityType && c.EntityID == entityID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
