package memory

import (
	"context"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

// txWeightRecordRepo repo de pesajes ligado a una transacción. Cada escritura deja su
// operación inversa en undo.
type txWeightRecordRepo struct {
	weightRecordRepo
	undo []func(st *state)
}

func (r *txWeightRecordRepo) Create(ctx context.Context, rec *entity.WeightRecord) error {
	if err := r.weightRecordRepo.Create(ctx, rec); err != nil {
		return err
	}
	id := rec.ID
	r.undo = append(r.undo, func(st *state) { delete(st.records, id) })
	return nil
}

func (r *txWeightRecordRepo) UpdateStatus(ctx context.Context, rec *entity.WeightRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.st.records[rec.ID]
	if err := r.s.updateRecordStatusLocked(rec); err != nil {
		return err
	}
	if ok {
		r.undo = append(r.undo, func(st *state) {
			if _, still := st.records[prev.ID]; still {
				st.records[prev.ID] = prev
			}
		})
	}
	return nil
}

func (r *txWeightRecordRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rm := r.s.deleteRecordLocked(id)
	if !rm.found {
		return nil
	}
	r.undo = append(r.undo, func(st *state) {
		st.records[rm.record.ID] = rm.record
		for _, l := range rm.rfid {
			st.rfid[l.ID] = l
		}
		for _, issueID := range rm.unlinked {
			i, ok := st.issues[issueID]
			if !ok || i.RecordID != nil {
				continue
			}
			recID := rm.record.ID
			i.RecordID = &recID
			st.issues[issueID] = i
		}
	})
	return nil
}

func (r *txWeightRecordRepo) rollback() {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.undo) - 1; i >= 0; i-- {
		r.undo[i](&r.s.st)
	}
	r.undo = nil
}
