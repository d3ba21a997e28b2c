// Package memory implementa los repositorios en memoria del proceso.
// Se usa en desarrollo local (DB_BACKEND=memory) y como doble de prueba.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

// state todas las tablas. Los valores se guardan por copia para que nadie fuera del store los mute.
type state struct {
	records   map[int64]entity.WeightRecord
	issues    map[int64]entity.Issue
	materials map[int64]entity.Material
	users     map[string]entity.User
	readings  map[string]entity.DeviceReading
	rfid      map[int64]entity.RFIDLog
	history   map[int64]entity.StatusChange
	seq       map[string]int64
}

func newState() state {
	return state{
		records:   make(map[int64]entity.WeightRecord),
		issues:    make(map[int64]entity.Issue),
		materials: make(map[int64]entity.Material),
		users:     make(map[string]entity.User),
		readings:  make(map[string]entity.DeviceReading),
		rfid:      make(map[int64]entity.RFIDLog),
		history:   make(map[int64]entity.StatusChange),
		seq:       make(map[string]int64),
	}
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa transacciones
	st   state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) next(table string) int64 {
	s.st.seq[table]++
	return s.st.seq[table]
}

// Repositorios devuelve cada puerto implementado por el store.
func (s *Store) WeightRecords() repository.WeightRecordRepository { return &weightRecordRepo{s} }
func (s *Store) Issues() repository.IssueRepository                { return &issueRepo{s} }
func (s *Store) Materials() repository.MaterialRepository          { return &materialRepo{s} }
func (s *Store) Users() repository.UserRepository                  { return &userRepo{s} }
func (s *Store) DeviceReadings() repository.DeviceReadingRepository {
	return &deviceReadingRepo{s}
}
func (s *Store) RFIDLogs() repository.RFIDLogRepository           { return &rfidLogRepo{s} }
func (s *Store) StatusChanges() repository.StatusChangeRepository { return &statusChangeRepo{s} }

// TxRunner implementa weighing.TxRunner con un registro de deshacer: si fn falla se
// revierten solo las escrituras hechas a través del repo de la transacción. Las escrituras
// concurrentes de otros repos no se tocan y los ids consumidos no se reutilizan.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// Run ejecuta fn; rollback si devuelve error o hace panic.
func (r *TxRunner) Run(ctx context.Context, fn func(records repository.WeightRecordRepository) error) (err error) {
	s := r.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err = ctx.Err(); err != nil {
		return err
	}
	tx := &txWeightRecordRepo{weightRecordRepo: weightRecordRepo{s}}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			panic(p)
		}
		if err != nil {
			tx.rollback()
		}
	}()
	return fn(tx)
}

func paginate(total, limit, offset int) (int, int) {
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}
