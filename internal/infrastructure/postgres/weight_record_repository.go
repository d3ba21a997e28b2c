package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var _ repository.WeightRecordRepository = (*WeightRecordRepo)(nil)

const weightRecordColumns = `id, material_id, item_name, total_weight, unit, batch_number, source, destination,
	notes, status, approved_by, approved_at, resolution, recorded_by, created_at, updated_at`

// WeightRecordRepo implementación de WeightRecordRepository sobre PostgreSQL (tabla weight_records).
type WeightRecordRepo struct {
	db Querier
}

// NewWeightRecordRepository construye el repositorio. db puede ser el pool o una tx.
func NewWeightRecordRepository(db Querier) *WeightRecordRepo {
	return &WeightRecordRepo{db: db}
}

// Create inserta el registro y completa r.ID.
func (r *WeightRecordRepo) Create(ctx context.Context, rec *entity.WeightRecord) error {
	query := `
		INSERT INTO weight_records (material_id, item_name, total_weight, unit, batch_number, source, destination,
			notes, status, approved_by, approved_at, resolution, recorded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		rec.MaterialID, rec.ItemName, rec.TotalWeight, rec.Unit, rec.BatchNumber, rec.Source, rec.Destination,
		rec.Notes, rec.Status, rec.ApprovedBy, rec.ApprovedAt, rec.Resolution, rec.RecordedBy, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert weight record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro; nil, nil si no existe.
func (r *WeightRecordRepo) GetByID(ctx context.Context, id int64) (*entity.WeightRecord, error) {
	rec, err := scanWeightRecord(r.db.QueryRow(ctx, `SELECT `+weightRecordColumns+` FROM weight_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get weight record: %w", err)
	}
	return rec, nil
}

// List filtra por igualdad y ordena por created_at DESC. El total se calcula con COUNT(*) OVER().
func (r *WeightRecordRepo) List(ctx context.Context, f entity.WeightRecordFilter) ([]*entity.WeightRecord, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.RecordedBy != "" {
		add("recorded_by = $%d", f.RecordedBy)
	}
	if f.MaterialID != nil {
		add("material_id = $%d", *f.MaterialID)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limitOrAll(f.Limit), f.Offset)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM weight_records %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, weightRecordColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list weight records: %w", err)
	}
	defer rows.Close()

	var (
		out   []*entity.WeightRecord
		total int
	)
	for rows.Next() {
		var rec entity.WeightRecord
		dest := append(weightRecordDest(&rec), &total)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan weight record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list weight records: %w", err)
	}
	if len(out) == 0 && f.Offset > 0 {
		// Página fuera de rango: COUNT(*) OVER() no trae filas, se cuenta aparte.
		countQuery := "SELECT COUNT(*) FROM weight_records " + where
		if err := r.db.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count weight records: %w", err)
		}
	}
	return out, total, nil
}

// UpdateStatus persiste solo los campos del flujo de aprobación.
func (r *WeightRecordRepo) UpdateStatus(ctx context.Context, rec *entity.WeightRecord) error {
	query := `
		UPDATE weight_records
		SET status = $2, approved_by = $3, approved_at = $4, resolution = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, rec.ID, rec.Status, rec.ApprovedBy, rec.ApprovedAt, rec.Resolution, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update weight record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update weight record status: id %d sin filas", rec.ID)
	}
	return nil
}

// Delete elimina el registro. Las lecturas RFID asociadas caen en cascada.
func (r *WeightRecordRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM weight_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete weight record: %w", err)
	}
	return nil
}

// Summary agrega conteos por estado y el top de materiales (excluye rechazados) en dos consultas.
func (r *WeightRecordRepo) Summary(ctx context.Context, recordedBy string, todayStart time.Time, topN int) (*repository.RecordSummary, error) {
	out := &repository.RecordSummary{}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COALESCE(SUM(total_weight) FILTER (WHERE status = 'approved'), 0),
			COUNT(*) FILTER (WHERE created_at >= $2)
		FROM weight_records
		WHERE ($1 = '' OR recorded_by = $1)`
	err := r.db.QueryRow(ctx, query, recordedBy, todayStart).Scan(
		&out.Pending, &out.Approved, &out.Rejected, &out.ApprovedWeight, &out.TodayCount,
	)
	if err != nil {
		return nil, fmt.Errorf("weight summary: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT item_name, SUM(total_weight) AS total, COUNT(*)
		FROM weight_records
		WHERE status <> 'rejected' AND ($1 = '' OR recorded_by = $1)
		GROUP BY item_name
		ORDER BY total DESC, item_name
		LIMIT $2`, recordedBy, topN)
	if err != nil {
		return nil, fmt.Errorf("top materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mw repository.MaterialWeight
		var total decimal.Decimal
		if err := rows.Scan(&mw.MaterialName, &total, &mw.Records); err != nil {
			return nil, fmt.Errorf("scan top material: %w", err)
		}
		mw.TotalWeight = total
		out.TopMaterials = append(out.TopMaterials, mw)
	}
	return out, rows.Err()
}

func weightRecordDest(rec *entity.WeightRecord) []any {
	return []any{
		&rec.ID, &rec.MaterialID, &rec.ItemName, &rec.TotalWeight, &rec.Unit, &rec.BatchNumber, &rec.Source,
		&rec.Destination, &rec.Notes, &rec.Status, &rec.ApprovedBy, &rec.ApprovedAt, &rec.Resolution,
		&rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt,
	}
}

func scanWeightRecord(row pgx.Row) (*entity.WeightRecord, error) {
	var rec entity.WeightRecord
	if err := row.Scan(weightRecordDest(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}
