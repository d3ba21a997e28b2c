package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
)

var _ repository.IssueRepository = (*IssueRepo)(nil)

// Columnas canónicas; la migración renombra user_id → reporter_id y type → issue_type.
const issueColumns = `id, title, description, issue_type, priority, status, reporter_id,
	resolved_by, resolved_at, resolution, record_id, created_at, updated_at`

// IssueRepo implementación de IssueRepository sobre PostgreSQL.
type IssueRepo struct {
	db Querier
}

// NewIssueRepository construye el repositorio.
func NewIssueRepository(db Querier) *IssueRepo {
	return &IssueRepo{db: db}
}

// Create inserta la incidencia y completa i.ID.
func (r *IssueRepo) Create(ctx context.Context, i *entity.Issue) error {
	query := `
		INSERT INTO issues (title, description, issue_type, priority, status, reporter_id,
			resolved_by, resolved_at, resolution, record_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		i.Title, i.Description, i.IssueType, i.Priority, i.Status, i.ReporterID,
		i.ResolvedBy, i.ResolvedAt, i.Resolution, i.RecordID, i.CreatedAt, i.UpdatedAt,
	).Scan(&i.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

// GetByID obtiene una incidencia; nil, nil si no existe.
func (r *IssueRepo) GetByID(ctx context.Context, id int64) (*entity.Issue, error) {
	i, err := scanIssue(r.db.QueryRow(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return i, nil
}

// List filtra por igualdad y ordena por created_at DESC.
func (r *IssueRepo) List(ctx context.Context, f entity.IssueFilter) ([]*entity.Issue, int, error) {
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
	if f.ReporterID != "" {
		add("reporter_id = $%d", f.ReporterID)
	}
	if f.RecordID != nil {
		add("record_id = $%d", *f.RecordID)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM issues "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	args = append(args, limitOrAll(f.Limit), f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM issues %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		issueColumns, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()
	var out []*entity.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan issue: %w", err)
		}
		out = append(out, i)
	}
	return out, total, rows.Err()
}

// Update persiste contenido y campos de resolución.
func (r *IssueRepo) Update(ctx context.Context, i *entity.Issue) error {
	query := `
		UPDATE issues
		SET title = $2, description = $3, issue_type = $4, priority = $5, status = $6,
			resolved_by = $7, resolved_at = $8, resolution = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		i.ID, i.Title, i.Description, i.IssueType, i.Priority, i.Status,
		i.ResolvedBy, i.ResolvedAt, i.Resolution, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	return nil
}

// Delete elimina la incidencia.
func (r *IssueRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	return nil
}

// CountOpen cuenta las incidencias no resueltas.
func (r *IssueRepo) CountOpen(ctx context.Context, reporterID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM issues WHERE status <> 'resolved' AND ($1 = '' OR reporter_id = $1)`,
		reporterID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open issues: %w", err)
	}
	return n, nil
}

func scanIssue(row pgx.Row) (*entity.Issue, error) {
	var i entity.Issue
	err := row.Scan(&i.ID, &i.Title, &i.Description, &i.IssueType, &i.Priority, &i.Status, &i.ReporterID,
		&i.ResolvedBy, &i.ResolvedAt, &i.Resolution, &i.RecordID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
