package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
)

const dateLayout = "2006-01-02"

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, name, color, start_date, target_date, status, archived_at, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. Passing the DBTX
// from UnitOfWork.WithinTx yields a tx-scoped repository.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Color,
		zeroTimeToValue(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetDate, dateLayout),
		string(p.Status),
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY name, id`
	if !includeArchived {
		query = `SELECT ` + projectColumns + ` FROM projects
			WHERE status != 'archived' AND archived_at IS NULL
			ORDER BY name, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()
	return r.scanProjects(rows)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, color = ?, start_date = ?, target_date = ?,
		status = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Color,
		zeroTimeToValue(p.StartDate, dateLayout),
		nullableTimeToString(p.TargetDate, dateLayout),
		string(p.Status),
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE projects SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Unarchive(ctx context.Context, id string) error {
	query := `UPDATE projects SET status = 'active', archived_at = NULL, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("unarchiving project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var statusStr string
	var startDateStr, targetDateStr, archivedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Color, &startDateStr, &targetDateStr,
		&statusStr, &archivedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	return r.populateProject(&p, statusStr, startDateStr, targetDateStr, archivedAtStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteProjectRepo) scanProjects(rows *sql.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var statusStr string
		var startDateStr, targetDateStr, archivedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&p.ID, &p.Name, &p.Color, &startDateStr, &targetDateStr,
			&statusStr, &archivedAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}

		populated, err := r.populateProject(&p, statusStr, startDateStr, targetDateStr, archivedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		projects = append(projects, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) populateProject(p *domain.Project, statusStr string,
	startDateStr, targetDateStr, archivedAtStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.Project, error) {

	p.Status = domain.ProjectStatus(statusStr)
	if ts := parseNullableTime(startDateStr, dateLayout); ts != nil {
		p.StartDate = *ts
	}
	p.TargetDate = parseNullableTime(targetDateStr, dateLayout)
	p.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}
