package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
)

// milestoneColumns is the canonical SELECT column list for milestones.
const milestoneColumns = `id, project_id, title, order_index, start_date, due_date, status, created_at, updated_at`

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

func NewSQLiteMilestoneRepo(conn db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: conn}
}

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	query := `INSERT INTO milestones (` + milestoneColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Title,
		m.OrderIndex,
		nullableTimeToString(m.StartDate, dateLayout),
		nullableTimeToString(m.DueDate, dateLayout),
		string(m.Status),
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanMilestone(row)
}

func (r *SQLiteMilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones
		WHERE project_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones by project: %w", err)
	}
	defer rows.Close()
	return r.scanMilestones(rows)
}

func (r *SQLiteMilestoneRepo) List(ctx context.Context) ([]*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones ORDER BY project_id, order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()
	return r.scanMilestones(rows)
}

func (r *SQLiteMilestoneRepo) Update(ctx context.Context, m *domain.Milestone) error {
	query := `UPDATE milestones SET project_id = ?, title = ?, order_index = ?,
		start_date = ?, due_date = ?, status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		m.ProjectID,
		m.Title,
		m.OrderIndex,
		nullableTimeToString(m.StartDate, dateLayout),
		nullableTimeToString(m.DueDate, dateLayout),
		string(m.Status),
		m.UpdatedAt.Format(time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM milestones WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) scanMilestone(row *sql.Row) (*domain.Milestone, error) {
	var m domain.Milestone
	var statusStr string
	var startDateStr, dueDateStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.OrderIndex,
		&startDateStr, &dueDateStr, &statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("milestone: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning milestone: %w", err)
	}

	return r.populateMilestone(&m, statusStr, startDateStr, dueDateStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteMilestoneRepo) scanMilestones(rows *sql.Rows) ([]*domain.Milestone, error) {
	var milestones []*domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var statusStr string
		var startDateStr, dueDateStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&m.ID, &m.ProjectID, &m.Title, &m.OrderIndex,
			&startDateStr, &dueDateStr, &statusStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone row: %w", err)
		}

		populated, err := r.populateMilestone(&m, statusStr, startDateStr, dueDateStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return milestones, nil
}

func (r *SQLiteMilestoneRepo) populateMilestone(m *domain.Milestone, statusStr string,
	startDateStr, dueDateStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.Milestone, error) {

	m.Status = domain.MilestoneStatus(statusStr)
	m.StartDate = parseNullableTime(startDateStr, dateLayout)
	m.DueDate = parseNullableTime(dueDateStr, dateLayout)

	var err error
	m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	m.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return m, nil
}
