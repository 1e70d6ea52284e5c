package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks. completed_at
// sits at the end because it arrived in a later migration.
const taskColumns = `id, title, notes, project_id, milestone_id, priority, status,
		due_date, scheduled_start, duration_min, archived_at, created_at, updated_at,
		completed_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.title, t.notes, t.project_id, t.milestone_id, t.priority, t.status,
		t.due_date, t.scheduled_start, t.duration_min, t.archived_at, t.created_at, t.updated_at,
		t.completed_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo. Passing the DBTX from
// UnitOfWork.WithinTx yields a tx-scoped repository.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Notes,
		nullableStrToValue(t.ProjectID),
		nullableStrToValue(t.MilestoneID),
		string(t.Priority),
		string(t.Status),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.ScheduledStart, time.RFC3339),
		t.DurationMin,
		nullableTimeToString(t.ArchivedAt, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTask(row)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`
	if !includeArchived {
		query = `SELECT ` + taskColumns + ` FROM tasks
			WHERE archived_at IS NULL
			ORDER BY created_at, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE project_id = ? AND archived_at IS NULL
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE milestone_id = ? AND archived_at IS NULL
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by milestone: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

// ListSchedulable returns the tasks the calendar views draw from:
// everything not archived whose project, if any, is not archived either.
// Done tasks stay in; the views render them as completed.
func (r *SQLiteTaskRepo) ListSchedulable(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsAliased + `
		FROM tasks t
		LEFT JOIN projects p ON t.project_id = p.id
		WHERE t.archived_at IS NULL
		  AND (t.project_id IS NULL OR (p.status != 'archived' AND p.archived_at IS NULL))
		ORDER BY t.created_at, t.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedulable tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE scheduled_start >= ? AND scheduled_start < ? AND archived_at IS NULL
		ORDER BY scheduled_start, id`
	rows, err := r.db.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing scheduled tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, notes = ?, project_id = ?, milestone_id = ?,
		priority = ?, status = ?, due_date = ?, scheduled_start = ?, duration_min = ?,
		archived_at = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Notes,
		nullableStrToValue(t.ProjectID),
		nullableStrToValue(t.MilestoneID),
		string(t.Priority),
		string(t.Status),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.ScheduledStart, time.RFC3339),
		t.DurationMin,
		nullableTimeToString(t.ArchivedAt, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE tasks SET archived_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var priorityStr, statusStr string
	var projectIDStr, milestoneIDStr sql.NullString
	var dueDateStr, scheduledStartStr, archivedAtStr, completedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.Title, &t.Notes, &projectIDStr, &milestoneIDStr,
		&priorityStr, &statusStr, &dueDateStr, &scheduledStartStr,
		&t.DurationMin, &archivedAtStr, &createdAtStr, &updatedAtStr,
		&completedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	return r.populateTask(&t, priorityStr, statusStr, projectIDStr, milestoneIDStr,
		dueDateStr, scheduledStartStr, archivedAtStr, completedAtStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var priorityStr, statusStr string
		var projectIDStr, milestoneIDStr sql.NullString
		var dueDateStr, scheduledStartStr, archivedAtStr, completedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&t.ID, &t.Title, &t.Notes, &projectIDStr, &milestoneIDStr,
			&priorityStr, &statusStr, &dueDateStr, &scheduledStartStr,
			&t.DurationMin, &archivedAtStr, &createdAtStr, &updatedAtStr,
			&completedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		populated, err := r.populateTask(&t, priorityStr, statusStr, projectIDStr, milestoneIDStr,
			dueDateStr, scheduledStartStr, archivedAtStr, completedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) populateTask(t *domain.Task, priorityStr, statusStr string,
	projectIDStr, milestoneIDStr, dueDateStr, scheduledStartStr, archivedAtStr, completedAtStr sql.NullString,
	createdAtStr, updatedAtStr string) (*domain.Task, error) {

	t.ProjectID = projectIDStr.String
	t.MilestoneID = milestoneIDStr.String
	t.Priority = domain.Priority(priorityStr)
	t.Status = domain.TaskStatus(statusStr)
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	t.ScheduledStart = parseNullableTime(scheduledStartStr, time.RFC3339)
	t.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)
	t.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}
