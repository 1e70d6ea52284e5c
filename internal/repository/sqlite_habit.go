package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
)

// habitColumns is the canonical SELECT column list for habits. paused sits
// at the end because it arrived in a later migration.
const habitColumns = `id, title, recurrence, weekday, preferred_hour, preferred_minute,
		duration_min, created_at, updated_at, paused`

// SQLiteHabitRepo implements HabitRepo using a SQLite database. It also
// owns the habit_logs table since logs never exist apart from a habit.
type SQLiteHabitRepo struct {
	db db.DBTX
}

func NewSQLiteHabitRepo(conn db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: conn}
}

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	query := `INSERT INTO habits (` + habitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Title,
		string(h.Recurrence),
		int(h.Weekday),
		h.PreferredHour,
		h.PreferredMinute,
		h.DurationMin,
		h.CreatedAt.Format(time.RFC3339),
		h.UpdatedAt.Format(time.RFC3339),
		boolToInt(h.Paused),
	)
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanHabit(row)
}

func (r *SQLiteHabitRepo) List(ctx context.Context, includePaused bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits ORDER BY created_at, id`
	if !includePaused {
		query = `SELECT ` + habitColumns + ` FROM habits WHERE paused = 0 ORDER BY created_at, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return r.scanHabits(rows)
}

func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	query := `UPDATE habits SET title = ?, recurrence = ?, weekday = ?,
		preferred_hour = ?, preferred_minute = ?, duration_min = ?, paused = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		h.Title,
		string(h.Recurrence),
		int(h.Weekday),
		h.PreferredHour,
		h.PreferredMinute,
		h.DurationMin,
		boolToInt(h.Paused),
		h.UpdatedAt.Format(time.RFC3339),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM habits WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) CreateLog(ctx context.Context, l *domain.HabitLog) error {
	query := `INSERT INTO habit_logs (id, habit_id, day, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.HabitID,
		l.Day.Format(dateLayout),
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting habit log: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetLog(ctx context.Context, habitID string, day time.Time) (*domain.HabitLog, error) {
	query := `SELECT id, habit_id, day, created_at FROM habit_logs WHERE habit_id = ? AND day = ?`
	row := r.db.QueryRowContext(ctx, query, habitID, day.Format(dateLayout))
	return r.scanHabitLog(row)
}

func (r *SQLiteHabitRepo) DeleteLog(ctx context.Context, habitID string, day time.Time) error {
	query := `DELETE FROM habit_logs WHERE habit_id = ? AND day = ?`
	_, err := r.db.ExecContext(ctx, query, habitID, day.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("deleting habit log: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) ListLogsByHabit(ctx context.Context, habitID string) ([]*domain.HabitLog, error) {
	query := `SELECT id, habit_id, day, created_at FROM habit_logs WHERE habit_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, habitID)
	if err != nil {
		return nil, fmt.Errorf("listing habit logs: %w", err)
	}
	defer rows.Close()
	return r.scanHabitLogs(rows)
}

func (r *SQLiteHabitRepo) ListLogsBetween(ctx context.Context, from, to time.Time) ([]*domain.HabitLog, error) {
	query := `SELECT id, habit_id, day, created_at FROM habit_logs
		WHERE day >= ? AND day <= ? ORDER BY day, habit_id`
	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing habit logs in range: %w", err)
	}
	defer rows.Close()
	return r.scanHabitLogs(rows)
}

func (r *SQLiteHabitRepo) scanHabit(row *sql.Row) (*domain.Habit, error) {
	var h domain.Habit
	var recurrenceStr string
	var weekdayInt, pausedInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&h.ID, &h.Title, &recurrenceStr, &weekdayInt, &h.PreferredHour,
		&h.PreferredMinute, &h.DurationMin, &createdAtStr, &updatedAtStr, &pausedInt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}

	return r.populateHabit(&h, recurrenceStr, weekdayInt, pausedInt, createdAtStr, updatedAtStr)
}

func (r *SQLiteHabitRepo) scanHabits(rows *sql.Rows) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	for rows.Next() {
		var h domain.Habit
		var recurrenceStr string
		var weekdayInt, pausedInt int
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&h.ID, &h.Title, &recurrenceStr, &weekdayInt, &h.PreferredHour,
			&h.PreferredMinute, &h.DurationMin, &createdAtStr, &updatedAtStr, &pausedInt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning habit row: %w", err)
		}

		populated, err := r.populateHabit(&h, recurrenceStr, weekdayInt, pausedInt, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		habits = append(habits, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}
	return habits, nil
}

func (r *SQLiteHabitRepo) populateHabit(h *domain.Habit, recurrenceStr string,
	weekdayInt, pausedInt int, createdAtStr, updatedAtStr string) (*domain.Habit, error) {

	h.Recurrence = domain.Recurrence(recurrenceStr)
	h.Weekday = time.Weekday(weekdayInt)
	h.Paused = intToBool(pausedInt)

	var err error
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return h, nil
}

func (r *SQLiteHabitRepo) scanHabitLog(row *sql.Row) (*domain.HabitLog, error) {
	var l domain.HabitLog
	var dayStr, createdAtStr string

	err := row.Scan(&l.ID, &l.HabitID, &dayStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("habit log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning habit log: %w", err)
	}

	return r.populateHabitLog(&l, dayStr, createdAtStr)
}

func (r *SQLiteHabitRepo) scanHabitLogs(rows *sql.Rows) ([]*domain.HabitLog, error) {
	var logs []*domain.HabitLog
	for rows.Next() {
		var l domain.HabitLog
		var dayStr, createdAtStr string

		if err := rows.Scan(&l.ID, &l.HabitID, &dayStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning habit log row: %w", err)
		}

		populated, err := r.populateHabitLog(&l, dayStr, createdAtStr)
		if err != nil {
			return nil, err
		}
		logs = append(logs, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habit logs: %w", err)
	}
	return logs, nil
}

func (r *SQLiteHabitRepo) populateHabitLog(l *domain.HabitLog, dayStr, createdAtStr string) (*domain.HabitLog, error) {
	var err error
	l.Day, err = time.Parse(dateLayout, dayStr)
	if err != nil {
		return nil, fmt.Errorf("parsing day: %w", err)
	}
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return l, nil
}
