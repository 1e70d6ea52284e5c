package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCompletedAt(db); err != nil {
		return fmt.Errorf("backfilling task completion times: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT,
		target_date TEXT,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		start_date  TEXT,
		due_date    TEXT,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','done')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		project_id      TEXT REFERENCES projects(id) ON DELETE CASCADE,
		milestone_id    TEXT REFERENCES milestones(id) ON DELETE SET NULL,
		priority        TEXT NOT NULL DEFAULT 'medium'
		                CHECK(priority IN ('low','medium','high','urgent')),
		status          TEXT NOT NULL DEFAULT 'todo'
		                CHECK(status IN ('todo','in_progress','done')),
		due_date        TEXT,
		scheduled_start TEXT,
		duration_min    INTEGER NOT NULL DEFAULT 0,
		archived_at     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_milestone ON tasks(milestone_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_start)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date)`,

	`CREATE TABLE IF NOT EXISTS habits (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		recurrence       TEXT NOT NULL
		                 CHECK(recurrence IN ('daily','weekdays','weekly')),
		weekday          INTEGER NOT NULL DEFAULT 0,
		preferred_hour   INTEGER NOT NULL DEFAULT 9,
		preferred_minute INTEGER NOT NULL DEFAULT 0,
		duration_min     INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS habit_logs (
		id         TEXT PRIMARY KEY,
		habit_id   TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		day        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(habit_id, day)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habit_logs_habit ON habit_logs(habit_id)`,

	// Add color to projects for timeline bars
	`ALTER TABLE projects ADD COLUMN color TEXT NOT NULL DEFAULT ''`,

	// Add paused flag to habits
	`ALTER TABLE habits ADD COLUMN paused INTEGER NOT NULL DEFAULT 0`,

	// Add completed_at to tasks
	`ALTER TABLE tasks ADD COLUMN completed_at TEXT`,
}

// migrateBackfillCompletedAt stamps a completion time on tasks that were
// marked done before the completed_at column existed. updated_at is the
// closest approximation we have. Idempotent: only touches rows where
// completed_at is still NULL.
func migrateBackfillCompletedAt(db *sql.DB) error {
	ctx := context.Background()

	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = 'done' AND completed_at IS NULL`).Scan(&count)
	if err != nil {
		// Fresh DB where CREATE TABLE already includes the column and no
		// rows exist yet; nothing to backfill.
		if strings.Contains(err.Error(), "no such column") {
			return nil
		}
		return fmt.Errorf("checking tasks completed_at: %w", err)
	}
	if count == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE tasks SET completed_at = updated_at WHERE status = 'done' AND completed_at IS NULL`); err != nil {
		return fmt.Errorf("updating tasks completed_at: %w", err)
	}
	return nil
}
