package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that concurrent List calls do
// not block or corrupt data while writes are in progress. SQLite WAL mode
// allows concurrent readers with a single writer, which is the normal
// operating mode here: a single-user TUI redrawing views while edits commit.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	taskRepo := NewSQLiteTaskRepo(database)

	var wg sync.WaitGroup

	// Writer goroutine: create 20 tasks sequentially.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			task := testutil.NewTestTask(fmt.Sprintf("Item-%d", i),
				testutil.WithDuration(30),
				testutil.WithScheduledStart(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Add(time.Duration(i)*30*time.Minute)),
			)
			if err := taskRepo.Create(ctx, task); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: repeatedly list while writes happen.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tasks, err := taskRepo.List(ctx, false)
				if err != nil {
					t.Errorf("reader %d: list tasks: %v", reader, err)
					return
				}
				// Lists should be a consistent snapshot (not half-written).
				for _, task := range tasks {
					if task.ID == "" || task.Title == "" {
						t.Errorf("reader %d: saw partial row", reader)
						return
					}
				}
			}
		}(r)
	}

	wg.Wait()

	final, err := taskRepo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, final, 20, "all writes should land")
}

// TestConcurrentAccess_ParallelHabitCheckins exercises the UNIQUE(habit_id, day)
// constraint under contention: many goroutines race to log the same day and
// exactly one insert wins.
func TestConcurrentAccess_ParallelHabitCheckins(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	habitRepo := NewSQLiteHabitRepo(database)
	habit := testutil.NewTestHabit("Contended")
	require.NoError(t, habitRepo.Create(ctx, habit))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	successes := make(chan struct{}, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := habitRepo.CreateLog(ctx, testutil.NewTestHabitLog(habit.ID, day)); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count, "exactly one check-in should win the race")

	logs, err := habitRepo.ListLogsByHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
