package repository

import (
	"context"
	"testing"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	msRepo := NewSQLiteMilestoneRepo(db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projRepo.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Outline")
	require.NoError(t, msRepo.Create(ctx, ms))

	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	task := testutil.NewTestTask("Draft introduction",
		testutil.WithTaskProject(proj.ID),
		testutil.WithTaskMilestone(ms.ID),
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithDueDate(due),
		testutil.WithScheduledStart(start),
		testutil.WithDuration(90),
	)
	task.Notes = "Use the outline from last week"
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft introduction", fetched.Title)
	assert.Equal(t, "Use the outline from last week", fetched.Notes)
	assert.Equal(t, proj.ID, fetched.ProjectID)
	assert.Equal(t, ms.ID, fetched.MilestoneID)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.Equal(t, domain.TaskTodo, fetched.Status)
	assert.Equal(t, 90, fetched.DurationMin)
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, "2026-03-14", fetched.DueDate.Format(dateLayout))
	require.NotNil(t, fetched.ScheduledStart)
	assert.True(t, fetched.ScheduledStart.Equal(start), "scheduled start should keep its clock time")
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_StandaloneTask_NoProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	// Empty project and milestone IDs store as NULL, so no FK violation.
	task := testutil.NewTestTask("Buy groceries")
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "", fetched.ProjectID)
	assert.Equal(t, "", fetched.MilestoneID)
}

func TestTaskRepo_Create_BogusProjectRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Orphan", testutil.WithTaskProject("no-such-project"))
	err := repo.Create(ctx, task)
	assert.Error(t, err, "referencing a missing project should violate the foreign key")
}

func TestTaskRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	t1 := testutil.NewTestTask("Keep me")
	t2 := testutil.NewTestTask("Archive me")
	require.NoError(t, repo.Create(ctx, t1))
	require.NoError(t, repo.Create(ctx, t2))
	require.NoError(t, repo.Archive(ctx, t2.ID))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, t1.ID, list[0].ID)

	listAll, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, listAll, 2)
}

func TestTaskRepo_ListSchedulable(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	active := testutil.NewTestProject("Active")
	shelved := testutil.NewTestProject("Shelved")
	require.NoError(t, projRepo.Create(ctx, active))
	require.NoError(t, projRepo.Create(ctx, shelved))
	require.NoError(t, projRepo.Archive(ctx, shelved.ID))

	inActive := testutil.NewTestTask("In active project", testutil.WithTaskProject(active.ID))
	doneInActive := testutil.NewTestTask("Done in active project",
		testutil.WithTaskProject(active.ID),
		testutil.WithCompletedAt(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)))
	inShelved := testutil.NewTestTask("In shelved project", testutil.WithTaskProject(shelved.ID))
	standalone := testutil.NewTestTask("Standalone")
	archived := testutil.NewTestTask("Archived standalone")
	for _, task := range []*domain.Task{inActive, doneInActive, inShelved, standalone, archived} {
		require.NoError(t, repo.Create(ctx, task))
	}
	require.NoError(t, repo.Archive(ctx, archived.ID))

	list, err := repo.ListSchedulable(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, task := range list {
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []string{inActive.ID, doneInActive.ID, standalone.ID}, ids,
		"archived tasks and tasks of archived projects stay out; done tasks stay in")
}

func TestTaskRepo_ListByProjectAndMilestone(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	msRepo := NewSQLiteMilestoneRepo(db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projRepo.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Outline")
	require.NoError(t, msRepo.Create(ctx, ms))

	inMilestone := testutil.NewTestTask("In milestone",
		testutil.WithTaskProject(proj.ID), testutil.WithTaskMilestone(ms.ID))
	inProjectOnly := testutil.NewTestTask("Project only", testutil.WithTaskProject(proj.ID))
	standalone := testutil.NewTestTask("Standalone")
	require.NoError(t, repo.Create(ctx, inMilestone))
	require.NoError(t, repo.Create(ctx, inProjectOnly))
	require.NoError(t, repo.Create(ctx, standalone))

	byProject, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byMilestone, err := repo.ListByMilestone(ctx, ms.ID)
	require.NoError(t, err)
	require.Len(t, byMilestone, 1)
	assert.Equal(t, inMilestone.ID, byMilestone[0].ID)
}

func TestTaskRepo_ListScheduledBetween(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	inside := testutil.NewTestTask("Morning block",
		testutil.WithScheduledStart(day.Add(9*time.Hour)))
	lastSlot := testutil.NewTestTask("Late block",
		testutil.WithScheduledStart(day.Add(23*time.Hour+30*time.Minute)))
	nextDay := testutil.NewTestTask("Tomorrow",
		testutil.WithScheduledStart(day.AddDate(0, 0, 1)))
	unscheduled := testutil.NewTestTask("Sidebar")
	require.NoError(t, repo.Create(ctx, inside))
	require.NoError(t, repo.Create(ctx, lastSlot))
	require.NoError(t, repo.Create(ctx, nextDay))
	require.NoError(t, repo.Create(ctx, unscheduled))

	list, err := repo.ListScheduledBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 2, "upper bound is exclusive; midnight next day belongs to tomorrow")
	assert.Equal(t, inside.ID, list[0].ID, "results ordered by start time")
	assert.Equal(t, lastSlot.ID, list[1].ID)
}

func TestTaskRepo_Update_Reschedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Move me",
		testutil.WithScheduledStart(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Create(ctx, task))

	newStart := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)
	task.ScheduledStart = &newStart
	task.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ScheduledStart)
	assert.True(t, fetched.ScheduledStart.Equal(newStart))

	// Clearing the start sends the task back to the unscheduled pool.
	task.ScheduledStart = nil
	require.NoError(t, repo.Update(ctx, task))
	fetched, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.ScheduledStart)
}

func TestTaskRepo_Update_Complete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Finish me")
	require.NoError(t, repo.Create(ctx, task))

	done := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	task.Status = domain.TaskDone
	task.CompletedAt = &done
	task.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, fetched.Status)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, fetched.CompletedAt.Equal(done))
	assert.True(t, fetched.Completed())
}

func TestTaskRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("Doomed")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
