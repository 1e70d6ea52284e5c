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

func TestMilestoneRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projRepo.Create(ctx, proj))

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	ms := testutil.NewTestMilestone(proj.ID, "Outline",
		testutil.WithOrderIndex(1),
		testutil.WithMilestoneStart(start),
		testutil.WithMilestoneDue(due),
	)
	require.NoError(t, repo.Create(ctx, ms))

	fetched, err := repo.GetByID(ctx, ms.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outline", fetched.Title)
	assert.Equal(t, proj.ID, fetched.ProjectID)
	assert.Equal(t, 1, fetched.OrderIndex)
	assert.Equal(t, domain.MilestonePending, fetched.Status)
	require.NotNil(t, fetched.StartDate)
	assert.Equal(t, "2026-03-02", fetched.StartDate.Format(dateLayout))
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, "2026-03-14", fetched.DueDate.Format(dateLayout))
}

func TestMilestoneRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMilestoneRepo_Create_RequiresProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	ms := testutil.NewTestMilestone("no-such-project", "Orphan")
	err := repo.Create(ctx, ms)
	assert.Error(t, err, "milestone without a real project should violate the foreign key")
}

func TestMilestoneRepo_ListByProject_OrderedByIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	other := testutil.NewTestProject("Other")
	require.NoError(t, projRepo.Create(ctx, proj))
	require.NoError(t, projRepo.Create(ctx, other))

	// Insert out of order; order_index should win over insertion order.
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(proj.ID, "Write up", testutil.WithOrderIndex(3))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(proj.ID, "Outline", testutil.WithOrderIndex(1))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(proj.ID, "Research", testutil.WithOrderIndex(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(other.ID, "Unrelated", testutil.WithOrderIndex(0))))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Outline", list[0].Title)
	assert.Equal(t, "Research", list[1].Title)
	assert.Equal(t, "Write up", list[2].Title)
}

func TestMilestoneRepo_List_AllProjects(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	p1 := testutil.NewTestProject("One")
	p2 := testutil.NewTestProject("Two")
	require.NoError(t, projRepo.Create(ctx, p1))
	require.NoError(t, projRepo.Create(ctx, p2))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(p1.ID, "A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMilestone(p2.ID, "B")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMilestoneRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projRepo.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Outline")
	require.NoError(t, repo.Create(ctx, ms))

	ms.Title = "Detailed outline"
	ms.Status = domain.MilestoneDone
	ms.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, ms))

	fetched, err := repo.GetByID(ctx, ms.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detailed outline", fetched.Title)
	assert.Equal(t, domain.MilestoneDone, fetched.Status)
	assert.True(t, fetched.Done())
}

func TestMilestoneRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	projRepo := NewSQLiteProjectRepo(db)
	repo := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projRepo.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Doomed")
	require.NoError(t, repo.Create(ctx, ms))

	require.NoError(t, repo.Delete(ctx, ms.ID))
	_, err := repo.GetByID(ctx, ms.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
