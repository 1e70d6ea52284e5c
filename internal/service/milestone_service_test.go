package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/evanmarch/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneService_Create_AppendsOrderIndex(t *testing.T) {
	projects, milestones, _, _, uow := setupRepos(t)
	ctx := context.Background()

	svc := NewMilestoneService(milestones, uow, nil)

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))

	first := &domain.Milestone{ProjectID: proj.ID, Title: "Outline"}
	second := &domain.Milestone{ProjectID: proj.ID, Title: "Draft"}
	third := &domain.Milestone{ProjectID: proj.ID, Title: "Revise"}
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.Create(ctx, second))
	require.NoError(t, svc.Create(ctx, third))

	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)
	assert.Equal(t, 2, third.OrderIndex)
	assert.Equal(t, domain.MilestonePending, first.Status, "status should default to pending")

	list, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Outline", list[0].Title)
	assert.Equal(t, "Revise", list[2].Title)
}

func TestMilestoneService_MarkDone(t *testing.T) {
	projects, milestones, _, _, uow := setupRepos(t)
	ctx := context.Background()

	svc := NewMilestoneService(milestones, uow, nil)

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Outline")
	require.NoError(t, svc.Create(ctx, ms))

	require.NoError(t, svc.MarkDone(ctx, ms.ID))

	fetched, err := svc.GetByID(ctx, ms.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Done())
}

func TestMilestoneService_Reorder(t *testing.T) {
	projects, milestones, _, _, uow := setupRepos(t)
	ctx := context.Background()

	svc := NewMilestoneService(milestones, uow, nil)

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))

	a := &domain.Milestone{ProjectID: proj.ID, Title: "A"}
	b := &domain.Milestone{ProjectID: proj.ID, Title: "B"}
	c := &domain.Milestone{ProjectID: proj.ID, Title: "C"}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))
	require.NoError(t, svc.Create(ctx, c))

	require.NoError(t, svc.Reorder(ctx, proj.ID, []string{c.ID, a.ID, b.ID}))

	list, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Title)
	assert.Equal(t, "A", list[1].Title)
	assert.Equal(t, "B", list[2].Title)
}

func TestMilestoneService_Reorder_RejectsPartialSet(t *testing.T) {
	projects, milestones, _, _, uow := setupRepos(t)
	ctx := context.Background()

	svc := NewMilestoneService(milestones, uow, nil)

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))

	a := &domain.Milestone{ProjectID: proj.ID, Title: "A"}
	b := &domain.Milestone{ProjectID: proj.ID, Title: "B"}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	err := svc.Reorder(ctx, proj.ID, []string{b.ID})
	assert.Error(t, err, "partial reorder should be rejected")

	err = svc.Reorder(ctx, proj.ID, []string{b.ID, "not-a-member"})
	assert.Error(t, err, "foreign milestone should be rejected")

	// Order untouched on both failures.
	list, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
}

func TestMilestoneService_Reorder_RollbackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projRepo := repository.NewSQLiteProjectRepo(database)
	msRepo := repository.NewSQLiteMilestoneRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rollback Test")
	require.NoError(t, projRepo.Create(ctx, proj))

	a := testutil.NewTestMilestone(proj.ID, "A", testutil.WithOrderIndex(0))
	b := testutil.NewTestMilestone(proj.ID, "B", testutil.WithOrderIndex(1))
	require.NoError(t, msRepo.Create(ctx, a))
	require.NoError(t, msRepo.Create(ctx, b))

	// Reversing [A,B] issues two updates; fail the second so the first
	// one's write must be rolled back.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected reorder failure"),
	}

	svc := NewMilestoneService(msRepo, failUoW, nil)
	err := svc.Reorder(ctx, proj.ID, []string{b.ID, a.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected reorder failure")

	list, err := msRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title, "original order should survive the rollback")
	assert.Equal(t, "B", list[1].Title)
}

func TestMilestoneService_Delete_DetachesTasks(t *testing.T) {
	projects, milestones, tasks, _, uow := setupRepos(t)
	ctx := context.Background()

	svc := NewMilestoneService(milestones, uow, nil)

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, projects.Create(ctx, proj))
	ms := testutil.NewTestMilestone(proj.ID, "Outline")
	require.NoError(t, svc.Create(ctx, ms))

	task := testutil.NewTestTask("Survivor",
		testutil.WithTaskProject(proj.ID), testutil.WithTaskMilestone(ms.ID))
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, svc.Delete(ctx, ms.ID))

	fetched, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.MilestoneID, "task should be detached, not deleted")
	assert.Equal(t, proj.ID, fetched.ProjectID)
}
