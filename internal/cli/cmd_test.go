package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanmarch/tempo/internal/config"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/evanmarch/tempo/internal/service"
	"github.com/evanmarch/tempo/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	projRepo := repository.NewSQLiteProjectRepo(database)
	msRepo := repository.NewSQLiteMilestoneRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	habitRepo := repository.NewSQLiteHabitRepo(database)
	uow := testutil.NewTestUoW(database)

	cfg := config.DefaultConfig(t.TempDir())

	return &App{
		Projects:   service.NewProjectService(projRepo, nil),
		Milestones: service.NewMilestoneService(msRepo, uow, nil),
		Tasks:      service.NewTaskService(taskRepo, nil),
		Habits:     service.NewHabitService(habitRepo, uow, nil),
		Schedule: service.NewScheduleService(
			taskRepo, habitRepo, projRepo, msRepo, cfg.ScheduleConfig(), nil),
		Import: service.NewImportService(uow, nil),
		Config: cfg,
	}
}

// seedProjectWithTask creates a project, a milestone, and a scheduled task.
func seedProjectWithTask(t *testing.T, app *App) (projectID, taskID string) {
	t.Helper()
	ctx := context.Background()

	proj := testutil.NewTestProject("Thesis")
	require.NoError(t, app.Projects.Create(ctx, proj))

	ms := testutil.NewTestMilestone(proj.ID, "Draft chapter 1")
	require.NoError(t, app.Milestones.Create(ctx, ms))

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	task := testutil.NewTestTask("Write outline",
		testutil.WithTaskProject(proj.ID),
		testutil.WithTaskMilestone(ms.ID),
		testutil.WithScheduledStart(start),
		testutil.WithDuration(60),
	)
	require.NoError(t, app.Tasks.Create(ctx, task))

	return proj.ID, task.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- Root command ---

func TestRootCmd_NonInteractive_ShowsHelp(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "tempo")
}

// --- task commands ---

func TestTaskAddCmd_Minimal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "Buy groceries")
	require.NoError(t, err)

	tasks, err := app.Tasks.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy groceries", tasks[0].Title)
}

func TestTaskAddCmd_WithProjectAndSchedule(t *testing.T) {
	app := testApp(t)
	projectID, _ := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "add", "Collect sources",
		"--project", "Thesis",
		"--due", "2026-04-01",
		"--start", "2026-03-11 14:00",
		"--duration", "90",
		"--priority", "high")
	require.NoError(t, err)

	tasks, err := app.Tasks.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestTaskAddCmd_InvalidPriority(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "X", "--priority", "asap")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid priority")
}

func TestTaskAddCmd_MilestoneRequiresProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "X", "--milestone", "m1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--milestone requires --project")
}

func TestTaskAddCmd_InvalidStart(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "X", "--start", "tomorrowish")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start")
}

func TestTaskListCmd_EmptyDB(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "list")
	require.NoError(t, err)
}

func TestTaskListCmd_WithData(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "list")
	require.NoError(t, err)
}

func TestTaskListCmd_ByProject(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "list", "--project", "Thesis")
	require.NoError(t, err)
}

func TestTaskDoneCmd_ByPrefix(t *testing.T) {
	app := testApp(t)
	_, taskID := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "done", taskID[:8])
	require.NoError(t, err)

	task, err := app.Tasks.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.True(t, task.Completed())
}

func TestTaskDoneCmd_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "done", "deadbeef")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTaskRescheduleCmd(t *testing.T) {
	app := testApp(t)
	_, taskID := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "reschedule", taskID, "2026-03-12 10:30")
	require.NoError(t, err)

	task, err := app.Tasks.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, task.ScheduledStart)
	assert.Equal(t, 10, task.ScheduledStart.Hour())
	assert.Equal(t, 30, task.ScheduledStart.Minute())
}

func TestTaskRescheduleCmd_BareClockMeansToday(t *testing.T) {
	app := testApp(t)
	_, taskID := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "reschedule", taskID, "16:00")
	require.NoError(t, err)

	task, err := app.Tasks.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, task.ScheduledStart)
	now := time.Now()
	assert.Equal(t, now.Day(), task.ScheduledStart.Day())
	assert.Equal(t, 16, task.ScheduledStart.Hour())
}

func TestTaskUnscheduleCmd(t *testing.T) {
	app := testApp(t)
	_, taskID := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "unschedule", taskID)
	require.NoError(t, err)

	task, err := app.Tasks.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.Nil(t, task.ScheduledStart)
}

func TestTaskRemoveCmd(t *testing.T) {
	app := testApp(t)
	_, taskID := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "task", "rm", taskID)
	require.NoError(t, err)

	tasks, err := app.Tasks.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// --- habit commands ---

func TestHabitAddCmd_Defaults(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "habit", "add", "Morning run")
	require.NoError(t, err)

	habits, err := app.Habits.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Morning run", habits[0].Title)
	assert.Equal(t, 8, habits[0].PreferredHour)
}

func TestHabitAddCmd_Weekly(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "habit", "add", "Review week",
		"--recurrence", "weekly", "--weekday", "friday", "--at", "17:30")
	require.NoError(t, err)

	habits, err := app.Habits.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, time.Friday, habits[0].Weekday)
	assert.Equal(t, 17, habits[0].PreferredHour)
	assert.Equal(t, 30, habits[0].PreferredMinute)
}

func TestHabitAddCmd_InvalidRecurrence(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "habit", "add", "X", "--recurrence", "fortnightly")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recurrence")
}

func TestHabitCheckAndUncheckCmd(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "habit", "add", "Meditate")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "habit", "check", "Meditate", "--day", "2026-03-10")
	require.NoError(t, err)

	// Checking the same day twice is a no-op, not an error.
	_, err = executeCmd(t, app, "habit", "check", "Meditate", "--day", "2026-03-10")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "habit", "uncheck", "Meditate", "--day", "2026-03-10")
	require.NoError(t, err)
}

func TestHabitPauseResumeCmd(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "habit", "add", "Stretch")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "habit", "pause", "Stretch")
	require.NoError(t, err)

	habits, err := app.Habits.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.True(t, habits[0].Paused)

	_, err = executeCmd(t, app, "habit", "resume", "Stretch")
	require.NoError(t, err)

	habits, err = app.Habits.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.False(t, habits[0].Paused)
}

// --- project commands ---

func TestProjectAddCmd(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "Garden",
		"--target", "2026-09-01", "--color", "#b8bb26")
	require.NoError(t, err)

	projects, err := app.Projects.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "#b8bb26", projects[0].Color)
	require.NotNil(t, projects[0].TargetDate)
}

func TestProjectArchiveCmd(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "project", "archive", "Thesis")
	require.NoError(t, err)

	active, err := app.Projects.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestProjectRemoveCmd_RequiresArchiveOrForce(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "project", "rm", "Thesis")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "archived")

	_, err = executeCmd(t, app, "project", "rm", "Thesis", "--force")
	require.NoError(t, err)
}

// --- milestone commands ---

func TestMilestoneAddCmd_RequiresProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "milestone", "add", "Phase 1")
	assert.Error(t, err)
}

func TestMilestoneAddAndDoneCmd(t *testing.T) {
	app := testApp(t)
	projectID, _ := seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "milestone", "add", "Phase 1",
		"--project", "Thesis", "--due", "2026-05-01")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "milestone", "done", "Phase 1", "--project", "Thesis")
	require.NoError(t, err)

	milestones, err := app.Milestones.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
}

// --- agenda command ---

func TestAgendaCmd_Month(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "agenda", "--month", "2026-03")
	require.NoError(t, err)
}

func TestAgendaCmd_Day(t *testing.T) {
	app := testApp(t)
	seedProjectWithTask(t, app)

	_, err := executeCmd(t, app, "agenda", "--day", "2026-03-10")
	require.NoError(t, err)
}

func TestAgendaCmd_InvalidMonth(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "agenda", "--month", "March")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month")
}

// --- import command ---

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "import", "/nonexistent/plan.json")
	assert.Error(t, err)
}

// --- sync command ---

func TestSyncGcalCmd_DisabledByDefault(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "sync", "gcal")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

// --- reference resolution ---

func TestResolveProjectID_AmbiguousPrefix(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	a := testutil.NewTestProject("Alpha")
	a.ID = "aaaa1111-0000-0000-0000-000000000001"
	b := testutil.NewTestProject("Beta")
	b.ID = "aaaa1111-0000-0000-0000-000000000002"
	require.NoError(t, app.Projects.Create(ctx, a))
	require.NoError(t, app.Projects.Create(ctx, b))

	_, err := resolveProjectID(ctx, app, "aaaa1111")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestResolveProjectID_ByName(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Deep Work")
	require.NoError(t, app.Projects.Create(ctx, proj))

	id, err := resolveProjectID(ctx, app, "deep work")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, id)
}
