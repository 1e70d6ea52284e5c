package service

import (
	"context"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/importer"
	"github.com/evanmarch/tempo/internal/schedule"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type MilestoneService interface {
	Create(ctx context.Context, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error)
	Update(ctx context.Context, m *domain.Milestone) error
	MarkDone(ctx context.Context, id string) error
	Reorder(ctx context.Context, projectID string, orderedIDs []string) error
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	MarkDone(ctx context.Context, id string) error
	Reopen(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string, start time.Time) error
	Unschedule(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type HabitService interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	List(ctx context.Context, includePaused bool) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	CheckIn(ctx context.Context, habitID string, day time.Time) error
	UndoCheckIn(ctx context.Context, habitID string, day time.Time) error
	Delete(ctx context.Context, id string) error
}

// ImportResult summarizes what an import file produced.
type ImportResult struct {
	Project        *domain.Project // nil when the file had no project block
	MilestoneCount int
	TaskCount      int
	HabitCount     int
}

// ImportService loads a JSON import file and persists its contents in
// one transaction.
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// AgendaDay groups one day's scheduled items in start order.
type AgendaDay struct {
	Day   time.Time
	Items []schedule.SchedulableItem
}

// ScheduleService derives the calendar views from the current snapshot.
// It also satisfies schedule.ItemWriter, so a drag coordinator can write
// drops straight through it.
type ScheduleService interface {
	MonthView(ctx context.Context, anchor time.Time) ([]schedule.DayCell, error)
	DayView(ctx context.Context, day time.Time) (schedule.DayGrid, error)
	Timeline(ctx context.Context, window schedule.Window) ([]schedule.ProjectGroup, error)
	Agenda(ctx context.Context, from time.Time, days int) ([]AgendaDay, error)
	UpdateScheduledStart(ctx context.Context, item schedule.SchedulableItem, start time.Time) error
}
