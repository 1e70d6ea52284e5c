package repository

import (
	"context"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error)
	List(ctx context.Context) ([]*domain.Milestone, error)
	Update(ctx context.Context, m *domain.Milestone) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error)
	ListSchedulable(ctx context.Context) ([]*domain.Task, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	List(ctx context.Context, includePaused bool) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	Delete(ctx context.Context, id string) error

	CreateLog(ctx context.Context, l *domain.HabitLog) error
	GetLog(ctx context.Context, habitID string, day time.Time) (*domain.HabitLog, error)
	DeleteLog(ctx context.Context, habitID string, day time.Time) error
	ListLogsByHabit(ctx context.Context, habitID string) ([]*domain.HabitLog, error)
	ListLogsBetween(ctx context.Context, from, to time.Time) ([]*domain.HabitLog, error)
}
