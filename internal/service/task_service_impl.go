package service

import (
	"context"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks repository.TaskRepo
	feed  *ChangeFeed
}

func NewTaskService(tasks repository.TaskRepo, feed *ChangeFeed) TaskService {
	return &taskService{tasks: tasks, feed: feed}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, includeArchived bool) ([]*domain.Task, error) {
	return s.tasks.List(ctx, includeArchived)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error) {
	return s.tasks.ListByMilestone(ctx, milestoneID)
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) MarkDone(ctx context.Context, id string) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	t.Status = domain.TaskDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) Reopen(ctx context.Context, id string) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Status = domain.TaskTodo
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

// Schedule places the task at a concrete start instant. Only the start
// moves; the stored duration stays whatever it was, including unset.
func (s *taskService) Schedule(ctx context.Context, id string, start time.Time) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.ScheduledStart = &start
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) Unschedule(ctx context.Context, id string) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.ScheduledStart = nil
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) Archive(ctx context.Context, id string) error {
	if err := s.tasks.Archive(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(TasksChanged)
	return nil
}
