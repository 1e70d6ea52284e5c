package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	feed     *ChangeFeed
}

func NewProjectService(projects repository.ProjectRepo, feed *ChangeFeed) ProjectService {
	return &projectService{projects: projects, feed: feed}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}
	s.feed.Publish(ProjectsChanged)
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	s.feed.Publish(ProjectsChanged)
	return nil
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	if err := s.projects.Archive(ctx, id); err != nil {
		return err
	}
	// The project's tasks drop out of the calendar views with it.
	s.feed.Publish(ProjectsChanged)
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	if err := s.projects.Unarchive(ctx, id); err != nil {
		return err
	}
	s.feed.Publish(ProjectsChanged)
	s.feed.Publish(TasksChanged)
	return nil
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) error {
	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	// Milestones and tasks go down with the project via ON DELETE CASCADE.
	s.feed.Publish(ProjectsChanged)
	s.feed.Publish(MilestonesChanged)
	s.feed.Publish(TasksChanged)
	return nil
}
