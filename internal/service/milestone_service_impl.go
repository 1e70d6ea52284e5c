package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/google/uuid"
)

type milestoneService struct {
	milestones repository.MilestoneRepo
	uow        db.UnitOfWork
	feed       *ChangeFeed
}

func NewMilestoneService(milestones repository.MilestoneRepo, uow db.UnitOfWork, feed *ChangeFeed) MilestoneService {
	return &milestoneService{milestones: milestones, uow: uow, feed: feed}
}

func (s *milestoneService) Create(ctx context.Context, m *domain.Milestone) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = domain.MilestonePending
	}
	if m.OrderIndex == 0 {
		existing, err := s.milestones.ListByProject(ctx, m.ProjectID)
		if err != nil {
			return err
		}
		m.OrderIndex = len(existing)
	}
	if err := s.milestones.Create(ctx, m); err != nil {
		return err
	}
	s.feed.Publish(MilestonesChanged)
	return nil
}

func (s *milestoneService) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	return s.milestones.GetByID(ctx, id)
}

func (s *milestoneService) ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	return s.milestones.ListByProject(ctx, projectID)
}

func (s *milestoneService) Update(ctx context.Context, m *domain.Milestone) error {
	m.UpdatedAt = time.Now().UTC()
	if err := s.milestones.Update(ctx, m); err != nil {
		return err
	}
	s.feed.Publish(MilestonesChanged)
	return nil
}

func (s *milestoneService) MarkDone(ctx context.Context, id string) error {
	m, err := s.milestones.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Status = domain.MilestoneDone
	m.UpdatedAt = time.Now().UTC()
	if err := s.milestones.Update(ctx, m); err != nil {
		return err
	}
	s.feed.Publish(MilestonesChanged)
	return nil
}

// Reorder rewrites the order indexes of a project's milestones to match
// orderedIDs. The set must cover the project exactly; the rewrite is
// all-or-nothing.
func (s *milestoneService) Reorder(ctx context.Context, projectID string, orderedIDs []string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)

		existing, err := txMilestones.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if len(orderedIDs) != len(existing) {
			return fmt.Errorf("reorder needs all %d milestones of the project, got %d", len(existing), len(orderedIDs))
		}
		byID := make(map[string]*domain.Milestone, len(existing))
		for _, m := range existing {
			byID[m.ID] = m
		}

		now := time.Now().UTC()
		for idx, id := range orderedIDs {
			m, ok := byID[id]
			if !ok {
				return fmt.Errorf("milestone %s does not belong to project %s", id, projectID)
			}
			if m.OrderIndex == idx {
				continue
			}
			m.OrderIndex = idx
			m.UpdatedAt = now
			if err := txMilestones.Update(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.feed.Publish(MilestonesChanged)
	return nil
}

func (s *milestoneService) Delete(ctx context.Context, id string) error {
	if err := s.milestones.Delete(ctx, id); err != nil {
		return err
	}
	// Tasks under the milestone survive detached, via ON DELETE SET NULL.
	s.feed.Publish(MilestonesChanged)
	s.feed.Publish(TasksChanged)
	return nil
}
