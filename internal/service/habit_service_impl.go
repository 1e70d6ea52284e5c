package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/google/uuid"
)

type habitService struct {
	habits   repository.HabitRepo
	uow      db.UnitOfWork
	feed     *ChangeFeed
	observer UseCaseObserver
}

func NewHabitService(habits repository.HabitRepo, uow db.UnitOfWork, feed *ChangeFeed, observers ...UseCaseObserver) HabitService {
	return &habitService{
		habits:   habits,
		uow:      uow,
		feed:     feed,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *habitService) Create(ctx context.Context, h *domain.Habit) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now
	if h.Recurrence == "" {
		h.Recurrence = domain.RecurDaily
	}
	if err := s.habits.Create(ctx, h); err != nil {
		return err
	}
	s.feed.Publish(HabitsChanged)
	return nil
}

func (s *habitService) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return s.habits.GetByID(ctx, id)
}

func (s *habitService) List(ctx context.Context, includePaused bool) ([]*domain.Habit, error) {
	return s.habits.List(ctx, includePaused)
}

func (s *habitService) Update(ctx context.Context, h *domain.Habit) error {
	h.UpdatedAt = time.Now().UTC()
	if err := s.habits.Update(ctx, h); err != nil {
		return err
	}
	s.feed.Publish(HabitsChanged)
	return nil
}

func (s *habitService) Pause(ctx context.Context, id string) error {
	return s.setPaused(ctx, id, true)
}

func (s *habitService) Resume(ctx context.Context, id string) error {
	return s.setPaused(ctx, id, false)
}

func (s *habitService) setPaused(ctx context.Context, id string, paused bool) error {
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return err
	}
	h.Paused = paused
	h.UpdatedAt = time.Now().UTC()
	if err := s.habits.Update(ctx, h); err != nil {
		return err
	}
	s.feed.Publish(HabitsChanged)
	return nil
}

// CheckIn records the habit as done for the given day. Checking a day
// twice is a no-op; checking a day the habit does not occur on is an
// error. The log insert and the habit row touch share one transaction.
func (s *habitService) CheckIn(ctx context.Context, habitID string, day time.Time) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "habit-check-in",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"habit": habitID,
				"day":   day.Format("2006-01-02"),
			},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHabits := repository.NewSQLiteHabitRepo(tx)

		h, err := txHabits.GetByID(ctx, habitID)
		if err != nil {
			return err
		}
		if !h.OccursOn(day) {
			return fmt.Errorf("habit %q has no occurrence on %s", h.Title, day.Format("2006-01-02"))
		}

		_, err = txHabits.GetLog(ctx, habitID, day)
		if err == nil {
			return nil // already checked in
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		if err := txHabits.CreateLog(ctx, &domain.HabitLog{
			ID:        uuid.New().String(),
			HabitID:   habitID,
			Day:       day,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// The habit row carries the activity stamp; both writes commit
		// together or not at all.
		h.UpdatedAt = now
		return txHabits.Update(ctx, h)
	})
	if err != nil {
		return err
	}
	s.feed.Publish(HabitsChanged)
	return nil
}

// UndoCheckIn removes the day's log if present. Missing logs are fine.
func (s *habitService) UndoCheckIn(ctx context.Context, habitID string, day time.Time) error {
	if err := s.habits.DeleteLog(ctx, habitID, day); err != nil {
		return err
	}
	s.feed.Publish(HabitsChanged)
	return nil
}

func (s *habitService) Delete(ctx context.Context, id string) error {
	if err := s.habits.Delete(ctx, id); err != nil {
		return err
	}
	// Logs go down with the habit via ON DELETE CASCADE.
	s.feed.Publish(HabitsChanged)
	return nil
}
