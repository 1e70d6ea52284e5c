package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/evanmarch/tempo/internal/repository"
	"github.com/evanmarch/tempo/internal/schedule"
)

type scheduleService struct {
	tasks      repository.TaskRepo
	habits     repository.HabitRepo
	projects   repository.ProjectRepo
	milestones repository.MilestoneRepo
	cfg        schedule.Config
	feed       *ChangeFeed
	observer   UseCaseObserver
}

func NewScheduleService(
	tasks repository.TaskRepo,
	habits repository.HabitRepo,
	projects repository.ProjectRepo,
	milestones repository.MilestoneRepo,
	cfg schedule.Config,
	feed *ChangeFeed,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		tasks:      tasks,
		habits:     habits,
		projects:   projects,
		milestones: milestones,
		cfg:        cfg,
		feed:       feed,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// snapshot flattens the store into SchedulableItems: every schedulable
// task plus one occurrence per habit per day of [from, to].
func (s *scheduleService) snapshot(ctx context.Context, from, to time.Time) ([]schedule.SchedulableItem, error) {
	tasks, err := s.tasks.ListSchedulable(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.List(ctx, false)
	if err != nil {
		return nil, err
	}
	logs, err := s.habits.ListLogsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	items := schedule.TaskItems(tasks)
	items = append(items, schedule.ExpandHabits(habits, logs, from, to)...)
	return items, nil
}

func (s *scheduleService) MonthView(ctx context.Context, anchor time.Time) ([]schedule.DayCell, error) {
	gridStart, gridEnd := schedule.MonthRange(anchor)
	items, err := s.snapshot(ctx, gridStart, gridEnd)
	if err != nil {
		return nil, err
	}
	return schedule.BuildMonth(schedule.MonthInput{
		Anchor: anchor,
		Now:    time.Now().In(anchor.Location()),
		Items:  items,
		Config: s.cfg,
	}), nil
}

func (s *scheduleService) DayView(ctx context.Context, day time.Time) (schedule.DayGrid, error) {
	items, err := s.snapshot(ctx, day, day)
	if err != nil {
		return schedule.DayGrid{}, err
	}
	return schedule.BuildDayGrid(schedule.DayGridInput{
		Day:    day,
		Items:  items,
		Config: s.cfg,
	}), nil
}

func (s *scheduleService) Timeline(ctx context.Context, window schedule.Window) ([]schedule.ProjectGroup, error) {
	projects, err := s.projects.List(ctx, false)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListSchedulable(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.BuildTimeline(schedule.TimelineInput{
		Window:     window,
		Projects:   projects,
		Milestones: milestones,
		Tasks:      tasks,
	}), nil
}

func (s *scheduleService) Agenda(ctx context.Context, from time.Time, days int) ([]AgendaDay, error) {
	if days < 1 {
		days = 1
	}
	loc := from.Location()
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := first.AddDate(0, 0, days-1)

	items, err := s.snapshot(ctx, first, last)
	if err != nil {
		return nil, err
	}

	agenda := make([]AgendaDay, 0, days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		entry := AgendaDay{Day: d}
		dayAnchor := schedule.At(d)
		for _, it := range items {
			if it.Scheduled() && schedule.SameDay(it.Start, dayAnchor, loc) {
				entry.Items = append(entry.Items, it)
			}
		}
		sort.SliceStable(entry.Items, func(i, j int) bool {
			a, b := entry.Items[i], entry.Items[j]
			if a.Start.Millis() != b.Start.Millis() {
				return a.Start.Millis() < b.Start.Millis()
			}
			return a.Title < b.Title
		})
		agenda = append(agenda, entry)
	}
	return agenda, nil
}

// UpdateScheduledStart persists a drop from the drag coordinator. Tasks
// move their scheduled start; habit occurrences move the habit's
// preferred time of day, which shifts every future occurrence. Durations
// are never written here, so an unset duration stays unset.
func (s *scheduleService) UpdateScheduledStart(ctx context.Context, item schedule.SchedulableItem, start time.Time) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reschedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"kind": string(item.Kind),
				"item": item.ID,
			},
		})
	}()

	switch item.Kind {
	case schedule.KindHabit:
		habitID, _, ok := schedule.SplitOccurrenceID(item.ID)
		if !ok {
			return fmt.Errorf("malformed habit occurrence id %q", item.ID)
		}
		h, err := s.habits.GetByID(ctx, habitID)
		if err != nil {
			return err
		}
		// Clock fields read in start's own location, the one the view
		// built the slot time in.
		h.PreferredHour = start.Hour()
		h.PreferredMinute = start.Minute()
		h.UpdatedAt = time.Now().UTC()
		if err := s.habits.Update(ctx, h); err != nil {
			return err
		}
		s.feed.Publish(HabitsChanged)
		return nil

	case schedule.KindTask:
		t, err := s.tasks.GetByID(ctx, item.ID)
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

	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
}
