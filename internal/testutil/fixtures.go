package testutil

import (
	"time"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithColor(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Color = c
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: now.AddDate(0, -1, 0),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithOrderIndex(i int) MilestoneOption {
	return func(m *domain.Milestone) {
		m.OrderIndex = i
	}
}

func WithMilestoneStart(d time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.StartDate = &d
	}
}

func WithMilestoneDue(d time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.DueDate = &d
	}
}

func WithMilestoneStatus(s domain.MilestoneStatus) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Status = s
	}
}

func NewTestMilestone(projectID, title string, opts ...MilestoneOption) *domain.Milestone {
	now := time.Now().UTC()
	m := &domain.Milestone{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.MilestonePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskProject(id string) TaskOption {
	return func(t *domain.Task) {
		t.ProjectID = id
	}
}

func WithTaskMilestone(id string) TaskOption {
	return func(t *domain.Task) {
		t.MilestoneID = id
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithScheduledStart(s time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ScheduledStart = &s
	}
}

func WithDuration(min int) TaskOption {
	return func(t *domain.Task) {
		t.DurationMin = min
	}
}

func WithCompletedAt(c time.Time) TaskOption {
	return func(t *domain.Task) {
		t.Status = domain.TaskDone
		t.CompletedAt = &c
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  domain.PriorityMedium,
		Status:    domain.TaskTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Habit options
type HabitOption func(*domain.Habit)

func WithRecurrence(r domain.Recurrence) HabitOption {
	return func(h *domain.Habit) {
		h.Recurrence = r
	}
}

func WithWeekday(wd time.Weekday) HabitOption {
	return func(h *domain.Habit) {
		h.Weekday = wd
	}
}

func WithPreferredTime(hour, minute int) HabitOption {
	return func(h *domain.Habit) {
		h.PreferredHour = hour
		h.PreferredMinute = minute
	}
}

func WithHabitDuration(min int) HabitOption {
	return func(h *domain.Habit) {
		h.DurationMin = min
	}
}

func WithPaused() HabitOption {
	return func(h *domain.Habit) {
		h.Paused = true
	}
}

func NewTestHabit(title string, opts ...HabitOption) *domain.Habit {
	now := time.Now().UTC()
	h := &domain.Habit{
		ID:            uuid.New().String(),
		Title:         title,
		Recurrence:    domain.RecurDaily,
		PreferredHour: 9,
		DurationMin:   30,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewTestHabitLog(habitID string, day time.Time) *domain.HabitLog {
	return &domain.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Day:       day,
		CreatedAt: time.Now().UTC(),
	}
}
