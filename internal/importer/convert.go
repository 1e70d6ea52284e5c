package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evanmarch/tempo/internal/domain"
)

// ImportBundle is the converted result of an import file, ready for
// persistence in one transaction.
type ImportBundle struct {
	Project    *domain.Project
	Milestones []*domain.Milestone
	Tasks      []*domain.Task
	Habits     []*domain.Habit
}

// Convert transforms a validated ImportSchema into domain objects.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
// Date fields resolve through the normalizer, so a malformed date
// yields an entity with that field absent, never an error.
func Convert(schema *ImportSchema) *ImportBundle {
	now := time.Now().UTC()
	bundle := &ImportBundle{}

	var projectID string
	if schema.Project != nil {
		projectID = uuid.New().String()
		p := &domain.Project{
			ID:         projectID,
			Name:       schema.Project.Name,
			Color:      schema.Project.Color,
			TargetDate: schema.Project.TargetDate.Time(),
			Status:     domain.ProjectActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if start := schema.Project.StartDate.Time(); start != nil {
			p.StartDate = *start
		}
		bundle.Project = p
	}

	refMap := make(map[string]string) // milestone ref -> UUID

	for i, m := range schema.Milestones {
		realID := uuid.New().String()
		refMap[m.Ref] = realID

		bundle.Milestones = append(bundle.Milestones, &domain.Milestone{
			ID:         realID,
			ProjectID:  projectID,
			Title:      m.Title,
			OrderIndex: i,
			StartDate:  m.StartDate.Time(),
			DueDate:    m.DueDate.Time(),
			Status:     domain.MilestonePending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	for _, t := range schema.Tasks {
		status := t.Status
		if status == "" {
			status = string(domain.TaskTodo)
		}
		priority := t.Priority
		if priority == "" {
			priority = string(domain.PriorityMedium)
		}

		task := &domain.Task{
			ID:             uuid.New().String(),
			Title:          t.Title,
			Notes:          t.Notes,
			ProjectID:      projectID,
			MilestoneID:    refMap[t.MilestoneRef],
			Priority:       domain.Priority(priority),
			Status:         domain.TaskStatus(status),
			DueDate:        t.DueDate.Time(),
			ScheduledStart: t.ScheduledStart.Time(),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if t.DurationMin != nil {
			task.DurationMin = *t.DurationMin
		}
		if task.Status == domain.TaskDone {
			done := now
			task.CompletedAt = &done
		}
		bundle.Tasks = append(bundle.Tasks, task)
	}

	for _, h := range schema.Habits {
		recurrence := h.Recurrence
		if recurrence == "" {
			recurrence = string(domain.RecurDaily)
		}

		habit := &domain.Habit{
			ID:         uuid.New().String(),
			Title:      h.Title,
			Recurrence: domain.Recurrence(recurrence),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if h.Weekday != "" {
			habit.Weekday = weekdayNames[strings.ToLower(h.Weekday)]
		}
		if h.PreferredTime != "" {
			if at, err := time.Parse("15:04", h.PreferredTime); err == nil {
				habit.PreferredHour = at.Hour()
				habit.PreferredMinute = at.Minute()
			}
		}
		if h.DurationMin != nil {
			habit.DurationMin = *h.DurationMin
		}
		bundle.Habits = append(bundle.Habits, habit)
	}

	return bundle
}
