package schedule

import (
	"time"

	"github.com/evanmarch/tempo/internal/domain"
)

// ItemKind says what entity a SchedulableItem was derived from.
type ItemKind string

const (
	KindTask  ItemKind = "task"
	KindHabit ItemKind = "habit"
)

// DefaultDurationMin is assumed for items with no explicit duration.
const DefaultDurationMin = 30

// SchedulableItem is the flattened, normalized form every view computes
// from. Items are derived per pass and thrown away, never persisted.
type SchedulableItem struct {
	ID          string
	Kind        ItemKind
	Title       string
	ProjectID   string
	MilestoneID string
	Priority    domain.Priority

	Due         Instant // date-granular
	Start       Instant
	DurationMin int
	Completed   bool
}

// EffectiveDuration returns the duration in minutes, defaulted when unset.
func (it SchedulableItem) EffectiveDuration() int {
	if it.DurationMin <= 0 {
		return DefaultDurationMin
	}
	return it.DurationMin
}

// Scheduled reports whether the item has a concrete start.
func (it SchedulableItem) Scheduled() bool { return it.Start.Valid() }

// End returns the scheduled end, start plus effective duration.
func (it SchedulableItem) End() Instant {
	return it.Start.AddMinutes(it.EffectiveDuration())
}

// TaskItem flattens a task through the normalizer.
func TaskItem(t *domain.Task) SchedulableItem {
	due, _ := Normalize(rawFromPtr(t.DueDate))
	start, _ := Normalize(rawFromPtr(t.ScheduledStart))
	return SchedulableItem{
		ID:          t.ID,
		Kind:        KindTask,
		Title:       t.Title,
		ProjectID:   t.ProjectID,
		MilestoneID: t.MilestoneID,
		Priority:    t.Priority,
		Due:         due,
		Start:       start,
		DurationMin: t.DurationMin,
		Completed:   t.Completed(),
	}
}

// TaskItems flattens a task list, skipping archived tasks.
func TaskItems(tasks []*domain.Task) []SchedulableItem {
	items := make([]SchedulableItem, 0, len(tasks))
	for _, t := range tasks {
		if t.ArchivedAt != nil {
			continue
		}
		items = append(items, TaskItem(t))
	}
	return items
}

func rawFromPtr(t *time.Time) RawDate {
	if t == nil {
		return RawAbsent()
	}
	return RawTime(*t)
}
