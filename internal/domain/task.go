package domain

import "time"

type Task struct {
	ID          string
	Title       string
	Notes       string
	ProjectID   string
	MilestoneID string
	Priority    Priority
	Status      TaskStatus

	// Scheduling
	DueDate        *time.Time // date-granular
	ScheduledStart *time.Time
	DurationMin    int // 0 means unset

	CompletedAt *time.Time
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Completed reports whether the task is finished, by status or by a
// recorded completion timestamp.
func (t *Task) Completed() bool {
	return t.Status == TaskDone || t.CompletedAt != nil
}

// DisplayID returns the first 8 characters of the ID for listings.
func (t *Task) DisplayID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}
