package domain

import "time"

type Habit struct {
	ID         string
	Title      string
	Recurrence Recurrence
	Weekday    time.Weekday // anchor day for weekly habits

	// Time-of-day an occurrence is placed at
	PreferredHour   int
	PreferredMinute int
	DurationMin     int

	Paused    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccursOn reports whether the habit has an occurrence on the given day.
// Paused habits never occur.
func (h *Habit) OccursOn(day time.Time) bool {
	if h.Paused {
		return false
	}
	switch h.Recurrence {
	case RecurDaily:
		return true
	case RecurWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case RecurWeekly:
		return day.Weekday() == h.Weekday
	default:
		return false
	}
}

// HabitLog records one checked-off occurrence. Day is date-granular;
// at most one log exists per habit per day.
type HabitLog struct {
	ID        string
	HabitID   string
	Day       time.Time
	CreatedAt time.Time
}
