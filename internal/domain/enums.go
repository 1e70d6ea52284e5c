package domain

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// PriorityRank returns a sort ordinal (higher = more urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "urgent": true,
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

type MilestoneStatus string

const (
	MilestonePending MilestoneStatus = "pending"
	MilestoneDone    MilestoneStatus = "done"
)

type Recurrence string

const (
	RecurDaily    Recurrence = "daily"
	RecurWeekdays Recurrence = "weekdays"
	RecurWeekly   Recurrence = "weekly"
)

// ValidRecurrences is the canonical set of accepted recurrence strings.
var ValidRecurrences = map[string]bool{
	"daily": true, "weekdays": true, "weekly": true,
}
