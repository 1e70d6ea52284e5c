package domain

import "time"

type Milestone struct {
	ID         string
	ProjectID  string
	Title      string
	OrderIndex int
	StartDate  *time.Time
	DueDate    *time.Time
	Status     MilestoneStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Done reports whether the milestone is complete.
func (m *Milestone) Done() bool {
	return m.Status == MilestoneDone
}
