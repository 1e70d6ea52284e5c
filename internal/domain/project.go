package domain

import "time"

type Project struct {
	ID         string
	Name       string
	Color      string
	StartDate  time.Time
	TargetDate *time.Time
	Status     ProjectStatus
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayID returns the first 8 characters of the ID for listings.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
