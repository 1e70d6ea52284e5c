package formatter

import (
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/evanmarch/tempo/internal/domain"
)

// TaskTable renders tasks as an aligned table for `task list`.
func TaskTable(tasks []*domain.Task, projectNames map[string]string) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(Bold("ID"), Bold("TITLE"), Bold("STATUS"), Bold("PRI"), Bold("DUE"), Bold("SCHEDULED"), Bold("DUR"), Bold("PROJECT"))

	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		scheduled := "-"
		if t.ScheduledStart != nil {
			scheduled = t.ScheduledStart.Format("Jan 2 15:04")
		}
		dur := "-"
		if t.DurationMin > 0 {
			dur = Minutes(t.DurationMin)
		}
		project := projectNames[t.ProjectID]
		if project == "" && t.ProjectID != "" {
			project = t.ProjectID[:8]
		}
		tbl.AddRow(t.DisplayID(), t.Title, StatusPill(t.Status), PriorityPill(t.Priority), due, scheduled, dur, project)
	}
	return tbl.String()
}

// HabitTable renders habits for `habit list`.
func HabitTable(habits []*domain.Habit) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(Bold("ID"), Bold("TITLE"), Bold("RECURRENCE"), Bold("AT"), Bold("DUR"), Bold("STATE"))

	for _, h := range habits {
		recurrence := string(h.Recurrence)
		if h.Recurrence == domain.RecurWeekly {
			recurrence = fmt.Sprintf("weekly (%s)", h.Weekday.String()[:3])
		}
		state := StyleGreen.Render("active")
		if h.Paused {
			state = StyleDim.Render("paused")
		}
		dur := "-"
		if h.DurationMin > 0 {
			dur = Minutes(h.DurationMin)
		}
		id := h.ID
		if len(id) > 8 {
			id = id[:8]
		}
		tbl.AddRow(id, h.Title, recurrence, ClockTime(h.PreferredHour, h.PreferredMinute), dur, state)
	}
	return tbl.String()
}

// ProjectTable renders projects for `project list`.
func ProjectTable(projects []*domain.Project) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(Bold("ID"), Bold("NAME"), Bold("STATUS"), Bold("START"), Bold("TARGET"))

	for _, p := range projects {
		target := "-"
		if p.TargetDate != nil {
			target = p.TargetDate.Format("2006-01-02")
		}
		status := string(p.Status)
		switch p.Status {
		case domain.ProjectDone:
			status = StyleGreen.Render(status)
		case domain.ProjectArchived:
			status = StyleDim.Render(status)
		}
		tbl.AddRow(p.DisplayID(), p.Name, status, p.StartDate.Format("2006-01-02"), target)
	}
	return tbl.String()
}

// MilestoneTable renders one project's milestones in display order.
func MilestoneTable(milestones []*domain.Milestone) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(Bold("#"), Bold("ID"), Bold("TITLE"), Bold("START"), Bold("DUE"), Bold("STATUS"))

	for _, m := range milestones {
		start, due := "-", "-"
		if m.StartDate != nil {
			start = m.StartDate.Format("2006-01-02")
		}
		if m.DueDate != nil {
			due = m.DueDate.Format("2006-01-02")
		}
		status := StyleDim.Render("pending")
		if m.Done() {
			status = StyleGreen.Render("done")
		}
		id := m.ID
		if len(id) > 8 {
			id = id[:8]
		}
		tbl.AddRow(m.OrderIndex, id, m.Title, start, due, status)
	}
	return tbl.String()
}
