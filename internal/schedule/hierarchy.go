package schedule

import (
	"sort"

	"github.com/evanmarch/tempo/internal/domain"
)

// BarKind says what entity a timeline bar represents.
type BarKind string

const (
	BarProject   BarKind = "project"
	BarMilestone BarKind = "milestone"
	BarTask      BarKind = "task"
)

// TimelineBar is one entity mapped onto the window's columns. A bar with
// Visible false still occupies its row; only the bar itself is not drawn.
type TimelineBar struct {
	ID        string
	Kind      BarKind
	Title     string
	Color     string
	Completed bool
	Visible   bool
	Span      ColumnSpan
}

// MilestoneGroup is a milestone bar plus its task bars in display order.
type MilestoneGroup struct {
	Bar   TimelineBar
	Tasks []TimelineBar
}

// ProjectGroup is a project bar, its milestone groups ordered by the
// milestone order field, and the project's unassigned task bars.
type ProjectGroup struct {
	Bar        TimelineBar
	Milestones []MilestoneGroup
	Unassigned []TimelineBar
}

// TimelineInput is the snapshot the timeline derives from.
type TimelineInput struct {
	Window     Window
	Projects   []*domain.Project
	Milestones []*domain.Milestone
	Tasks      []*domain.Task
}

// BuildTimeline groups the snapshot into project rows: milestones sorted
// by their order field, tasks bucketed under their milestone. A task
// whose MilestoneID is empty or matches no milestone of its project
// lands under Unassigned, exactly once. Archived projects and tasks are
// left out.
func BuildTimeline(in TimelineInput) []ProjectGroup {
	projects := make([]*domain.Project, 0, len(in.Projects))
	for _, p := range in.Projects {
		if p.ArchivedAt != nil || p.Status == domain.ProjectArchived {
			continue
		}
		projects = append(projects, p)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].ID < projects[j].ID
	})

	milestonesByProject := make(map[string][]*domain.Milestone)
	for _, m := range in.Milestones {
		milestonesByProject[m.ProjectID] = append(milestonesByProject[m.ProjectID], m)
	}

	tasksByProject := make(map[string][]SchedulableItem)
	for _, t := range in.Tasks {
		if t.ArchivedAt != nil {
			continue
		}
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], TaskItem(t))
	}

	var groups []ProjectGroup
	for _, p := range projects {
		groups = append(groups, buildProjectGroup(p, milestonesByProject[p.ID], tasksByProject[p.ID], in.Window))
	}
	return groups
}

func buildProjectGroup(p *domain.Project, milestones []*domain.Milestone, tasks []SchedulableItem, w Window) ProjectGroup {
	start, end := projectRange(p)
	group := ProjectGroup{
		Bar: makeBar(p.ID, BarProject, p.Name, p.Color, p.Status == domain.ProjectDone, start, end, w),
	}

	ordered := make([]*domain.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	known := make(map[string]int, len(ordered))
	for i, m := range ordered {
		ms, me := milestoneRange(m)
		group.Milestones = append(group.Milestones, MilestoneGroup{
			Bar: makeBar(m.ID, BarMilestone, m.Title, p.Color, m.Done(), ms, me, w),
		})
		known[m.ID] = i
	}

	sortItemsForTimeline(tasks)
	for _, it := range tasks {
		ts, te := taskRange(it)
		bar := makeBar(it.ID, BarTask, it.Title, p.Color, it.Completed, ts, te, w)
		if i, ok := known[it.MilestoneID]; ok && it.MilestoneID != "" {
			group.Milestones[i].Tasks = append(group.Milestones[i].Tasks, bar)
		} else {
			group.Unassigned = append(group.Unassigned, bar)
		}
	}
	return group
}

func makeBar(id string, kind BarKind, title, color string, completed bool, start, end Instant, w Window) TimelineBar {
	span, ok := w.MapToColumns(start, end)
	return TimelineBar{
		ID:        id,
		Kind:      kind,
		Title:     title,
		Color:     color,
		Completed: completed,
		Visible:   ok,
		Span:      span,
	}
}

// taskRange is the bar range of a task item: its scheduled span when
// scheduled, otherwise a one-day bar on the due date.
func taskRange(it SchedulableItem) (Instant, Instant) {
	if it.Scheduled() {
		return it.Start, it.End()
	}
	return it.Due, it.Due
}

// milestoneRange is start..due; a missing endpoint collapses the bar to
// one day. Both missing means no bar.
func milestoneRange(m *domain.Milestone) (Instant, Instant) {
	start, _ := Normalize(rawFromPtr(m.StartDate))
	due, _ := Normalize(rawFromPtr(m.DueDate))
	if !start.Valid() {
		start = due
	}
	if !due.Valid() {
		due = start
	}
	return start, due
}

// projectRange is start..target; a missing target collapses the bar to
// one day.
func projectRange(p *domain.Project) (Instant, Instant) {
	start, _ := Normalize(RawTime(p.StartDate))
	target, _ := Normalize(rawFromPtr(p.TargetDate))
	if !target.Valid() {
		target = start
	}
	return start, target
}

func sortItemsForTimeline(items []SchedulableItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		as, _ := taskRange(a)
		bs, _ := taskRange(b)
		if (as.Valid()) != (bs.Valid()) {
			return as.Valid()
		}
		if as.Valid() && bs.Valid() && !as.Equal(bs) {
			return as.Before(bs)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// ExpandState tracks which timeline rows are expanded. Projects and
// milestones are independent membership sets; collapsing a parent hides
// its children but leaves their own expanded flags intact.
type ExpandState struct {
	projects   map[string]bool
	milestones map[string]bool
	seeded     bool
}

func NewExpandState() *ExpandState {
	return &ExpandState{
		projects:   make(map[string]bool),
		milestones: make(map[string]bool),
	}
}

// ToggleProject flips one project's membership.
func (s *ExpandState) ToggleProject(id string) {
	s.projects[id] = !s.projects[id]
}

// ToggleMilestone flips one milestone's membership.
func (s *ExpandState) ToggleMilestone(id string) {
	s.milestones[id] = !s.milestones[id]
}

func (s *ExpandState) ProjectExpanded(id string) bool   { return s.projects[id] }
func (s *ExpandState) MilestoneExpanded(id string) bool { return s.milestones[id] }

// Seed applies the first-load defaults exactly once: every project
// expanded, plus the first incomplete milestone in display order. Every
// later change is user-driven.
func (s *ExpandState) Seed(groups []ProjectGroup) {
	if s.seeded {
		return
	}
	s.seeded = true

	for _, g := range groups {
		s.projects[g.Bar.ID] = true
	}
	for _, g := range groups {
		for _, m := range g.Milestones {
			if !m.Bar.Completed {
				s.milestones[m.Bar.ID] = true
				return
			}
		}
	}
}
