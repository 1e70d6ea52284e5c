package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanmarch/tempo/internal/domain"
)

// resolveProjectID resolves a project reference: full UUID, UUID prefix,
// or case-insensitive name match.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}
	return matchPrefix(input, projects, "project", func(p *domain.Project) string { return p.ID })
}

// resolveTaskID resolves a task reference: full UUID or UUID prefix.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task is required")
	}
	tasks, err := app.Tasks.List(ctx, true)
	if err != nil {
		return "", err
	}
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}
	return matchPrefix(input, tasks, "task", func(t *domain.Task) string { return t.ID })
}

// resolveHabitID resolves a habit reference: full UUID, UUID prefix, or
// case-insensitive title match.
func resolveHabitID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("habit is required")
	}
	habits, err := app.Habits.List(ctx, true)
	if err != nil {
		return "", err
	}
	for _, h := range habits {
		if h.ID == input {
			return h.ID, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Title, input) {
			return h.ID, nil
		}
	}
	return matchPrefix(input, habits, "habit", func(h *domain.Habit) string { return h.ID })
}

// resolveMilestoneID resolves a milestone reference within a project.
func resolveMilestoneID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("milestone is required")
	}
	milestones, err := app.Milestones.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	for _, m := range milestones {
		if m.ID == input {
			return m.ID, nil
		}
	}
	for _, m := range milestones {
		if strings.EqualFold(m.Title, input) {
			return m.ID, nil
		}
	}
	return matchPrefix(input, milestones, "milestone", func(m *domain.Milestone) string { return m.ID })
}

// matchPrefix finds the entity whose ID starts with input, requiring the
// match to be unique.
func matchPrefix[T any](input string, entities []T, kind string, id func(T) string) (string, error) {
	var matches []string
	for _, e := range entities {
		if strings.HasPrefix(id(e), input) {
			matches = append(matches, id(e))
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
