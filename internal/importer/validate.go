package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
)

var validTaskStatuses = map[string]bool{"todo": true, "in_progress": true, "done": true}

// weekdayNames maps lowercase day names to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ValidateImportSchema checks the import schema for errors before
// conversion. Returns a slice of all validation errors found. Date
// fields are deliberately not checked here: malformed dates import as
// absent rather than failing the file.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Project == nil && len(schema.Milestones) == 0 && len(schema.Tasks) == 0 && len(schema.Habits) == 0 {
		return []error{fmt.Errorf("import file is empty: no project, milestones, tasks, or habits")}
	}

	errs = append(errs, validateProject(schema.Project)...)

	if len(schema.Milestones) > 0 && schema.Project == nil {
		errs = append(errs, fmt.Errorf("milestones require a project block"))
	}

	milestoneRefs := make(map[string]bool)
	errs = append(errs, validateMilestones(schema.Milestones, milestoneRefs)...)
	errs = append(errs, validateTasks(schema.Tasks, milestoneRefs)...)
	errs = append(errs, validateHabits(schema.Habits)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	return errs
}

func validateMilestones(milestones []MilestoneImport, refs map[string]bool) []error {
	var errs []error

	for i, m := range milestones {
		prefix := fmt.Sprintf("milestones[%d]", i)

		if m.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[m.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, m.Ref))
		} else {
			refs[m.Ref] = true
		}

		if m.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	return errs
}

func validateTasks(tasks []TaskImport, milestoneRefs map[string]bool) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.Priority != "" && !domain.ValidPriorities[t.Priority] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
		if t.Status != "" && !validTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.MilestoneRef != "" && !milestoneRefs[t.MilestoneRef] {
			errs = append(errs, fmt.Errorf("%s.milestone_ref: ref %q not found in milestones", prefix, t.MilestoneRef))
		}
		if t.DurationMin != nil && *t.DurationMin < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must not be negative", prefix))
		}
	}

	return errs
}

func validateHabits(habits []HabitImport) []error {
	var errs []error

	for i, h := range habits {
		prefix := fmt.Sprintf("habits[%d]", i)

		if h.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if h.Recurrence != "" && !domain.ValidRecurrences[h.Recurrence] {
			errs = append(errs, fmt.Errorf("%s.recurrence: invalid value %q", prefix, h.Recurrence))
		}
		if h.Recurrence == string(domain.RecurWeekly) {
			if h.Weekday == "" {
				errs = append(errs, fmt.Errorf("%s.weekday is required for weekly habits", prefix))
			}
		}
		if h.Weekday != "" {
			if _, ok := weekdayNames[strings.ToLower(h.Weekday)]; !ok {
				errs = append(errs, fmt.Errorf("%s.weekday: invalid value %q", prefix, h.Weekday))
			}
		}
		if h.PreferredTime != "" {
			if _, err := time.Parse("15:04", h.PreferredTime); err != nil {
				errs = append(errs, fmt.Errorf("%s.preferred_time: invalid value %q (expected HH:MM)", prefix, h.PreferredTime))
			}
		}
		if h.DurationMin != nil && *h.DurationMin < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must not be negative", prefix))
		}
	}

	return errs
}
