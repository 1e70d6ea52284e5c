package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/evanmarch/tempo/internal/schedule"
)

// ImportSchema is the top-level JSON structure for bulk import. The
// project block is optional; tasks without a milestone_ref attach
// directly to it when present, and import standalone otherwise.
type ImportSchema struct {
	Project    *ProjectImport    `json:"project,omitempty"`
	Milestones []MilestoneImport `json:"milestones,omitempty"`
	Tasks      []TaskImport      `json:"tasks,omitempty"`
	Habits     []HabitImport     `json:"habits,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	StartDate  DateValue `json:"start_date,omitempty"`
	TargetDate DateValue `json:"target_date,omitempty"`
}

// MilestoneImport defines a milestone in the import file. Milestones
// keep the order they appear in.
type MilestoneImport struct {
	Ref       string    `json:"ref"`
	Title     string    `json:"title"`
	StartDate DateValue `json:"start_date,omitempty"`
	DueDate   DateValue `json:"due_date,omitempty"`
}

// TaskImport defines a task in the import file.
type TaskImport struct {
	MilestoneRef   string    `json:"milestone_ref,omitempty"`
	Title          string    `json:"title"`
	Notes          string    `json:"notes,omitempty"`
	Priority       string    `json:"priority,omitempty"`
	Status         string    `json:"status,omitempty"`
	DueDate        DateValue `json:"due_date,omitempty"`
	ScheduledStart DateValue `json:"scheduled_start,omitempty"`
	DurationMin    *int      `json:"duration_min,omitempty"`
}

// HabitImport defines a recurring habit in the import file.
type HabitImport struct {
	Title         string `json:"title"`
	Recurrence    string `json:"recurrence,omitempty"`
	Weekday       string `json:"weekday,omitempty"`        // anchor for weekly habits, e.g. "monday"
	PreferredTime string `json:"preferred_time,omitempty"` // "HH:MM"
	DurationMin   *int   `json:"duration_min,omitempty"`
}

// DateValue is a date field as import files carry them: an ISO-8601
// string or epoch milliseconds. Unmarshalling never fails; whatever
// arrived is resolved later through the normalizer, and malformed
// values come out absent.
type DateValue struct {
	raw schedule.RawDate
	set bool
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	d.set = true
	if string(data) == "null" {
		d.raw = schedule.RawAbsent()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.raw = schedule.RawString(s)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		d.raw = schedule.RawEpoch(ms)
		return nil
	}
	// Arrays and objects fall through the normalizer as malformed.
	d.raw = schedule.RawString(string(data))
	return nil
}

// Time resolves the value: nil when the field was omitted, null,
// or malformed.
func (d DateValue) Time() *time.Time {
	if !d.set {
		return nil
	}
	inst, _ := schedule.Normalize(d.raw)
	if !inst.Valid() {
		return nil
	}
	t := inst.Time(time.UTC)
	return &t
}

// LoadImportSchema reads and parses an import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
