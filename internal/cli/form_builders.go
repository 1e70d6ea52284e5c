package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evanmarch/tempo/internal/domain"
	"github.com/evanmarch/tempo/internal/schedule"
)

// quickAddForm collects a new scheduled task from within the day view.
type quickAddForm struct {
	form     *huh.Form
	title    string
	startStr string
	durStr   string
}

func newQuickAddForm(defaultStart string) *quickAddForm {
	f := &quickAddForm{startStr: defaultStart}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(validateNonEmpty),
			huh.NewInput().
				Title("Start (HH:MM)").
				Placeholder("09:00").
				Value(&f.startStr).
				Validate(validateClockTime),
			huh.NewInput().
				Title("Minutes").
				Placeholder("30").
				Value(&f.durStr).
				Validate(validateOptionalPositiveInt),
		),
	).WithShowHelp(false)
	return f
}

// openQuickAdd shows the quick-add form, pre-filled with the selected
// slot's time when a drag hover or block selection gives one.
func (v *dayView) openQuickAdd() {
	cfg := v.state.App.ScheduleConfig()
	start := formatClock(cfg.WorkStartHour, 0)
	if item, ok := v.selectedItem(); ok && item.Scheduled() {
		slot := v.grid.Slots[v.slotIndexOf(item)]
		start = formatClock(slot.Hour, slot.Minute)
	}
	v.quickAdd = newQuickAddForm(start)
}

func (v *dayView) updateQuickAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels the form.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.quickAdd = nil
		return v, nil
	}

	updated, cmd := v.quickAdd.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		v.quickAdd.form = f
	}

	switch v.quickAdd.form.State {
	case huh.StateCompleted:
		add := v.quickAdd
		v.quickAdd = nil
		return v, v.createQuickTask(add)
	case huh.StateAborted:
		v.quickAdd = nil
		return v, nil
	}
	return v, cmd
}

// createQuickTask persists the collected task scheduled on the viewed
// day; the refreshed snapshot places it.
func (v *dayView) createQuickTask(add *quickAddForm) tea.Cmd {
	app := v.state.App
	day := v.day
	return func() tea.Msg {
		clock, err := time.Parse("15:04", add.startStr)
		if err != nil {
			return refreshViewMsg{}
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())

		duration := 0
		if add.durStr != "" {
			duration, _ = strconv.Atoi(add.durStr)
		}
		if duration <= 0 {
			duration = schedule.DefaultDurationMin
		}

		t := &domain.Task{
			Title:          add.title,
			Priority:       domain.PriorityMedium,
			Status:         domain.TaskTodo,
			ScheduledStart: &start,
			DurationMin:    duration,
		}
		// Creation failures surface on the next snapshot; the form is
		// already gone either way.
		_ = app.Tasks.Create(context.Background(), t)
		return refreshViewMsg{}
	}
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func validateNonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateClockTime(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("want HH:MM")
	}
	return nil
}

func validateOptionalPositiveInt(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("want a positive number")
	}
	return nil
}
