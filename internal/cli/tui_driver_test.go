package cli

import (
	"testing"

	"github.com/evanmarch/tempo/internal/teatest"
)

// TestDriver wraps teatest.Driver with Tempo-specific inspection methods.
// It provides access to appModel internals (active view, shared state)
// that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads the calendar data synchronously via in-memory SQLite).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the currently active view.
func (d *TestDriver) ActiveViewID() ViewID {
	return d.appModel().active
}

// ActiveViewTitle returns the Title() of the active view.
func (d *TestDriver) ActiveViewTitle() string {
	return d.appModel().activeView().Title()
}

// CalendarView returns the calendar view for inspection.
func (d *TestDriver) CalendarView() *calendarView {
	return d.appModel().views[ViewCalendar].(*calendarView)
}

// DayView returns the day view for inspection.
func (d *TestDriver) DayView() *dayView {
	return d.appModel().views[ViewDay].(*dayView)
}

// TimelineView returns the timeline view for inspection.
func (d *TestDriver) TimelineView() *timelineView {
	return d.appModel().views[ViewTimeline].(*timelineView)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
