package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evanmarch/tempo/internal/cli/formatter"
	"github.com/evanmarch/tempo/internal/schedule"
)

// monthLoadedMsg delivers a freshly derived month grid.
type monthLoadedMsg struct {
	anchor time.Time
	cells  []schedule.DayCell
	err    error
}

// calendarView renders the month grid: one cell per day with due and
// scheduled counts and the capacity label.
type calendarView struct {
	state   *SharedState
	anchor  time.Time // any instant inside the displayed month
	cells   []schedule.DayCell
	cursor  int // index into cells
	loading bool
	err     error
}

func newCalendarView(state *SharedState) *calendarView {
	now := time.Now()
	return &calendarView{state: state, anchor: now, loading: true}
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return v.anchor.Format("January 2006") }

func (v *calendarView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("left"), key.WithHelp("←↑↓→", "move")),
		key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "prev/next month")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open day")),
	}
}

func (v *calendarView) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *calendarView) load() tea.Cmd {
	app := v.state.App
	anchor := v.anchor
	return func() tea.Msg {
		cells, err := app.Schedule.MonthView(context.Background(), anchor)
		return monthLoadedMsg{anchor: anchor, cells: cells, err: err}
	}
}

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		if !msg.anchor.Equal(v.anchor) {
			return v, nil // stale load from before a month switch
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.cells = msg.cells
			if v.cursor >= len(v.cells) {
				v.cursor = len(v.cells) - 1
			}
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *calendarView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		v.moveCursor(-1)
	case "right", "l":
		v.moveCursor(1)
	case "up", "k":
		v.moveCursor(-7)
	case "down", "j":
		v.moveCursor(7)
	case "[":
		v.anchor = v.anchor.AddDate(0, -1, 0)
		v.cursor = 0
		return v, v.Init()
	case "]":
		v.anchor = v.anchor.AddDate(0, 1, 0)
		v.cursor = 0
		return v, v.Init()
	case "t":
		v.anchor = time.Now()
		v.cursor = v.todayIndex()
		return v, v.Init()
	case "enter":
		if v.cursor >= 0 && v.cursor < len(v.cells) {
			day := v.cells[v.cursor].Date
			return v, func() tea.Msg { return openDayMsg{day: day} }
		}
	case "r":
		return v, v.load()
	}
	return v, nil
}

func (v *calendarView) moveCursor(delta int) {
	next := v.cursor + delta
	if next >= 0 && next < len(v.cells) {
		v.cursor = next
	}
}

func (v *calendarView) todayIndex() int {
	for i, cell := range v.cells {
		if cell.IsToday {
			return i
		}
	}
	return 0
}

// ── rendering ───────────────────────────────────────────────────────────────

const calendarCellWidth = 14

func (v *calendarView) View() string {
	if v.loading {
		return formatter.Dim("Loading…")
	}
	if v.err != nil {
		return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", v.err))
	}

	var b strings.Builder

	b.WriteString(v.weekdayHeader())
	b.WriteString("\n")
	for week := 0; week*7 < len(v.cells); week++ {
		b.WriteString(v.renderWeek(week * 7))
		b.WriteString("\n")
	}
	b.WriteString(v.selectionDetail())
	return b.String()
}

func (v *calendarView) weekdayHeader() string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	cells := make([]string, len(names))
	for i, n := range names {
		cells[i] = lipgloss.NewStyle().Width(calendarCellWidth).Align(lipgloss.Center).Render(formatter.Dim(n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (v *calendarView) renderWeek(base int) string {
	rendered := make([]string, 0, 7)
	for i := base; i < base+7 && i < len(v.cells); i++ {
		rendered = append(rendered, v.renderCell(v.cells[i], i == v.cursor))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (v *calendarView) renderCell(cell schedule.DayCell, selected bool) string {
	dayStyle := formatter.StyleFg
	if !cell.InMonth {
		dayStyle = formatter.StyleDim
	}
	if cell.IsToday {
		dayStyle = formatter.StyleGreen.Bold(true)
	}

	lines := []string{dayStyle.Render(fmt.Sprintf("%2d", cell.Date.Day()))}

	markers := ""
	if n := len(cell.Scheduled); n > 0 {
		markers += formatter.StyleBlue.Render(fmt.Sprintf("%d■", n))
	}
	if n := len(cell.Due); n > 0 {
		markers += formatter.StyleYellow.Render(fmt.Sprintf(" %d●", n))
	}
	if len(cell.NeedsAttention) > 0 {
		markers += formatter.StyleRed.Render(" !")
	}
	lines = append(lines, markers)

	if cell.ScheduledMin > 0 && cell.AvailableMin > 0 {
		lines = append(lines, formatter.CapacityLabel(cell.CapacityPercent))
	} else {
		lines = append(lines, "")
	}

	style := lipgloss.NewStyle().Width(calendarCellWidth).Height(3).Padding(0, 1)
	if selected {
		style = style.Background(lipgloss.Color("#3c3836"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// selectionDetail lists the selected day's items under the grid.
func (v *calendarView) selectionDetail() string {
	if v.cursor < 0 || v.cursor >= len(v.cells) {
		return ""
	}
	cell := v.cells[v.cursor]
	loc := cell.Date.Location()

	var b strings.Builder
	b.WriteString(formatter.Bold(formatter.DayHeading(cell.Date)))
	if cell.AvailableMin > 0 {
		b.WriteString("  ")
		b.WriteString(formatter.CapacityBar(cell.CapacityPercent, 10))
	}
	b.WriteString("\n")

	for _, it := range cell.Scheduled {
		check := " "
		if it.Completed {
			check = formatter.StyleGreen.Render("✓")
		}
		b.WriteString(fmt.Sprintf(" %s %s %s (%s)\n",
			check,
			formatter.Dim(it.Start.Time(loc).Format("15:04")),
			it.Title,
			formatter.Minutes(it.EffectiveDuration())))
	}
	for _, it := range cell.NeedsAttention {
		b.WriteString(fmt.Sprintf(" %s %s\n",
			formatter.StyleRed.Render("!"),
			formatter.Dim(it.Title+" (due, not scheduled here)")))
	}
	if len(cell.Scheduled) == 0 && len(cell.NeedsAttention) == 0 {
		b.WriteString(formatter.Dim(" nothing planned\n"))
	}
	return b.String()
}
