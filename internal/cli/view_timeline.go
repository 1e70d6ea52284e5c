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

// timelineWindowDays is the width of the visible window in day columns.
const timelineWindowDays = 14

// timelineLoadedMsg delivers freshly derived project groups.
type timelineLoadedMsg struct {
	windowStart time.Time
	groups      []schedule.ProjectGroup
	err         error
}

// timelineRow is one flattened, currently visible row of the hierarchy.
type timelineRow struct {
	bar       schedule.TimelineBar
	depth     int
	togglable bool // project and milestone rows expand/collapse
	header    bool // the "unassigned" separator row
	label     string
}

// timelineView renders project/milestone/task bars over a window of day
// columns, with expand/collapse state layered on top.
type timelineView struct {
	state   *SharedState
	window  schedule.Window
	groups  []schedule.ProjectGroup
	expand  *schedule.ExpandState
	cursor  int
	loading bool
	err     error
}

func newTimelineView(state *SharedState) *timelineView {
	start := time.Now().AddDate(0, 0, -2)
	return &timelineView{
		state:   state,
		window:  schedule.NewWindow(start, timelineWindowDays),
		expand:  schedule.NewExpandState(),
		loading: true,
	}
}

func (v *timelineView) ID() ViewID { return ViewTimeline }
func (v *timelineView) Title() string {
	return fmt.Sprintf("%s – %s",
		formatter.ShortDate(v.window.Start()), formatter.ShortDate(v.window.End()))
}

func (v *timelineView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "select row")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
		key.NewBinding(key.WithKeys("h"), key.WithHelp("h/l", "page window")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	}
}

func (v *timelineView) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *timelineView) load() tea.Cmd {
	app := v.state.App
	window := v.window
	return func() tea.Msg {
		groups, err := app.Schedule.Timeline(context.Background(), window)
		return timelineLoadedMsg{windowStart: window.Start(), groups: groups, err: err}
	}
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineLoadedMsg:
		if !msg.windowStart.Equal(v.window.Start()) {
			return v, nil // stale load from before a window page
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.groups = msg.groups
			// First-load defaults only; later toggles are user-driven.
			v.expand.Seed(v.groups)
			if v.cursor >= len(v.rows()) {
				v.cursor = 0
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

func (v *timelineView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := v.rows()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(rows)-1 {
			v.cursor++
		}
	case "enter", " ":
		if v.cursor < len(rows) {
			row := rows[v.cursor]
			switch {
			case row.togglable && row.bar.Kind == schedule.BarProject:
				v.expand.ToggleProject(row.bar.ID)
			case row.togglable && row.bar.Kind == schedule.BarMilestone:
				v.expand.ToggleMilestone(row.bar.ID)
			}
		}
	case "h", "left":
		v.window = v.window.Shift(-7)
		return v, v.Init()
	case "l", "right":
		v.window = v.window.Shift(7)
		return v, v.Init()
	case "t":
		v.window = schedule.NewWindow(time.Now().AddDate(0, 0, -2), timelineWindowDays)
		return v, v.Init()
	case "r":
		return v, v.load()
	}
	return v, nil
}

// rows flattens the hierarchy honoring expand state: collapsed parents
// hide their children without touching the children's own flags.
func (v *timelineView) rows() []timelineRow {
	var rows []timelineRow
	for _, g := range v.groups {
		rows = append(rows, timelineRow{bar: g.Bar, togglable: true})
		if !v.expand.ProjectExpanded(g.Bar.ID) {
			continue
		}
		for _, m := range g.Milestones {
			rows = append(rows, timelineRow{bar: m.Bar, depth: 1, togglable: true})
			if !v.expand.MilestoneExpanded(m.Bar.ID) {
				continue
			}
			for _, t := range m.Tasks {
				rows = append(rows, timelineRow{bar: t, depth: 2})
			}
		}
		if len(g.Unassigned) > 0 {
			rows = append(rows, timelineRow{depth: 1, header: true, label: "unassigned"})
			for _, t := range g.Unassigned {
				rows = append(rows, timelineRow{bar: t, depth: 2})
			}
		}
	}
	return rows
}

// ── rendering ───────────────────────────────────────────────────────────────

// timelineLabelWidth is the fixed width of the row-label gutter.
const timelineLabelWidth = 28

func (v *timelineView) View() string {
	if v.loading {
		return formatter.Dim("Loading…")
	}
	if v.err != nil {
		return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", v.err))
	}

	rows := v.rows()
	if len(rows) == 0 {
		return formatter.Dim("No projects. Create one with `tempo project add`.")
	}

	var b strings.Builder
	b.WriteString(v.columnHeader())
	b.WriteString("\n")
	for i, row := range rows {
		b.WriteString(v.renderRow(row, i == v.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

// colWidth is the printed width of one day column.
func (v *timelineView) colWidth() int {
	w := (v.state.Width - timelineLabelWidth) / v.window.Len()
	if w < 2 {
		w = 2
	}
	return w
}

func (v *timelineView) columnHeader() string {
	cw := v.colWidth()
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", timelineLabelWidth))
	today := time.Now()
	for _, col := range v.window.Columns() {
		label := fmt.Sprintf("%-*d", cw, col.Day())
		if col.Year() == today.Year() && col.YearDay() == today.YearDay() {
			b.WriteString(formatter.StyleGreen.Bold(true).Render(label))
		} else if col.Weekday() == time.Saturday || col.Weekday() == time.Sunday {
			b.WriteString(formatter.Dim(label))
		} else {
			b.WriteString(formatter.StyleFg.Render(label))
		}
	}
	return b.String()
}

func (v *timelineView) renderRow(row timelineRow, selected bool) string {
	label := v.renderLabel(row, selected)
	if row.header {
		return label
	}
	return label + v.renderBar(row.bar)
}

func (v *timelineView) renderLabel(row timelineRow, selected bool) string {
	indent := strings.Repeat("  ", row.depth)

	text := row.label
	prefix := ""
	if !row.header {
		text = row.bar.Title
		if row.togglable {
			prefix = "▸ "
			if v.expanded(row.bar) {
				prefix = "▾ "
			}
		}
	}

	style := formatter.StyleFg
	switch {
	case row.header:
		style = formatter.StyleDim.Italic(true)
	case row.bar.Kind == schedule.BarProject:
		style = formatter.StyleHeader
	case row.bar.Kind == schedule.BarMilestone:
		style = formatter.StylePurple
	}
	if !row.header && row.bar.Completed {
		style = formatter.StyleDim.Strikethrough(true)
	}

	cursor := "  "
	if selected {
		cursor = formatter.StyleHeader.Render("> ")
	}

	label := formatter.Truncate(indent+prefix+text, timelineLabelWidth-2)
	return cursor + lipgloss.NewStyle().Width(timelineLabelWidth-2).Render(style.Render(label))
}

func (v *timelineView) expanded(bar schedule.TimelineBar) bool {
	if bar.Kind == schedule.BarProject {
		return v.expand.ProjectExpanded(bar.ID)
	}
	return v.expand.MilestoneExpanded(bar.ID)
}

// renderBar draws the clipped column span. Suppressed bars (entities
// entirely outside the window) draw nothing on the track.
func (v *timelineView) renderBar(bar schedule.TimelineBar) string {
	cw := v.colWidth()
	total := v.window.Len() * cw

	if !bar.Visible {
		return formatter.Dim(strings.Repeat("·", total))
	}

	left := bar.Span.StartIdx * cw
	width := (bar.Span.EndIdx - bar.Span.StartIdx) * cw

	style := barStyle(bar)
	var b strings.Builder
	b.WriteString(formatter.Dim(strings.Repeat("·", left)))
	b.WriteString(style.Render(strings.Repeat("█", width)))
	b.WriteString(formatter.Dim(strings.Repeat("·", total-left-width)))
	return b.String()
}

func barStyle(bar schedule.TimelineBar) lipgloss.Style {
	if bar.Completed {
		return formatter.StyleDim
	}
	if bar.Color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color))
	}
	switch bar.Kind {
	case schedule.BarProject:
		return formatter.StyleHeader
	case schedule.BarMilestone:
		return formatter.StylePurple
	default:
		return formatter.StyleBlue
	}
}
