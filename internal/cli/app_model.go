package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evanmarch/tempo/internal/cli/formatter"
	"github.com/evanmarch/tempo/internal/service"
)

// appModel is the root bubbletea Model: three sibling views (calendar,
// day, timeline) switched by number keys, plus a change-feed pump that
// triggers re-derivation whenever the store changes.
type appModel struct {
	state    *SharedState
	views    map[ViewID]View
	active   ViewID
	sub      *service.Subscription
	quitting bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{App: app}
	m := appModel{
		state:  state,
		active: ViewCalendar,
		views: map[ViewID]View{
			ViewCalendar: newCalendarView(state),
			ViewDay:      newDayView(state),
			ViewTimeline: newTimelineView(state),
		},
	}
	if app.Feed != nil {
		m.sub = app.Feed.Subscribe()
	}
	return m
}

func (m appModel) activeView() View { return m.views[m.active] }

// waitForChange blocks on the change feed and resolves to a
// dataChangedMsg. Re-issued after every delivery.
func (m appModel) waitForChange() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		ev, ok := <-sub.C
		if !ok {
			return nil
		}
		return dataChangedMsg{kind: ev.Kind}
	}
}

// ── bubbletea interface ─────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.activeView().Init(), m.waitForChange())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.forwardToAll(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !capturesInput(m.activeView()) {
				m.quitting = true
				if m.sub != nil {
					m.sub.Cancel()
				}
				return m, tea.Quit
			}
		case "1":
			if !capturesInput(m.activeView()) {
				return m.switchTo(ViewCalendar)
			}
		case "2":
			if !capturesInput(m.activeView()) {
				return m.switchTo(ViewDay)
			}
		case "3":
			if !capturesInput(m.activeView()) {
				return m.switchTo(ViewTimeline)
			}
		}
		return m, m.forwardToActive(msg)

	case switchViewMsg:
		return m.switchTo(msg.id)

	case openDayMsg:
		day := m.views[ViewDay].(*dayView)
		day.SetDay(msg.day)
		model, cmd := m.switchTo(ViewDay)
		return model, cmd

	case dataChangedMsg:
		// The store changed: every view recomputes from a fresh snapshot.
		return m, tea.Batch(m.forwardToAll(refreshViewMsg{}), m.waitForChange())

	case refreshViewMsg:
		return m, m.forwardToAll(msg)
	}

	return m, m.forwardToActive(msg)
}

func (m appModel) switchTo(id ViewID) (tea.Model, tea.Cmd) {
	if m.active == id {
		return m, nil
	}
	m.active = id
	return m, m.views[id].Init()
}

func (m appModel) forwardToActive(msg tea.Msg) tea.Cmd {
	updated, cmd := m.activeView().Update(msg)
	m.views[m.active] = updated.(View)
	return cmd
}

func (m appModel) forwardToAll(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for id, v := range m.views {
		updated, cmd := v.Update(msg)
		m.views[id] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(formatter.StyleDim.Render(strings.Repeat("─", max(1, m.state.Width))))
	b.WriteString("\n")
	b.WriteString(m.activeView().View())
	b.WriteString("\n")
	b.WriteString(formatter.StyleDim.Render(strings.Repeat("─", max(1, m.state.Width))))
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m appModel) headerLine() string {
	tabs := []struct {
		id    ViewID
		label string
	}{
		{ViewCalendar, "1:Calendar"},
		{ViewDay, "2:Day"},
		{ViewTimeline, "3:Timeline"},
	}

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.id == m.active {
			parts = append(parts, formatter.StyleHeader.Render(tab.label))
		} else {
			parts = append(parts, formatter.StyleDim.Render(tab.label))
		}
	}
	title := formatter.Bold(m.activeView().Title())
	return fmt.Sprintf("%s  %s", strings.Join(parts, " "), title)
}

func (m appModel) helpLine() string {
	bindings := m.activeView().ShortHelp()
	parts := make([]string, 0, len(bindings)+1)
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s",
			formatter.StyleFg.Render(h.Key), formatter.StyleDim.Render(h.Desc)))
	}
	parts = append(parts, fmt.Sprintf("%s %s", formatter.StyleFg.Render("q"), formatter.StyleDim.Render("quit")))
	return lipgloss.NewStyle().MaxWidth(max(1, m.state.Width)).Render(strings.Join(parts, "  "))
}

// inputCapturer lets a view keep global keys (q, 1-3) for itself while a
// text form is focused.
type inputCapturer interface {
	CapturesInput() bool
}

func capturesInput(v View) bool {
	if c, ok := v.(inputCapturer); ok {
		return c.CapturesInput()
	}
	return false
}

// runTUI starts the bubbletea program with mouse support for drag
// rescheduling.
func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
