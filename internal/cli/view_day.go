package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanmarch/tempo/internal/cli/formatter"
	"github.com/evanmarch/tempo/internal/schedule"
)

// dayLoadedMsg delivers a freshly derived day grid.
type dayLoadedMsg struct {
	day  time.Time
	grid schedule.DayGrid
	err  error
}

// dayViewSlotTop is the absolute screen row of the first rendered slot:
// two app-header lines plus the view's heading and utilization lines.
const dayViewSlotTop = 4

// dayView renders one focus day as a slot grid with an unscheduled
// sidebar, and hosts the drag-to-reschedule coordinator. Items can be
// moved with the keyboard (grab, steer, drop) or the mouse.
type dayView struct {
	state *SharedState
	coord *schedule.Coordinator

	day     time.Time
	grid    schedule.DayGrid
	loading bool
	err     error

	// cursor walks the selectable items: placed blocks first, then the
	// unscheduled sidebar.
	cursor    int
	hoverSlot int // slot index steered while dragging
	scroll    int // first visible slot row

	quickAdd *quickAddForm
}

func newDayView(state *SharedState) *dayView {
	now := time.Now()
	return &dayView{
		state:   state,
		coord:   schedule.NewCoordinator(state.App.Schedule, slog.Default()),
		day:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		loading: true,
	}
}

func (v *dayView) ID() ViewID    { return ViewDay }
func (v *dayView) Title() string { return formatter.DayHeading(v.day) }

// SetDay refocuses the view on another day; the caller re-runs Init.
func (v *dayView) SetDay(day time.Time) {
	v.day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	v.cursor = 0
	v.scroll = 0
}

func (v *dayView) ShortHelp() []key.Binding {
	if v.coord.State() != schedule.StateIdle {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "steer slot")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "select")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g/enter", "grab")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick add")),
		key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "prev/next day")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	}
}

// CapturesInput reports whether the quick-add form owns the keyboard.
func (v *dayView) CapturesInput() bool { return v.quickAdd != nil }

func (v *dayView) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *dayView) load() tea.Cmd {
	app := v.state.App
	day := v.day
	return func() tea.Msg {
		grid, err := app.Schedule.DayView(context.Background(), day)
		return dayLoadedMsg{day: day, grid: grid, err: err}
	}
}

func (v *dayView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.quickAdd != nil {
		return v.updateQuickAdd(msg)
	}

	switch msg := msg.(type) {
	case dayLoadedMsg:
		if !msg.day.Equal(v.day) {
			return v, nil // stale load from before a day switch
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.grid = msg.grid
			if v.cursor >= v.selectableCount() {
				v.cursor = 0
			}
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}
	return v, nil
}

// ── keyboard path ───────────────────────────────────────────────────────────

func (v *dayView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dragging := v.coord.State() != schedule.StateIdle

	switch msg.String() {
	case "up", "k":
		if dragging {
			v.steerHover(-1)
		} else {
			v.moveCursor(-1)
		}
	case "down", "j":
		if dragging {
			v.steerHover(1)
		} else {
			v.moveCursor(1)
		}
	case "g", "enter":
		if dragging {
			return v, v.drop()
		}
		v.grabSelected()
	case "esc":
		v.coord.Cancel()
	case "a":
		v.openQuickAdd()
		return v, v.quickAdd.form.Init()
	case "[":
		if !dragging {
			v.SetDay(v.day.AddDate(0, 0, -1))
			return v, v.Init()
		}
	case "]":
		if !dragging {
			v.SetDay(v.day.AddDate(0, 0, 1))
			return v, v.Init()
		}
	case "t":
		if !dragging {
			v.SetDay(time.Now())
			return v, v.Init()
		}
	case "r":
		return v, v.load()
	}
	return v, nil
}

// grabSelected begins a drag from the item under the cursor, hovering
// its current slot (or the start of working hours for sidebar items).
func (v *dayView) grabSelected() {
	item, ok := v.selectedItem()
	if !ok {
		return
	}
	v.coord.Grab(item)

	cfg := v.state.App.ScheduleConfig()
	if item.Scheduled() {
		v.hoverSlot = v.slotIndexOf(item)
	} else {
		v.hoverSlot = (cfg.WorkStartHour - cfg.GridStartHour) * 60 / schedule.SlotMinutes
	}
	v.hoverCurrent()
}

func (v *dayView) steerHover(delta int) {
	next := v.hoverSlot + delta
	if next >= 0 && next < len(v.grid.Slots) {
		v.hoverSlot = next
		v.hoverCurrent()
	}
}

func (v *dayView) hoverCurrent() {
	if v.hoverSlot >= 0 && v.hoverSlot < len(v.grid.Slots) {
		slot := v.grid.Slots[v.hoverSlot]
		v.coord.HoverSlot(schedule.SlotRef{Hour: slot.Hour, Minute: slot.Minute})
		v.ensureVisible(v.hoverSlot)
	}
}

// drop commits the drag and asks every view to re-derive its model.
func (v *dayView) drop() tea.Cmd {
	v.coord.Drop(context.Background(), v.day)
	return func() tea.Msg { return refreshViewMsg{} }
}

// ── mouse path ──────────────────────────────────────────────────────────────

func (v *dayView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	slot := v.slotAtRow(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return v, nil
		}
		if item, ok := v.blockAtSlot(slot); ok {
			v.coord.Grab(item)
			v.hoverSlot = slot
			v.hoverCurrent()
		}

	case tea.MouseActionMotion:
		if v.coord.State() == schedule.StateIdle {
			return v, nil
		}
		if slot < 0 {
			// Pointer left the slot area: stale hover state is cleared
			// but the drag stays alive.
			v.coord.ClearHover()
			return v, nil
		}
		v.hoverSlot = slot
		v.hoverCurrent()

	case tea.MouseActionRelease:
		if v.coord.State() == schedule.StateIdle {
			return v, nil
		}
		// Releasing outside any slot behaves as cancel inside Drop.
		return v, v.drop()
	}
	return v, nil
}

// slotAtRow maps an absolute screen row to a slot index, -1 when the
// row is outside the rendered slot area.
func (v *dayView) slotAtRow(row int) int {
	slot := row - dayViewSlotTop + v.scroll
	if slot < 0 || slot >= len(v.grid.Slots) {
		return -1
	}
	return slot
}

// blockAtSlot finds the placed block covering a slot index.
func (v *dayView) blockAtSlot(slot int) (schedule.SchedulableItem, bool) {
	if slot < 0 {
		return schedule.SchedulableItem{}, false
	}
	for _, block := range v.grid.Blocks {
		start := v.slotIndexOf(block.Item)
		span := (block.Item.EffectiveDuration() + schedule.SlotMinutes - 1) / schedule.SlotMinutes
		if slot >= start && slot < start+span {
			return block.Item, true
		}
	}
	return schedule.SchedulableItem{}, false
}

// slotIndexOf maps an item's start to its slot row.
func (v *dayView) slotIndexOf(item schedule.SchedulableItem) int {
	cfg := v.state.App.ScheduleConfig()
	minutes := item.Start.MinutesOfDay(v.day.Location()) - cfg.GridStartHour*60
	idx := minutes / schedule.SlotMinutes
	if idx < 0 {
		return 0
	}
	if idx >= len(v.grid.Slots) {
		return len(v.grid.Slots) - 1
	}
	return idx
}

// ── selection ───────────────────────────────────────────────────────────────

func (v *dayView) selectableCount() int {
	return len(v.grid.Blocks) + len(v.grid.Unscheduled)
}

func (v *dayView) selectedItem() (schedule.SchedulableItem, bool) {
	if v.cursor < len(v.grid.Blocks) {
		return v.grid.Blocks[v.cursor].Item, true
	}
	i := v.cursor - len(v.grid.Blocks)
	if i < len(v.grid.Unscheduled) {
		return v.grid.Unscheduled[i], true
	}
	return schedule.SchedulableItem{}, false
}

func (v *dayView) moveCursor(delta int) {
	next := v.cursor + delta
	if next >= 0 && next < v.selectableCount() {
		v.cursor = next
		if next < len(v.grid.Blocks) {
			v.ensureVisible(v.slotIndexOf(v.grid.Blocks[next].Item))
		}
	}
}

func (v *dayView) visibleSlots() int {
	// Heading, utilization, and sidebar share the content area.
	h := v.state.ContentHeight() - 3 - len(v.grid.Unscheduled)
	if h < 6 {
		h = 6
	}
	return h
}

func (v *dayView) ensureVisible(slot int) {
	if slot < v.scroll {
		v.scroll = slot
	}
	if slot >= v.scroll+v.visibleSlots() {
		v.scroll = slot - v.visibleSlots() + 1
	}
}

// ── rendering ───────────────────────────────────────────────────────────────

func (v *dayView) View() string {
	if v.quickAdd != nil {
		return v.quickAdd.form.View()
	}
	if v.loading {
		return formatter.Dim("Loading…")
	}
	if v.err != nil {
		return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", v.err))
	}

	var b strings.Builder
	b.WriteString(v.utilizationLine())
	b.WriteString("\n")

	_, hovering := v.coord.Hovered()
	end := v.scroll + v.visibleSlots()
	if end > len(v.grid.Slots) {
		end = len(v.grid.Slots)
	}
	for i := v.scroll; i < end; i++ {
		b.WriteString(v.renderSlotRow(i, hovering && i == v.hoverSlot))
		b.WriteString("\n")
	}

	b.WriteString(v.renderSidebar())
	return b.String()
}

func (v *dayView) utilizationLine() string {
	u := v.grid.Utilization
	line := fmt.Sprintf("%s of %s booked  %s",
		formatter.Minutes(u.ScheduledMin),
		formatter.Minutes(u.AvailableMin),
		formatter.CapacityBar(u.Percent, 12))
	if u.Overbooked {
		line += "  " + formatter.StyleRed.Render("OVERBOOKED")
	} else if u.NearCapacity {
		line += "  " + formatter.StyleYellow.Render("near capacity")
	}
	if dragged, ok := v.coord.Dragged(); ok {
		line += "  " + formatter.StylePurple.Render(fmt.Sprintf("moving: %s", dragged.Title))
	}
	return line
}

func (v *dayView) renderSlotRow(i int, hovered bool) string {
	slot := v.grid.Slots[i]

	timeLabel := formatter.Dim(formatter.ClockTime(slot.Hour, slot.Minute))
	rule := formatter.StyleDim.Render("│")
	if slot.Working {
		rule = formatter.StyleBlue.Render("│")
	}

	content := ""
	if item, ok := v.blockStartingAt(i); ok {
		selected := false
		if sel, selOK := v.selectedItem(); selOK && sel.ID == item.ID {
			selected = true
		}
		content = v.renderBlockLabel(item, selected)
	} else if v.slotCovered(i) {
		content = formatter.Dim("┆")
	}

	if hovered {
		return fmt.Sprintf("%s %s %s %s", timeLabel, rule,
			formatter.StylePurple.Render("◆ drop here"), content)
	}
	return fmt.Sprintf("%s %s %s", timeLabel, rule, content)
}

func (v *dayView) blockStartingAt(slot int) (schedule.SchedulableItem, bool) {
	for _, block := range v.grid.Blocks {
		if v.slotIndexOf(block.Item) == slot {
			return block.Item, true
		}
	}
	return schedule.SchedulableItem{}, false
}

func (v *dayView) slotCovered(slot int) bool {
	_, ok := v.blockAtSlot(slot)
	return ok
}

func (v *dayView) renderBlockLabel(item schedule.SchedulableItem, selected bool) string {
	marker := "■"
	style := formatter.StyleBlue
	if item.Kind == schedule.KindHabit {
		marker = "◆"
		style = formatter.StylePurple
	}
	if item.Completed {
		style = formatter.StyleDim
	}

	label := fmt.Sprintf("%s %s (%s)", marker, item.Title, formatter.Minutes(item.EffectiveDuration()))
	if item.Completed {
		label += " ✓"
	}
	if selected {
		return style.Bold(true).Underline(true).Render(label)
	}
	return style.Render(label)
}

func (v *dayView) renderSidebar() string {
	if len(v.grid.Unscheduled) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Bold("Unscheduled"))
	b.WriteString("\n")
	for i, item := range v.grid.Unscheduled {
		cursor := " "
		if v.cursor == len(v.grid.Blocks)+i {
			cursor = formatter.StyleHeader.Render(">")
		}
		due := ""
		if item.Due.Valid() {
			due = formatter.Dim(fmt.Sprintf("  due %s", formatter.ShortDate(item.Due.Time(v.day.Location()))))
		}
		b.WriteString(fmt.Sprintf("%s %s (%s)%s\n", cursor, item.Title,
			formatter.Minutes(item.EffectiveDuration()), due))
	}
	return b.String()
}
