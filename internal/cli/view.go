package cli

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanmarch/tempo/internal/service"
)

// ViewID identifies each view in the TUI.
type ViewID int

const (
	ViewCalendar ViewID = iota
	ViewDay
	ViewTimeline
)

// View is the interface all TUI views implement. It extends tea.Model
// with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // heading segment for this view
}

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the height left for view content after the
// header (2 lines) and the help bar (2 lines).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// ── messages ────────────────────────────────────────────────────────────────

// switchViewMsg asks the app model to activate another view.
type switchViewMsg struct{ id ViewID }

// openDayMsg switches to the day view focused on a specific day.
type openDayMsg struct{ day time.Time }

// refreshViewMsg tells views to reload their data from a fresh snapshot.
// Broadcast to every view after any mutation, so each derives its view
// model again from the current entity lists.
type refreshViewMsg struct{}

// dataChangedMsg carries one coalesced change-feed notification.
type dataChangedMsg struct{ kind service.ChangeKind }
