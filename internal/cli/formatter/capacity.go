package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// CapacityBar renders a day's capacity like [████████░░] 135%. The drawn
// bar clamps at 100% so layout cannot overflow, but the printed number is
// the raw uncapped percentage: values past 100 are the overbooking signal
// and must stay visible.
func CapacityBar(percent, width int) string {
	if width < 2 {
		width = 2
	}

	visual := percent
	if visual < 0 {
		visual = 0
	}
	if visual > 100 {
		visual = 100
	}

	filled := visual * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %s", CapacityStyle(percent).Render(bar), CapacityLabel(percent))
}

// CapacityLabel renders the uncapped percentage, colored by load.
func CapacityLabel(percent int) string {
	return CapacityStyle(percent).Render(fmt.Sprintf("%d%%", percent))
}

// CapacityStyle colors by load: red when overbooked, yellow when near
// capacity, green otherwise. Thresholds match the engine's flags.
func CapacityStyle(percent int) lipgloss.Style {
	switch {
	case percent > 100:
		return StyleRed
	case percent > 80:
		return StyleYellow
	default:
		return StyleGreen
	}
}
