package formatter

import (
	"fmt"
	"time"
)

// Minutes formats a duration in minutes as "45m" or "2h30m".
func Minutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	h, m := min/60, min%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// ClockTime formats an hour and minute as "09:30".
func ClockTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// DayHeading formats a day like "Tue Mar 10, 2026".
func DayHeading(d time.Time) string {
	return d.Format("Mon Jan 2, 2006")
}

// ShortDate formats a date like "Mar 10".
func ShortDate(d time.Time) string {
	return d.Format("Jan 2")
}

// RelativeDay names a day relative to today: "today", "tomorrow",
// "yesterday", or the short date.
func RelativeDay(d, today time.Time) string {
	dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	td := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, d.Location())
	switch dd.Sub(td) / (24 * time.Hour) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	default:
		return ShortDate(d)
	}
}

// Truncate shortens s to max runes, ending in "…" when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
