package schedule

import (
	"strings"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
)

const dayLayout = "2006-01-02"

// OccurrenceID derives the stable per-day ID of a habit occurrence.
// Occurrences are expansions, not rows; the ID ties a placed block back
// to its habit and day.
func OccurrenceID(habitID string, day time.Time) string {
	return habitID + "@" + day.Format(dayLayout)
}

// SplitOccurrenceID recovers the habit ID and day from an occurrence ID.
func SplitOccurrenceID(id string) (habitID string, day time.Time, ok bool) {
	i := strings.LastIndex(id, "@")
	if i < 0 {
		return "", time.Time{}, false
	}
	d, err := time.Parse(dayLayout, id[i+1:])
	if err != nil {
		return "", time.Time{}, false
	}
	return id[:i], d, true
}

// ExpandHabits produces one SchedulableItem per habit occurrence on each
// day of [from, to] inclusive. Occurrences are placed at the habit's
// preferred time of day; a log row for the day marks one completed.
// Paused habits expand to nothing.
func ExpandHabits(habits []*domain.Habit, logs []*domain.HabitLog, from, to time.Time) []SchedulableItem {
	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.HabitID+"|"+l.Day.Format(dayLayout)] = true
	}

	first := truncateDay(from)
	last := truncateDay(to)

	var items []SchedulableItem
	for _, h := range habits {
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if !h.OccursOn(d) {
				continue
			}
			start := time.Date(d.Year(), d.Month(), d.Day(), h.PreferredHour, h.PreferredMinute, 0, 0, d.Location())
			items = append(items, SchedulableItem{
				ID:          OccurrenceID(h.ID, d),
				Kind:        KindHabit,
				Title:       h.Title,
				Due:         At(d),
				Start:       At(start),
				DurationMin: h.DurationMin,
				Completed:   logged[h.ID+"|"+d.Format(dayLayout)],
			})
		}
	}
	return items
}
