package schedule

import (
	"math"
	"time"
)

// MonthInput carries everything BuildMonth needs: the anchor picks the
// target month, Now marks today, Items is the flattened entity snapshot.
type MonthInput struct {
	Anchor time.Time
	Now    time.Time
	Items  []SchedulableItem
	Config Config
}

// DayCell is one cell of the month grid, recomputed from the current
// snapshot on every pass.
type DayCell struct {
	Date      time.Time
	InMonth   bool
	IsToday   bool
	IsWeekend bool

	Due                []SchedulableItem
	Scheduled          []SchedulableItem
	CompletedScheduled []SchedulableItem
	UnscheduledDue     []SchedulableItem
	NeedsAttention     []SchedulableItem

	ScheduledMin    int
	AvailableMin    int
	CapacityPercent int
}

// MonthRange returns the first and last day of the grid BuildMonth will
// produce for the anchor: the Sunday on or before the 1st through the
// Saturday on or after the month's last day. Callers use it to bound the
// data they load before building.
func MonthRange(anchor time.Time) (time.Time, time.Time) {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return gridStart, gridEnd
}

// BuildMonth computes the calendar grid for the anchor's month. The grid
// always spans whole weeks: the first cell is a Sunday, the last a
// Saturday, with leading and trailing out-of-month days filled in.
func BuildMonth(in MonthInput) []DayCell {
	loc := in.Anchor.Location()
	gridStart, gridEnd := MonthRange(in.Anchor)

	today := truncateDay(in.Now.In(loc))

	var cells []DayCell
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		cells = append(cells, buildDayCell(d, in.Anchor.Month(), today, in.Items, in.Config, loc))
	}
	return cells
}

func buildDayCell(date time.Time, month time.Month, today time.Time, items []SchedulableItem, cfg Config, loc *time.Location) DayCell {
	cell := DayCell{
		Date:         date,
		InMonth:      date.Month() == month,
		IsToday:      date.Equal(today),
		IsWeekend:    date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
		AvailableMin: cfg.AvailableMinutes(date.Weekday()),
	}

	day := At(date)
	for _, it := range items {
		dueHere := SameDay(it.Due, day, loc)
		schedHere := it.Scheduled() && SameDay(it.Start, day, loc)

		if dueHere {
			cell.Due = append(cell.Due, it)
		}
		if schedHere {
			cell.Scheduled = append(cell.Scheduled, it)
			cell.ScheduledMin += it.EffectiveDuration()
			if it.Completed {
				cell.CompletedScheduled = append(cell.CompletedScheduled, it)
			}
		}

		// Completed items never demand attention, whatever their dates.
		if !dueHere || it.Completed {
			continue
		}
		if !it.Scheduled() {
			cell.UnscheduledDue = append(cell.UnscheduledDue, it)
			cell.NeedsAttention = append(cell.NeedsAttention, it)
		} else if !schedHere {
			cell.NeedsAttention = append(cell.NeedsAttention, it)
		}
	}

	cell.CapacityPercent = CapacityPercent(cell.ScheduledMin, cell.AvailableMin)
	return cell
}

// CapacityPercent is scheduled minutes over available minutes as a
// rounded percentage. The value is deliberately uncapped: anything past
// 100 signals overbooking and must survive to the caller. Zero available
// minutes yields zero.
func CapacityPercent(scheduledMin, availableMin int) int {
	if availableMin == 0 {
		return 0
	}
	return int(math.Round(float64(scheduledMin) / float64(availableMin) * 100))
}
