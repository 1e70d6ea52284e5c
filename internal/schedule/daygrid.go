package schedule

import (
	"math"
	"sort"
	"time"
)

// SlotMinutes is the fixed slot granularity of the day grid.
const SlotMinutes = 30

// Config carries the calendar and slot-grid dimensions. The grid hours
// bound what is rendered; the work hours bound what counts as capacity.
type Config struct {
	GridStartHour int
	GridEndHour   int // exclusive
	WorkStartHour int
	WorkEndHour   int // exclusive
	SlotHeightPx  int
	BlockGapPx    int
}

// DefaultConfig returns the stock dimensions: grid 06:00-23:00, working
// hours 09:00-17:00, 40px slots with a 4px gap between blocks.
func DefaultConfig() Config {
	return Config{
		GridStartHour: 6,
		GridEndHour:   23,
		WorkStartHour: 9,
		WorkEndHour:   17,
		SlotHeightPx:  40,
		BlockGapPx:    4,
	}
}

// WorkingMinutes is the total bookable minutes of a working day.
func (c Config) WorkingMinutes() int {
	return (c.WorkEndHour - c.WorkStartHour) * 60
}

// AvailableMinutes returns the bookable minutes for a weekday. Weekends
// have none.
func (c Config) AvailableMinutes(d time.Weekday) int {
	if d == time.Saturday || d == time.Sunday {
		return 0
	}
	return c.WorkingMinutes()
}

// Slot is one fixed-size row of the day grid.
type Slot struct {
	Hour    int
	Minute  int
	Working bool // inside the configured working hours
}

// PlacedBlock is a scheduled item positioned within the day's slot grid.
// Offsets can be negative for items starting before the grid; clipping
// is the renderer's concern.
type PlacedBlock struct {
	Item        SchedulableItem
	TopOffsetPx int
	HeightPx    int
}

// Utilization aggregates scheduled-vs-available minutes for one day.
// Percent is uncapped; both flags derive from it.
type Utilization struct {
	ScheduledMin int
	AvailableMin int
	Percent      int
	Overbooked   bool // >100
	NearCapacity bool // >80
}

// DayGrid is the derived view model for one focus day.
type DayGrid struct {
	Day         time.Time
	Slots       []Slot
	Blocks      []PlacedBlock
	Unscheduled []SchedulableItem
	Utilization Utilization
}

// DayGridInput carries one focus day plus the flattened entity snapshot.
type DayGridInput struct {
	Day    time.Time
	Items  []SchedulableItem
	Config Config
}

// BuildDayGrid partitions the day into fixed slots, places every item
// scheduled on the day at its slot offset, and aggregates utilization.
// Items scheduled on other days are ignored; non-completed items with no
// scheduled start at all land in Unscheduled whether or not they carry a
// due date.
func BuildDayGrid(in DayGridInput) DayGrid {
	loc := in.Day.Location()
	day := At(truncateDay(in.Day))

	grid := DayGrid{
		Day:   truncateDay(in.Day),
		Slots: buildSlots(in.Config),
	}

	for _, it := range in.Items {
		if !it.Scheduled() {
			if !it.Completed {
				grid.Unscheduled = append(grid.Unscheduled, it)
			}
			continue
		}
		if !SameDay(it.Start, day, loc) {
			continue
		}
		grid.Blocks = append(grid.Blocks, placeBlock(it, in.Config, loc))
		grid.Utilization.ScheduledMin += it.EffectiveDuration()
	}

	sort.SliceStable(grid.Blocks, func(i, j int) bool {
		return grid.Blocks[i].TopOffsetPx < grid.Blocks[j].TopOffsetPx
	})

	grid.Utilization.AvailableMin = in.Config.WorkingMinutes()
	grid.Utilization.Percent = CapacityPercent(grid.Utilization.ScheduledMin, grid.Utilization.AvailableMin)
	grid.Utilization.Overbooked = grid.Utilization.Percent > 100
	grid.Utilization.NearCapacity = grid.Utilization.Percent > 80
	return grid
}

func buildSlots(cfg Config) []Slot {
	var slots []Slot
	for h := cfg.GridStartHour; h < cfg.GridEndHour; h++ {
		working := h >= cfg.WorkStartHour && h < cfg.WorkEndHour
		for m := 0; m < 60; m += SlotMinutes {
			slots = append(slots, Slot{Hour: h, Minute: m, Working: working})
		}
	}
	return slots
}

func placeBlock(it SchedulableItem, cfg Config, loc *time.Location) PlacedBlock {
	minutes := it.Start.MinutesOfDay(loc) - cfg.GridStartHour*60
	top := float64(minutes) / SlotMinutes * float64(cfg.SlotHeightPx)
	height := float64(it.EffectiveDuration())/SlotMinutes*float64(cfg.SlotHeightPx) - float64(cfg.BlockGapPx)
	return PlacedBlock{
		Item:        it,
		TopOffsetPx: int(math.Round(top)),
		HeightPx:    int(math.Round(height)),
	}
}
