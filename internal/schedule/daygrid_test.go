package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gridDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // a Tuesday

func gridItem(id string, start time.Time, durationMin int) SchedulableItem {
	it := SchedulableItem{ID: id, Kind: KindTask, Title: id, DurationMin: durationMin}
	if !start.IsZero() {
		it.Start = At(start)
	}
	return it
}

func TestBuildDayGrid_Slots(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{Day: gridDay, Config: DefaultConfig()})

	// 06:00-23:00 at half-hour granularity.
	require.Len(t, grid.Slots, 34)
	assert.Equal(t, Slot{Hour: 6, Minute: 0, Working: false}, grid.Slots[0])
	assert.Equal(t, Slot{Hour: 6, Minute: 30, Working: false}, grid.Slots[1])
	assert.Equal(t, Slot{Hour: 22, Minute: 30, Working: false}, grid.Slots[33])

	working := 0
	for _, s := range grid.Slots {
		if s.Working {
			working++
		}
	}
	assert.Equal(t, 16, working, "09:00-17:00 spans sixteen half-hour slots")
	assert.True(t, grid.Slots[6].Working, "09:00 opens the working hours")
	assert.False(t, grid.Slots[22].Working, "17:00 is past them")
}

func TestBuildDayGrid_Placement(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day: gridDay,
		Items: []SchedulableItem{
			gridItem("nine", gridDay.Add(9*time.Hour), 60),
			gridItem("quarter-past-ten", gridDay.Add(10*time.Hour+15*time.Minute), 45),
		},
		Config: DefaultConfig(),
	})

	require.Len(t, grid.Blocks, 2)

	// 09:00 with the grid opening at 06:00: six slots down.
	nine := grid.Blocks[0]
	assert.Equal(t, "nine", nine.Item.ID)
	assert.Equal(t, 6*40, nine.TopOffsetPx)
	assert.Equal(t, 2*40-4, nine.HeightPx)

	// 10:15 is eight and a half slots down; 45 min is one and a half slots.
	quarter := grid.Blocks[1]
	assert.Equal(t, 340, quarter.TopOffsetPx)
	assert.Equal(t, 56, quarter.HeightPx)
}

func TestBuildDayGrid_DefaultDuration(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day:    gridDay,
		Items:  []SchedulableItem{gridItem("no-duration", gridDay.Add(9*time.Hour), 0)},
		Config: DefaultConfig(),
	})

	require.Len(t, grid.Blocks, 1)
	assert.Equal(t, 40-4, grid.Blocks[0].HeightPx, "missing duration places a default 30-minute block")
	assert.Equal(t, DefaultDurationMin, grid.Utilization.ScheduledMin)
}

func TestBuildDayGrid_OtherDaysIgnored(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day: gridDay,
		Items: []SchedulableItem{
			gridItem("today", gridDay.Add(9*time.Hour), 30),
			gridItem("tomorrow", gridDay.AddDate(0, 0, 1).Add(9*time.Hour), 30),
		},
		Config: DefaultConfig(),
	})

	require.Len(t, grid.Blocks, 1)
	assert.Equal(t, "today", grid.Blocks[0].Item.ID)
	assert.Empty(t, grid.Unscheduled, "items scheduled elsewhere are not unscheduled")
}

func TestBuildDayGrid_Utilization(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day: gridDay,
		Items: []SchedulableItem{
			gridItem("long", gridDay.Add(9*time.Hour), 300),
			gridItem("longer", gridDay.Add(14*time.Hour), 200),
		},
		Config: DefaultConfig(),
	})

	assert.Equal(t, 500, grid.Utilization.ScheduledMin)
	assert.Equal(t, 480, grid.Utilization.AvailableMin)
	assert.Equal(t, 104, grid.Utilization.Percent)
	assert.True(t, grid.Utilization.Overbooked)
	assert.True(t, grid.Utilization.NearCapacity)
}

func TestBuildDayGrid_NearCapacityNotOverbooked(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day:    gridDay,
		Items:  []SchedulableItem{gridItem("most-of-the-day", gridDay.Add(9*time.Hour), 400)},
		Config: DefaultConfig(),
	})

	assert.Equal(t, 83, grid.Utilization.Percent)
	assert.True(t, grid.Utilization.NearCapacity)
	assert.False(t, grid.Utilization.Overbooked)
}

func TestBuildDayGrid_UnscheduledSidebar(t *testing.T) {
	noDue := SchedulableItem{ID: "imported-dateless", Kind: KindTask, Title: "imported"}
	withDue := SchedulableItem{ID: "due-later", Kind: KindTask, Due: At(gridDay.AddDate(0, 0, 5))}
	completed := SchedulableItem{ID: "done", Kind: KindTask, Completed: true}

	grid := BuildDayGrid(DayGridInput{
		Day:    gridDay,
		Items:  []SchedulableItem{noDue, withDue, completed},
		Config: DefaultConfig(),
	})

	ids := make([]string, 0, len(grid.Unscheduled))
	for _, it := range grid.Unscheduled {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []string{"imported-dateless", "due-later"}, ids,
		"unscheduled includes items with no due date but never completed ones")
}

func TestBuildDayGrid_BlocksSortedByOffset(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day: gridDay,
		Items: []SchedulableItem{
			gridItem("late", gridDay.Add(15*time.Hour), 30),
			gridItem("early", gridDay.Add(7*time.Hour), 30),
			gridItem("mid", gridDay.Add(11*time.Hour), 30),
		},
		Config: DefaultConfig(),
	})

	require.Len(t, grid.Blocks, 3)
	assert.Equal(t, "early", grid.Blocks[0].Item.ID)
	assert.Equal(t, "mid", grid.Blocks[1].Item.ID)
	assert.Equal(t, "late", grid.Blocks[2].Item.ID)
}

func TestBuildDayGrid_BeforeGridStart(t *testing.T) {
	grid := BuildDayGrid(DayGridInput{
		Day:    gridDay,
		Items:  []SchedulableItem{gridItem("early-bird", gridDay.Add(5*time.Hour), 30)},
		Config: DefaultConfig(),
	})

	require.Len(t, grid.Blocks, 1)
	assert.Negative(t, grid.Blocks[0].TopOffsetPx, "placement stays pure; clipping is the renderer's concern")
}
