package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildMonth_Invariants_GridShape property-tests the calendar grid
// shape: whole weeks only, Sunday first, Saturday last, every day of the
// month present exactly once.
func TestBuildMonth_Invariants_GridShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		year := 2000 + rng.Intn(60)
		month := time.Month(rng.Intn(12) + 1)
		day := rng.Intn(28) + 1

		cells := BuildMonth(MonthInput{
			Anchor: time.Date(year, month, day, rng.Intn(24), 0, 0, 0, time.UTC),
			Config: DefaultConfig(),
		})

		require.NotEmpty(t, cells, "trial %d", trial)
		assert.Equal(t, 0, len(cells)%7,
			"trial %d: %d-%02d produced %d cells, not a multiple of 7", trial, year, month, len(cells))
		assert.Equal(t, time.Sunday, cells[0].Date.Weekday(),
			"trial %d: grid must start on Sunday", trial)
		assert.Equal(t, time.Saturday, cells[len(cells)-1].Date.Weekday(),
			"trial %d: grid must end on Saturday", trial)

		inMonth := make(map[int]bool)
		for i, c := range cells {
			if i > 0 {
				assert.Equal(t, 24*time.Hour, c.Date.Sub(cells[i-1].Date),
					"trial %d: cells must be consecutive days", trial)
			}
			if c.InMonth {
				inMonth[c.Date.Day()] = true
			}
		}
		daysInMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
		assert.Len(t, inMonth, daysInMonth,
			"trial %d: every day of %d-%02d appears exactly once", trial, year, month)
	}
}

// TestCapacityPercent_Invariants_NeverClamped checks that capacity keeps
// growing past 100 instead of saturating.
func TestCapacityPercent_Invariants_NeverClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		available := rng.Intn(480) + 1
		scheduled := rng.Intn(available * 3)

		got := CapacityPercent(scheduled, available)
		assert.GreaterOrEqual(t, got, 0, "trial %d", trial)

		more := CapacityPercent(scheduled+available, available)
		assert.Equal(t, got+100, more,
			"trial %d: adding a full day of load adds exactly 100 points, capped nowhere", trial)
	}
}

// TestMapToColumns_Invariants_SpanWithinWindow checks that every visible
// span is positive and inside the window, whatever the range.
func TestMapToColumns_Invariants_SpanWithinWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 200; trial++ {
		w := NewWindow(base.AddDate(0, 0, rng.Intn(365)), rng.Intn(60)+1)

		start := base.AddDate(0, 0, rng.Intn(500)-60)
		end := start.AddDate(0, 0, rng.Intn(90)-30)

		span, ok := w.MapToColumns(At(start), At(end))
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, span.StartIdx, 0, "trial %d", trial)
		assert.Greater(t, span.EndIdx, span.StartIdx,
			"trial %d: visible spans are strictly positive", trial)
		assert.LessOrEqual(t, span.EndIdx, w.Len(), "trial %d", trial)
		assert.Greater(t, span.WidthPercent, 0.0, "trial %d", trial)
		assert.LessOrEqual(t, span.LeftPercent+span.WidthPercent, 100.0+1e-9, "trial %d", trial)
	}
}

// TestBuildDayGrid_Invariants_UtilizationMatchesBlocks checks that the
// utilization sum always equals the placed blocks' effective durations.
func TestBuildDayGrid_Invariants_UtilizationMatchesBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(10)
		items := make([]SchedulableItem, 0, n)
		for i := 0; i < n; i++ {
			it := SchedulableItem{
				ID:          "it",
				Kind:        KindTask,
				DurationMin: rng.Intn(200) - 20, // occasionally negative or zero
			}
			switch rng.Intn(3) {
			case 0:
				it.Start = At(day.Add(time.Duration(rng.Intn(24*60)) * time.Minute))
			case 1:
				it.Start = At(day.AddDate(0, 0, 1+rng.Intn(5)))
			}
			items = append(items, it)
		}

		grid := BuildDayGrid(DayGridInput{Day: day, Items: items, Config: DefaultConfig()})

		sum := 0
		for _, b := range grid.Blocks {
			assert.Positive(t, b.Item.EffectiveDuration(), "trial %d: durations default, never degenerate", trial)
			sum += b.Item.EffectiveDuration()
		}
		assert.Equal(t, sum, grid.Utilization.ScheduledMin,
			"trial %d: utilization equals the placed blocks' durations", trial)
	}
}
