package schedule

import "time"

// Window is the contiguous run of day columns visible in the timeline.
type Window struct {
	cols []time.Time
}

// NewWindow builds a window of days columns starting at start's day.
func NewWindow(start time.Time, days int) Window {
	cols := make([]time.Time, 0, days)
	d := truncateDay(start)
	for i := 0; i < days; i++ {
		cols = append(cols, d.AddDate(0, 0, i))
	}
	return Window{cols: cols}
}

// Columns returns the window's day columns in order.
func (w Window) Columns() []time.Time { return w.cols }

// Len returns the number of columns.
func (w Window) Len() int { return len(w.cols) }

// Start returns the first column's day, zero for an empty window.
func (w Window) Start() time.Time {
	if len(w.cols) == 0 {
		return time.Time{}
	}
	return w.cols[0]
}

// End returns the last column's day, zero for an empty window.
func (w Window) End() time.Time {
	if len(w.cols) == 0 {
		return time.Time{}
	}
	return w.cols[len(w.cols)-1]
}

// Shift returns a window moved by days columns, for paging.
func (w Window) Shift(days int) Window {
	if len(w.cols) == 0 {
		return w
	}
	return NewWindow(w.cols[0].AddDate(0, 0, days), len(w.cols))
}

// ColumnSpan is an entity's clipped position on the window's columns.
// EndIdx is exclusive.
type ColumnSpan struct {
	StartIdx     int
	EndIdx       int
	LeftPercent  float64
	WidthPercent float64
}

// MapToColumns computes the column span of a date range over the
// window, clipped to the visible columns. Comparison is day-granular.
// ok is false when the range contributes no visible span: an absent
// endpoint, a backwards range, or a range falling entirely outside the
// window on either side. A range starting before the window clips to
// column 0; one extending past the window clips to the last column.
func (w Window) MapToColumns(start, end Instant) (ColumnSpan, bool) {
	if len(w.cols) == 0 || !start.Valid() || !end.Valid() {
		return ColumnSpan{}, false
	}

	loc := w.cols[0].Location()
	startDay := DayOf(start, loc).Time(loc)
	endDay := DayOf(end, loc).Time(loc)

	startIdx := len(w.cols)
	for i, c := range w.cols {
		if !c.Before(startDay) {
			startIdx = i
			break
		}
	}

	endIdx := len(w.cols)
	for i, c := range w.cols {
		if c.After(endDay) {
			endIdx = i
			break
		}
	}

	span := endIdx - startIdx
	if span <= 0 {
		return ColumnSpan{}, false
	}

	total := float64(len(w.cols))
	return ColumnSpan{
		StartIdx:     startIdx,
		EndIdx:       endIdx,
		LeftPercent:  float64(startIdx) / total * 100,
		WidthPercent: float64(span) / total * 100,
	}, true
}
