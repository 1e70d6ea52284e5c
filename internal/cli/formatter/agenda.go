package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/evanmarch/tempo/internal/schedule"
)

// AgendaPrinter writes the plain (non-TUI) agenda views. It renders with
// fatih/color so output degrades to plain text on non-terminals.
type AgendaPrinter struct {
	Out io.Writer
}

func NewAgendaPrinter() *AgendaPrinter {
	return &AgendaPrinter{Out: color.Output}
}

// monthWidth is the printed width of one week row: 7 cells of "ddx ".
const monthWidth = len("  1   2   3   4   5   6   7")

// PrintMonth writes the month grid: one row per week, day numbers marked
// by load. A trailing marker flags the day: "*" scheduled work, "!"
// needs-attention items, "+" overbooked.
func (pp *AgendaPrinter) PrintMonth(anchor time.Time, cells []schedule.DayCell) {
	title := color.New(color.FgWhite, color.Italic)
	faint := color.New(color.Faint, color.FgWhite)
	normal := color.New(color.FgHiWhite)
	loaded := color.New(color.Bold, color.FgHiWhite)
	alert := color.New(color.Bold, color.FgHiRed)
	today := color.New(color.Bold, color.FgHiGreen, color.Underline)

	m := anchor.Format("January 2006")
	mid := (monthWidth - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = title.Fprintf(pp.Out, "%s%s\n", strings.Repeat(" ", mid), m)
	_, _ = faint.Fprintln(pp.Out, "  S   M   T   W   T   F   S")

	for i, cell := range cells {
		printer := normal
		switch {
		case cell.IsToday:
			printer = today
		case len(cell.NeedsAttention) > 0:
			printer = alert
		case len(cell.Scheduled) > 0:
			printer = loaded
		case !cell.InMonth:
			printer = faint
		}

		marker := " "
		switch {
		case cell.CapacityPercent > 100:
			marker = "+"
		case len(cell.NeedsAttention) > 0:
			marker = "!"
		case len(cell.Scheduled) > 0:
			marker = "*"
		}

		_, _ = printer.Fprintf(pp.Out, "%3d", cell.Date.Day())
		_, _ = faint.Fprint(pp.Out, marker)
		if (i+1)%7 == 0 {
			fmt.Fprintln(pp.Out)
		}
	}
	_, _ = faint.Fprintln(pp.Out, "\n  * scheduled   ! needs attention   + overbooked")
}

// PrintMonthSummary writes the in-month days that carry work, one line
// per day with the capacity label.
func (pp *AgendaPrinter) PrintMonthSummary(cells []schedule.DayCell) {
	bold := color.New(color.Bold)
	plain := color.New()
	faint := color.New(color.Faint)

	for _, cell := range cells {
		if !cell.InMonth || (len(cell.Scheduled) == 0 && len(cell.Due) == 0) {
			continue
		}
		_, _ = bold.Fprintf(pp.Out, "%s", cell.Date.Format("Mon Jan 2"))
		if cell.AvailableMin > 0 {
			_, _ = plain.Fprintf(pp.Out, "  %s scheduled, %s", Minutes(cell.ScheduledMin), CapacityLabel(cell.CapacityPercent))
		}
		fmt.Fprintln(pp.Out)
		for _, it := range cell.Scheduled {
			loc := cell.Date.Location()
			_, _ = plain.Fprintf(pp.Out, "  %s  %s (%s)\n",
				it.Start.Time(loc).Format("15:04"), it.Title, Minutes(it.EffectiveDuration()))
		}
		for _, it := range cell.NeedsAttention {
			_, _ = faint.Fprintf(pp.Out, "  !     %s (due, not scheduled here)\n", it.Title)
		}
	}
}

// PrintDay writes one day's slot schedule and its unscheduled sidebar.
func (pp *AgendaPrinter) PrintDay(grid schedule.DayGrid) {
	bold := color.New(color.Bold, color.Underline)
	plain := color.New()
	faint := color.New(color.Faint)

	_, _ = bold.Fprintln(pp.Out, DayHeading(grid.Day))
	_, _ = plain.Fprintf(pp.Out, "%s of %s booked, %s\n\n",
		Minutes(grid.Utilization.ScheduledMin),
		Minutes(grid.Utilization.AvailableMin),
		CapacityBar(grid.Utilization.Percent, 10))

	if len(grid.Blocks) == 0 {
		_, _ = faint.Fprintln(pp.Out, "  nothing scheduled")
	}
	loc := grid.Day.Location()
	for _, block := range grid.Blocks {
		start := block.Item.Start.Time(loc)
		_, _ = plain.Fprintf(pp.Out, "  %s-%s  %s",
			start.Format("15:04"),
			block.Item.End().Time(loc).Format("15:04"),
			block.Item.Title)
		if block.Item.Completed {
			_, _ = faint.Fprint(pp.Out, "  ✓")
		}
		fmt.Fprintln(pp.Out)
	}

	if len(grid.Unscheduled) > 0 {
		_, _ = bold.Fprintln(pp.Out, "\nUnscheduled")
		for _, it := range grid.Unscheduled {
			due := ""
			if it.Due.Valid() {
				due = faint.Sprintf("  due %s", ShortDate(it.Due.Time(loc)))
			}
			_, _ = plain.Fprintf(pp.Out, "  • %s (%s)%s\n", it.Title, Minutes(it.EffectiveDuration()), due)
		}
	}
}
