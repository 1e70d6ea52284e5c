package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/evanmarch/tempo/internal/schedule"
)

// eventMarker tags events tempo created so re-exports can replace them
// instead of piling up duplicates.
const eventMarker = "tempo-export"

// ExportDay pushes one day's placed blocks to the calendar as timed
// events. Events from an earlier export of the same day are deleted
// first, so the export is a one-way overwrite. Returns the number of
// events created.
func ExportDay(ctx context.Context, svc *calendar.Service, calendarID string, grid schedule.DayGrid) (int, error) {
	if err := clearExported(ctx, svc, calendarID, grid.Day); err != nil {
		return 0, err
	}

	loc := grid.Day.Location()
	created := 0
	for _, block := range grid.Blocks {
		ev := &calendar.Event{
			Summary:     block.Item.Title,
			Description: fmt.Sprintf("%s (exported by tempo)", block.Item.Kind),
			Source:      &calendar.EventSource{Title: eventMarker, Url: "https://github.com/evanmarch/tempo"},
			Start: &calendar.EventDateTime{
				DateTime: block.Item.Start.Time(loc).Format(time.RFC3339),
			},
			End: &calendar.EventDateTime{
				DateTime: block.Item.End().Time(loc).Format(time.RFC3339),
			},
			ExtendedProperties: &calendar.EventExtendedProperties{
				Private: map[string]string{"origin": eventMarker},
			},
		}
		if _, err := svc.Events.Insert(calendarID, ev).Context(ctx).Do(); err != nil {
			return created, fmt.Errorf("inserting event %q: %w", block.Item.Title, err)
		}
		created++
	}
	return created, nil
}

// clearExported deletes every tempo-created event on the given day.
func clearExported(ctx context.Context, svc *calendar.Service, calendarID string, day time.Time) error {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	call := svc.Events.List(calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		PrivateExtendedProperty("origin=" + eventMarker).
		SingleEvents(true).
		Context(ctx)

	events, err := call.Do()
	if err != nil {
		return fmt.Errorf("listing exported events: %w", err)
	}
	for _, ev := range events.Items {
		if err := svc.Events.Delete(calendarID, ev.Id).Context(ctx).Do(); err != nil {
			return fmt.Errorf("deleting stale event %q: %w", ev.Summary, err)
		}
	}
	return nil
}
