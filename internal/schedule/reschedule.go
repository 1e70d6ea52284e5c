package schedule

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DragState is the coordinator's position in the drag state machine.
type DragState string

const (
	StateIdle     DragState = "idle"
	StateDragging DragState = "dragging"
	StateHovering DragState = "hovering_slot"
)

// SlotRef identifies one hovered slot by its time of day.
type SlotRef struct {
	Hour   int
	Minute int
}

// ItemWriter persists a new scheduled start for one item. The write is
// fire-and-forget from the coordinator's perspective: failures are
// logged by the coordinator, never retried or surfaced.
type ItemWriter interface {
	UpdateScheduledStart(ctx context.Context, item SchedulableItem, start time.Time) error
}

// Coordinator orchestrates a single in-flight drag: the item being
// moved, the slot under the pointer, and the one mutation issued on
// drop. It is single-threaded by contract; the UI event source delivers
// one drag at a time, so no locking happens here. View state is not
// touched: the views re-derive themselves from the next snapshot.
type Coordinator struct {
	writer ItemWriter
	logger *slog.Logger

	state   DragState
	dragged SchedulableItem
	hovered SlotRef
}

// NewCoordinator wires a coordinator to the writer that commits drops.
// A nil logger discards mutation-failure logs.
func NewCoordinator(writer ItemWriter, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{writer: writer, logger: logger, state: StateIdle}
}

// State returns the current drag state.
func (c *Coordinator) State() DragState { return c.state }

// Dragged returns the item in flight, if any.
func (c *Coordinator) Dragged() (SchedulableItem, bool) {
	if c.state == StateIdle {
		return SchedulableItem{}, false
	}
	return c.dragged, true
}

// Hovered returns the slot under the pointer, if any.
func (c *Coordinator) Hovered() (SlotRef, bool) {
	if c.state != StateHovering {
		return SlotRef{}, false
	}
	return c.hovered, true
}

// Grab begins a drag from a placed block or a sidebar item. Grabbing
// while a drag is in flight restarts with the new item.
func (c *Coordinator) Grab(item SchedulableItem) {
	c.dragged = item
	c.hovered = SlotRef{}
	c.state = StateDragging
}

// HoverSlot records the slot currently under the pointer. Only the last
// hovered slot is kept. Ignored when no drag is in flight.
func (c *Coordinator) HoverSlot(slot SlotRef) {
	if c.state == StateIdle {
		return
	}
	c.hovered = slot
	c.state = StateHovering
}

// ClearHover handles the pointer leaving all slots mid-drag: the stale
// slot is dropped but the drag stays alive.
func (c *Coordinator) ClearHover() {
	if c.state != StateHovering {
		return
	}
	c.hovered = SlotRef{}
	c.state = StateDragging
}

// Drop commits the drag onto the hovered slot of the viewed day: the
// item's new scheduled start is the day at the slot's hour and minute,
// written through exactly one mutation. Dropping with no hovered slot
// cancels instead. Transient state is cleared on every path, including a
// panicking writer.
func (c *Coordinator) Drop(ctx context.Context, day time.Time) {
	if c.state != StateHovering {
		c.reset()
		return
	}

	item := c.dragged
	slot := c.hovered
	defer c.reset()

	start := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, day.Location())
	if err := c.writer.UpdateScheduledStart(ctx, item, start); err != nil {
		c.logger.ErrorContext(ctx, "reschedule_commit_failed",
			"item_id", item.ID,
			"kind", string(item.Kind),
			"start", start.Format(time.RFC3339),
			"error", err.Error(),
		)
	}
}

// Cancel abandons the drag with no mutation.
func (c *Coordinator) Cancel() {
	c.reset()
}

func (c *Coordinator) reset() {
	c.state = StateIdle
	c.dragged = SchedulableItem{}
	c.hovered = SlotRef{}
}
