package service

import (
	"context"
	"sync"
	"time"

	"github.com/evanmarch/tempo/internal/domain"
)

// ChangeKind identifies which aggregate a change notification refers to.
type ChangeKind int

const (
	TasksChanged ChangeKind = iota
	HabitsChanged
	ProjectsChanged
	MilestonesChanged
)

func (k ChangeKind) String() string {
	switch k {
	case TasksChanged:
		return "tasks"
	case HabitsChanged:
		return "habits"
	case ProjectsChanged:
		return "projects"
	case MilestonesChanged:
		return "milestones"
	default:
		return "unknown"
	}
}

// ChangeEvent is one coalesced change notification. It carries no payload:
// subscribers reload whatever view they derive from the store.
type ChangeEvent struct {
	Kind ChangeKind
}

// Subscription is one subscriber's handle on the feed. Cancel detaches it
// and closes C; Cancel is safe to call more than once.
type Subscription struct {
	C <-chan ChangeEvent

	cancelOnce sync.Once
	cancel     func()
}

func (s *Subscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}

// ChangeFeed fans mutation notifications out to view subscribers. Every
// service mutation publishes the kind it touched; views re-derive their
// state from the store when notified, so delivery can be lossy.
type ChangeFeed struct {
	mu       sync.Mutex
	nextID   int
	subs     map[int]*feedSubscriber
	throttle *changeThrottle
}

type feedSubscriber struct {
	kinds map[ChangeKind]bool // empty means every kind
	ch    chan ChangeEvent
}

const coalesceDelay = 100 * time.Millisecond

// NewChangeFeed creates a feed that coalesces bursts of publishes into
// one notification per kind per window.
func NewChangeFeed() *ChangeFeed {
	return newChangeFeed(coalesceDelay)
}

func newChangeFeed(delay time.Duration) *ChangeFeed {
	return &ChangeFeed{
		subs:     make(map[int]*feedSubscriber),
		throttle: newChangeThrottle(delay),
	}
}

// Subscribe registers a consumer for the given kinds; with no kinds it
// receives everything. The returned channel is buffered and never blocks
// the publisher.
func (f *ChangeFeed) Subscribe(kinds ...ChangeKind) *Subscription {
	sub := &feedSubscriber{
		kinds: make(map[ChangeKind]bool, len(kinds)),
		ch:    make(chan ChangeEvent, 64),
	}
	for _, k := range kinds {
		sub.kinds[k] = true
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	return &Subscription{
		C: sub.ch,
		cancel: func() {
			f.mu.Lock()
			if _, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub.ch)
			}
			f.mu.Unlock()
		},
	}
}

// Publish records that entities of the given kind changed. Publishing on
// a nil feed is a no-op, so mutation paths never have to check.
func (f *ChangeFeed) Publish(kind ChangeKind) {
	if f == nil {
		return
	}
	f.throttle.Enqueue(kind, f.send)
}

func (f *ChangeFeed) send(ev ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if len(sub.kinds) > 0 && !sub.kinds[ev.Kind] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Drop events if the consumer is not ready; it reloads the
			// full view on the next event anyway.
		}
	}
}

// Close stops the coalescing timer and detaches all subscribers.
func (f *ChangeFeed) Close() {
	if f == nil {
		return
	}
	f.throttle.Stop()
	f.mu.Lock()
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.ch)
	}
	f.mu.Unlock()
}

// changeThrottle coalesces rapid publishes so the UI redraws once per
// burst of writes instead of once per statement.
type changeThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[ChangeKind]struct{}
	delay   time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{
		delay:   delay,
		pending: make(map[ChangeKind]struct{}),
	}
}

func (t *changeThrottle) Enqueue(kind ChangeKind, send func(ChangeEvent)) {
	t.mu.Lock()
	t.pending[kind] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *changeThrottle) flush(send func(ChangeEvent)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[ChangeKind]struct{})
	t.timer = nil
	t.mu.Unlock()

	for kind := range pending {
		send(ChangeEvent{Kind: kind})
	}
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

// TaskFeed adapts the change feed to the shape list views consume: every
// task mutation delivers the fresh task list to one callback.
type TaskFeed struct {
	tasks TaskService
	feed  *ChangeFeed
}

func NewTaskFeed(tasks TaskService, feed *ChangeFeed) *TaskFeed {
	return &TaskFeed{tasks: tasks, feed: feed}
}

// Watch delivers the current task list immediately, then again after each
// coalesced task change, until ctx is done or the feed closes.
func (f *TaskFeed) Watch(ctx context.Context, onChange func([]*domain.Task)) error {
	sub := f.feed.Subscribe(TasksChanged)
	defer sub.Cancel()

	list, err := f.tasks.List(ctx, false)
	if err != nil {
		return err
	}
	onChange(list)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-sub.C:
			if !ok {
				return nil
			}
			list, err := f.tasks.List(ctx, false)
			if err != nil {
				return err
			}
			onChange(list)
		}
	}
}
