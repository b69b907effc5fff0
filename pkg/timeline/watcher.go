package timeline

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultMargin is added past a comment's due time before refetching,
// absorbing clock skew between client and server.
const DefaultMargin = 500 * time.Millisecond

// Comment is one timeline entry as the view consumes it. Pending marks
// the viewer's own scheduled comments that are not yet live.
type Comment struct {
	ID          string
	Content     string
	AuthorName  string
	ScheduledAt *time.Time
	CreatedAt   time.Time
	Pending     bool
}

// Fetcher loads the two comment sets of one report view
type Fetcher interface {
	FetchLive(ctx context.Context) ([]Comment, error)
	FetchPending(ctx context.Context) ([]Comment, error)
}

// Watcher keeps one open report view's comment timeline current.
// Scheduled comments go live purely by the passage of server query
// time, so the watcher refetches instead of mutating: once at start,
// once per realtime event, and once when the soonest pending comment
// falls due. A single one-shot timer is kept armed at that due time;
// any refetch cancels it before arming the next.
type Watcher struct {
	fetcher  Fetcher
	onChange func([]Comment)
	margin   time.Duration
	now      func() time.Time

	mu    sync.Mutex
	timer *time.Timer

	events   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher. onChange receives the merged timeline
// after every refetch.
func NewWatcher(fetcher Fetcher, onChange func([]Comment)) *Watcher {
	return &Watcher{
		fetcher:  fetcher,
		onChange: onChange,
		margin:   DefaultMargin,
		now:      time.Now,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start performs the initial fetch, arms the timer and begins watching.
// The initial fetch error is returned; later refetch errors keep the
// previous view and the watcher alive.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.refresh(ctx); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

// Notify signals a realtime comment event for the watched report. The
// event payload is never applied directly; it only triggers a refetch.
// Safe to call from any goroutine; coalesces while a refetch is due.
func (w *Watcher) Notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// Stop cancels the timer and ends the watch loop
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		w.mu.Lock()
		var fire <-chan time.Time
		if w.timer != nil {
			fire = w.timer.C
		}
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.events:
			w.refresh(ctx) //nolint:errcheck
		case <-fire:
			w.refresh(ctx) //nolint:errcheck
		}
	}
}

// refresh refetches both sets, publishes the merged view and rearms
// the timer from the new pending set
func (w *Watcher) refresh(ctx context.Context) error {
	live, err := w.fetcher.FetchLive(ctx)
	if err != nil {
		return err
	}
	pending, err := w.fetcher.FetchPending(ctx)
	if err != nil {
		return err
	}

	if w.onChange != nil {
		w.onChange(Merge(live, pending))
	}
	w.rearm(pending)
	return nil
}

// rearm clears the old timer handle first, then arms a one-shot timer
// at the soonest pending due time plus the margin. No pending comments
// means no timer.
func (w *Watcher) rearm(pending []Comment) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	next := soonestDue(pending)
	if next == nil {
		return
	}
	d := next.Add(w.margin).Sub(w.now())
	if d < 0 {
		d = 0
	}
	w.timer = time.NewTimer(d)
}

func soonestDue(pending []Comment) *time.Time {
	var next *time.Time
	for i := range pending {
		at := pending[i].ScheduledAt
		if at == nil {
			continue
		}
		if next == nil || at.Before(*next) {
			next = at
		}
	}
	return next
}

// Merge builds the display timeline: live and pending combined, sorted
// ascending by scheduled time (creation time when unscheduled), pending
// entries flagged
func Merge(live, pending []Comment) []Comment {
	merged := make([]Comment, 0, len(live)+len(pending))
	merged = append(merged, live...)
	for _, c := range pending {
		c.Pending = true
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return sortKey(merged[i]).Before(sortKey(merged[j]))
	})
	return merged
}

func sortKey(c Comment) time.Time {
	if c.ScheduledAt != nil {
		return *c.ScheduledAt
	}
	return c.CreatedAt
}

// SyncReadOnOpen runs the open-report read protocol: fetch the detail,
// and when the viewer has not read it yet, record the read and fetch
// once more so the view carries its own read receipt. fetch reports
// whether the detail is already read by the viewer.
func SyncReadOnOpen(ctx context.Context, fetch func(context.Context) (bool, error), mark func(context.Context) error) error {
	read, err := fetch(ctx)
	if err != nil {
		return err
	}
	if read {
		return nil
	}
	if err := mark(ctx); err != nil {
		return err
	}
	_, err = fetch(ctx)
	return err
}
