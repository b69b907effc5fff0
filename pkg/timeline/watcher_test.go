package timeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	mu      sync.Mutex
	live    []Comment
	pending []Comment
	fetches int
}

func (f *fakeFetcher) FetchLive(_ context.Context) ([]Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.live, nil
}

func (f *fakeFetcher) FetchPending(_ context.Context) ([]Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeFetcher) set(live, pending []Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live = live
	f.pending = pending
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMerge_OrdersByScheduledThenCreated(t *testing.T) {
	sched := ts("2026-03-01T12:00:00Z")
	live := []Comment{
		{ID: "a", CreatedAt: ts("2026-03-01T10:00:00Z")},
		{ID: "c", CreatedAt: ts("2026-03-01T14:00:00Z")},
	}
	pending := []Comment{
		{ID: "b", CreatedAt: ts("2026-03-01T09:00:00Z"), ScheduledAt: &sched},
	}

	merged := Merge(live, pending)

	assert.Len(t, merged, 3)
	// scheduled comment sorts by its scheduled time, not creation time
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "c", merged[2].ID)
	assert.True(t, merged[1].Pending)
	assert.False(t, merged[0].Pending)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	sched := ts("2026-03-01T12:00:00Z")
	pending := []Comment{{ID: "p", ScheduledAt: &sched}}

	merged := Merge(nil, pending)

	assert.True(t, merged[0].Pending)
	assert.False(t, pending[0].Pending)
}

func TestWatcher_NoTimerWithoutPending(t *testing.T) {
	fetcher := &fakeFetcher{live: []Comment{{ID: "a", CreatedAt: time.Now()}}}
	w := NewWatcher(fetcher, nil)
	defer w.Stop()

	err := w.Start(context.Background())
	assert.NoError(t, err)

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Nil(t, w.timer)
}

func TestWatcher_TimerFiresAfterDueTime(t *testing.T) {
	due := time.Now().Add(20 * time.Millisecond)
	fetcher := &fakeFetcher{pending: []Comment{{ID: "p", ScheduledAt: &due}}}

	var mu sync.Mutex
	var views [][]Comment
	w := NewWatcher(fetcher, func(cs []Comment) {
		mu.Lock()
		views = append(views, cs)
		mu.Unlock()
	})
	w.margin = 10 * time.Millisecond
	defer w.Stop()

	assert.NoError(t, w.Start(context.Background()))
	assert.Equal(t, 1, fetcher.fetchCount())

	// once due, the comment is served as live and the timer disarms
	fetcher.set([]Comment{{ID: "p", CreatedAt: time.Now()}}, nil)

	assert.Eventually(t, func() bool {
		return fetcher.fetchCount() >= 2
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.timer == nil
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	last := views[len(views)-1]
	assert.Len(t, last, 1)
	assert.False(t, last[0].Pending)
}

func TestWatcher_NotifyTriggersRefetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	w := NewWatcher(fetcher, nil)
	defer w.Stop()

	assert.NoError(t, w.Start(context.Background()))
	assert.Equal(t, 1, fetcher.fetchCount())

	w.Notify()

	assert.Eventually(t, func() bool {
		return fetcher.fetchCount() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestWatcher_StopEndsLoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	w := NewWatcher(fetcher, nil)

	assert.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop() // idempotent

	w.Notify()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, fetcher.fetchCount())
}

func TestSyncReadOnOpen_MarksUnreadThenRefetches(t *testing.T) {
	fetches, marks := 0, 0
	fetch := func(_ context.Context) (bool, error) {
		fetches++
		return fetches > 1, nil
	}
	mark := func(_ context.Context) error {
		marks++
		return nil
	}

	err := SyncReadOnOpen(context.Background(), fetch, mark)

	assert.NoError(t, err)
	assert.Equal(t, 1, marks)
	assert.Equal(t, 2, fetches)
}

func TestSyncReadOnOpen_AlreadyReadSkipsMark(t *testing.T) {
	fetches, marks := 0, 0
	fetch := func(_ context.Context) (bool, error) {
		fetches++
		return true, nil
	}
	mark := func(_ context.Context) error {
		marks++
		return nil
	}

	err := SyncReadOnOpen(context.Background(), fetch, mark)

	assert.NoError(t, err)
	assert.Equal(t, 0, marks)
	assert.Equal(t, 1, fetches)
}
