package wgpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/meshview/gpucore"
)

// Polling bounds for Fence.Wait.
const (
	minPollDelay = 20 * time.Microsecond
	maxPollDelay = time.Millisecond
)

// mark pairs a fence value with the submission it waits behind.
type mark struct {
	value      uint64
	submission uint64
}

// timeline maps fence values to queue submission indices.
type timeline struct {
	mu        sync.Mutex
	marks     []mark
	queued    uint64
	completed uint64
}

func newTimeline(initial uint64) *timeline {
	return &timeline{queued: initial, completed: initial}
}

// signal records that value is reached once submission completes.
func (t *timeline) signal(value, submission uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value < t.queued {
		return fmt.Errorf("%w: signal %d after %d", gpucore.ErrFenceRegression, value, t.queued)
	}
	t.queued = value
	if n := len(t.marks); n > 0 && t.marks[n-1].submission == submission {
		t.marks[n-1].value = value
		return nil
	}
	t.marks = append(t.marks, mark{value: value, submission: submission})
	return nil
}

// advance completes every mark whose submission is <= done and returns
// the completed value.
func (t *timeline) advance(done uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := 0
	for ; i < len(t.marks) && t.marks[i].submission <= done; i++ {
		t.completed = max(t.completed, t.marks[i].value)
	}
	t.marks = t.marks[i:]
	return t.completed
}

// Fence is a CPU timeline completed by polling the queue.
type Fence struct {
	tl   *timeline
	poll func() uint64
}

var _ gpucore.Fence = (*Fence)(nil)

// Completed returns the highest value whose submission finished.
func (f *Fence) Completed() uint64 { return f.tl.advance(f.poll()) }

// Wait polls the queue with exponential backoff until the fence reaches
// value or ctx is done.
func (f *Fence) Wait(ctx context.Context, value uint64) error {
	if f.Completed() >= value {
		return nil
	}
	delay := minPollDelay
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if f.Completed() >= value {
			return nil
		}
		delay = min(delay*2, maxPollDelay)
		timer.Reset(delay)
	}
}

// Destroy is a no-op; the timeline holds no GPU object.
func (f *Fence) Destroy() {}
