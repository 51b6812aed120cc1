package software

import (
	"context"
	"sync"
	"sync/atomic"
)

// Fence is a counter advanced by the queue goroutine.
type Fence struct {
	mu        sync.Mutex
	completed uint64
	changed   chan struct{}

	// queued is the highest value handed to Queue.Signal.
	queued atomic.Uint64
}

func newFence(initial uint64) *Fence {
	f := &Fence{completed: initial, changed: make(chan struct{})}
	f.queued.Store(initial)
	return f
}

// Completed returns the last value the queue signaled.
func (f *Fence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Wait blocks until the fence reaches value or ctx is done.
func (f *Fence) Wait(ctx context.Context, value uint64) error {
	for {
		f.mu.Lock()
		if f.completed >= value {
			f.mu.Unlock()
			return nil
		}
		ch := f.changed
		f.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// signal is called from the queue goroutine.
func (f *Fence) signal(value uint64) {
	f.mu.Lock()
	if value > f.completed {
		f.completed = value
	}
	close(f.changed)
	f.changed = make(chan struct{})
	f.mu.Unlock()
}

// Destroy is a no-op.
func (f *Fence) Destroy() {}
