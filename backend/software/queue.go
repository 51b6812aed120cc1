package software

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// item is one queue operation. Exactly one field is set.
type item struct {
	list    *CommandList
	fence   *Fence
	value   uint64
	present *Target
}

// Queue executes operations on its own goroutine in submission order.
type Queue struct {
	dev     *Device
	latency time.Duration
	work    chan item

	// sendMu orders sends against stop so nothing is sent on a closed
	// channel.
	sendMu  sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	errMu sync.Mutex
	err   error

	submitted    atomic.Uint64
	executed     atomic.Uint64
	lastSignaled atomic.Uint64
}

var _ gpucore.Queue = (*Queue)(nil)

func newQueue(d *Device, latency time.Duration, depth int) *Queue {
	q := &Queue{
		dev:     d,
		latency: latency,
		work:    make(chan item, depth),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Submit enqueues closed command lists. It returns the first execution
// error the queue hit, if any: after a failure the device is considered
// lost and nothing more is accepted.
func (q *Queue) Submit(lists ...gpucore.CommandList) error {
	if err := q.Err(); err != nil {
		return err
	}
	for _, l := range lists {
		cl, ok := l.(*CommandList)
		if !ok {
			return gpucore.ErrForeignObject
		}
		if cl.recording {
			return fmt.Errorf("software: submit %q: %w", cl.label, gpucore.ErrNotClosed)
		}
		if cl.err != nil {
			return fmt.Errorf("software: submit %q: %w", cl.label, cl.err)
		}
	}
	for _, l := range lists {
		cl := l.(*CommandList)
		cl.inFlight.Add(1)
		if err := q.send(item{list: cl}); err != nil {
			cl.inFlight.Add(-1)
			return err
		}
		q.submitted.Add(1)
	}
	return nil
}

// Signal enqueues a fence update behind all submitted work.
func (q *Queue) Signal(f gpucore.Fence, value uint64) error {
	sf, ok := f.(*Fence)
	if !ok {
		return gpucore.ErrForeignObject
	}
	for {
		prev := sf.queued.Load()
		if value < prev {
			return fmt.Errorf("%w: signal %d after %d", gpucore.ErrFenceRegression, value, prev)
		}
		if sf.queued.CompareAndSwap(prev, value) {
			break
		}
	}
	if err := q.send(item{fence: sf, value: value}); err != nil {
		return err
	}
	q.lastSignaled.Store(value)
	return nil
}

// Submitted returns the number of command lists submitted.
func (q *Queue) Submitted() uint64 { return q.submitted.Load() }

// Executed returns the number of command lists the queue finished.
func (q *Queue) Executed() uint64 { return q.executed.Load() }

// LastSignaled returns the value of the most recent Signal call.
func (q *Queue) LastSignaled() uint64 { return q.lastSignaled.Load() }

// Err returns the first execution error.
func (q *Queue) Err() error {
	q.errMu.Lock()
	defer q.errMu.Unlock()
	return q.err
}

func (q *Queue) fail(err error) {
	q.errMu.Lock()
	first := q.err == nil
	if first {
		q.err = err
	}
	q.errMu.Unlock()
	if first {
		meshview.Logger().Error("software: execution failed", "err", err)
	}
}

func (q *Queue) send(it item) error {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if q.stopped {
		return gpucore.ErrDestroyed
	}
	q.work <- it
	return nil
}

func (q *Queue) run() {
	defer q.wg.Done()
	for it := range q.work {
		switch {
		case it.list != nil:
			if q.latency > 0 {
				time.Sleep(q.latency)
			}
			if q.Err() == nil {
				if err := q.dev.execute(it.list); err != nil {
					q.fail(fmt.Errorf("command list %q: %w", it.list.label, err))
				}
			}
			q.executed.Add(1)
			it.list.inFlight.Add(-1)
		case it.fence != nil:
			it.fence.signal(it.value)
		case it.present != nil:
			if q.Err() == nil {
				if err := q.dev.surface.show(it.present); err != nil {
					q.fail(err)
				}
			}
		}
	}
}

// stop executes everything already queued and ends the goroutine.
func (q *Queue) stop() {
	q.sendMu.Lock()
	if q.stopped {
		q.sendMu.Unlock()
		return
	}
	q.stopped = true
	close(q.work)
	q.sendMu.Unlock()
	q.wg.Wait()
}
