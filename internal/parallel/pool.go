// Package parallel runs CPU work across a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs indexed jobs on a fixed number of goroutines.
//
// Each worker owns a queue and steals from its neighbours once its own
// queue is empty, so a slow band does not hold up the others.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, 8)

	p := &WorkerPool{
		queues: make([]chan func(), workers),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case job := <-own:
			job()
			continue
		case <-p.done:
			p.drain(own)
			return
		default:
		}
		if job := p.steal(id); job != nil {
			job()
			continue
		}
		select {
		case job := <-own:
			job()
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

func (p *WorkerPool) drain(q chan func()) {
	for {
		select {
		case job := <-q:
			job()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := 1; i < len(p.queues); i++ {
		select {
		case job := <-p.queues[(id+i)%len(p.queues)]:
			return job
		default:
		}
	}
	return nil
}

// Do calls fn(0) ... fn(n-1) on the pool and waits for all calls to
// return. After Close, Do runs the calls on the caller's goroutine.
func (p *WorkerPool) Do(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if !p.running.Load() || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		job := func() {
			defer wg.Done()
			fn(i)
		}
		select {
		case p.queues[i%len(p.queues)] <- job:
		case <-p.done:
			job()
		}
	}
	wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return len(p.queues)
}

// Close waits for queued work and stops the workers. It is safe to call
// more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
