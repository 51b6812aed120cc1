package software

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/meshview/backend"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/internal/parallel"
)

func init() {
	backend.Register(backend.NameSoftware, func() gpucore.Backend {
		return New()
	})
}

// Option configures the software backend.
type Option func(*options)

type options struct {
	latency    time.Duration
	order      []int
	workers    int
	queueDepth int
}

// WithLatency delays the execution of every submitted command list,
// emulating GPU work that lags behind the CPU.
func WithLatency(d time.Duration) Option {
	return func(o *options) {
		o.latency = d
	}
}

// WithPresentOrder sets the order in which render targets become
// current after each Present. It must be a permutation of the target
// indices. The default is 0, 1, ..., N-1.
func WithPresentOrder(order ...int) Option {
	return func(o *options) {
		o.order = append([]int(nil), order...)
	}
}

// WithWorkers sets the number of rasterizer goroutines.
// Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithQueueDepth sets how many queue operations may be pending before
// Submit blocks.
func WithQueueDepth(n int) Option {
	return func(o *options) {
		o.queueDepth = n
	}
}

// Backend opens software devices.
type Backend struct {
	opts options
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	o := options{queueDepth: 64}
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{opts: o}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.NameSoftware }

// Open creates a device with a surface of desc.FrameCount targets.
// The window handle is ignored: targets live in memory.
func (b *Backend) Open(ctx context.Context, desc *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("software: invalid surface size %dx%d", desc.Width, desc.Height)
	}
	if desc.FrameCount < 1 {
		return nil, fmt.Errorf("software: invalid frame count %d", desc.FrameCount)
	}
	order, err := presentOrder(b.opts.order, desc.FrameCount)
	if err != nil {
		return nil, err
	}

	d := &Device{
		label: desc.Label,
		pool:  parallel.NewWorkerPool(b.opts.workers),
	}
	d.queue = newQueue(d, b.opts.latency, max(b.opts.queueDepth, 1))
	d.surface = newSurface(d, desc.Width, desc.Height, desc.FrameCount, order)
	return d, nil
}

func presentOrder(order []int, n int) ([]int, error) {
	if len(order) == 0 {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	if len(order) != n {
		return nil, fmt.Errorf("software: present order has %d entries, want %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return nil, fmt.Errorf("software: present order %v is not a permutation of 0..%d", order, n-1)
		}
		seen[i] = true
	}
	return order, nil
}
