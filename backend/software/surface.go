package software

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/meshview/gpucore"
)

// Target is an in-memory render target. Its pixels and state are owned
// by the queue goroutine.
type Target struct {
	index int
	img   *image.RGBA

	mu    sync.Mutex
	state gpucore.ResourceState
	draws int
}

// Index returns the target index in the surface.
func (t *Target) Index() int { return t.index }

// State returns the current resource state.
func (t *Target) State() gpucore.ResourceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Draws returns how many draws the target received.
func (t *Target) Draws() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draws
}

func (t *Target) transition(from, to gpucore.ResourceState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != from {
		return fmt.Errorf("%w: transition target %d from %v, target is %v", gpucore.ErrInvalidState, t.index, from, t.state)
	}
	t.state = to
	return nil
}

func (t *Target) require(s gpucore.ResourceState, what string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != s {
		return fmt.Errorf("%w: %s target %d in state %v, want %v", gpucore.ErrInvalidState, what, t.index, t.state, s)
	}
	return nil
}

// Surface is a set of in-memory targets presented in a fixed order.
type Surface struct {
	dev           *Device
	width, height int
	targets       []*Target
	order         []int

	// pos is advanced by Present on the render goroutine.
	pos atomic.Uint64

	mu        sync.Mutex
	snapshot  *image.RGBA
	presented uint64
	history   []int
}

var _ gpucore.Surface = (*Surface)(nil)

// historyLimit bounds the presentation history kept for inspection.
const historyLimit = 1024

func newSurface(d *Device, w, h, n int, order []int) *Surface {
	s := &Surface{dev: d, width: w, height: h, order: order}
	for i := range n {
		s.targets = append(s.targets, &Target{
			index: i,
			img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		})
	}
	return s
}

// Targets returns the render targets.
func (s *Surface) Targets() []gpucore.RenderTarget {
	out := make([]gpucore.RenderTarget, len(s.targets))
	for i, t := range s.targets {
		out[i] = t
	}
	return out
}

// Target returns the concrete target i.
func (s *Surface) Target(i int) *Target { return s.targets[i] }

// CurrentIndex returns the target to render next.
func (s *Surface) CurrentIndex() int {
	return s.order[s.pos.Load()%uint64(len(s.order))]
}

// Present queues the current target for display behind all submitted
// work and makes the next target in the present order current.
func (s *Surface) Present() error {
	if err := s.dev.queue.Err(); err != nil {
		return err
	}
	t := s.targets[s.CurrentIndex()]
	if err := s.dev.queue.send(item{present: t}); err != nil {
		return err
	}
	s.pos.Add(1)
	return nil
}

// show runs on the queue goroutine.
func (s *Surface) show(t *Target) error {
	if err := t.require(gpucore.StatePresent, "present"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		s.snapshot = image.NewRGBA(t.img.Rect)
	}
	copy(s.snapshot.Pix, t.img.Pix)
	s.presented++
	if len(s.history) < historyLimit {
		s.history = append(s.history, t.index)
	}
	return nil
}

// Size returns the surface size.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Snapshot returns a copy of the most recently displayed image, or nil
// before the first presentation executed.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil
	}
	img := image.NewRGBA(s.snapshot.Rect)
	copy(img.Pix, s.snapshot.Pix)
	return img
}

// Presented returns how many presentations executed.
func (s *Surface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// History returns the indices of displayed targets in display order.
func (s *Surface) History() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.history...)
}

// Destroy is a no-op; targets are garbage collected with the device.
func (s *Surface) Destroy() {}
