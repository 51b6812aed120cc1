package render

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// Controller turns key events into camera deltas. Key-down sets a delta
// to plus or minus the step; key-up of the same key sets it back to
// zero. The increments are fixed per tick, not scaled by frame time.
//
// Events may arrive on the window goroutine while Apply runs on the
// render goroutine, so the state is guarded.
type Controller struct {
	RotateStep float32
	MoveStep   float32

	mu       sync.Mutex
	rotation float32
	forward  float32
	quit     bool
}

// NewController returns a controller with the given per-tick steps.
func NewController(rotateStep, moveStep float32) *Controller {
	return &Controller{RotateStep: rotateStep, MoveStep: moveStep}
}

// Attach subscribes the controller to key events from src.
func (c *Controller) Attach(src gpucontext.EventSource) {
	src.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) { c.KeyDown(k) })
	src.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) { c.KeyUp(k) })
}

// KeyDown handles a key press.
func (c *Controller) KeyDown(k gpucontext.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch k {
	case gpucontext.KeyLeft, gpucontext.KeyA:
		c.rotation = -c.RotateStep
	case gpucontext.KeyRight, gpucontext.KeyD:
		c.rotation = c.RotateStep
	case gpucontext.KeyUp, gpucontext.KeyW:
		c.forward = c.MoveStep
	case gpucontext.KeyDown, gpucontext.KeyS:
		c.forward = -c.MoveStep
	case gpucontext.KeyEscape:
		c.quit = true
	}
}

// KeyUp handles a key release.
func (c *Controller) KeyUp(k gpucontext.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch k {
	case gpucontext.KeyLeft, gpucontext.KeyA, gpucontext.KeyRight, gpucontext.KeyD:
		c.rotation = 0
	case gpucontext.KeyUp, gpucontext.KeyW, gpucontext.KeyDown, gpucontext.KeyS:
		c.forward = 0
	}
}

// Deltas returns the current rotation and forward deltas.
func (c *Controller) Deltas() (rotation, forward float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation, c.forward
}

// QuitRequested reports whether Escape was pressed.
func (c *Controller) QuitRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quit
}

// Apply copies the deltas into cam.
func (c *Controller) Apply(cam *Camera) {
	cam.Rotation, cam.Forward = c.Deltas()
}
