package render

import (
	"context"
	"fmt"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// FrameSlot is the per-frame state: one command list and the render
// target it draws into.
type FrameSlot struct {
	Index    int
	Commands gpucore.CommandList
	Target   gpucore.RenderTarget
}

// Context owns the device, queue, surface, fence and frame slots.
type Context struct {
	Device  gpucore.Device
	Queue   gpucore.Queue
	Surface gpucore.Surface
	Fence   gpucore.Fence
	Slots   []FrameSlot

	// Setup is the command list submitted once at startup.
	Setup gpucore.CommandList

	width, height int
}

// NewContext opens a device on b bound to the window and creates
// frameCount render targets, one command list per slot and the frame
// fence. Every failure is a fatal init error.
func NewContext(ctx context.Context, b gpucore.Backend, win gpucore.WindowHandle, width, height, frameCount int) (*Context, error) {
	if frameCount < meshview.MinFrameCount || frameCount > meshview.MaxFrameCount {
		return nil, meshview.Errorf(meshview.KindInit, "initialize",
			fmt.Errorf("frame count %d not in [%d, %d]", frameCount, meshview.MinFrameCount, meshview.MaxFrameCount))
	}
	dev, err := b.Open(ctx, &gpucore.DeviceDescriptor{
		Label:      "meshview",
		Window:     win,
		Width:      width,
		Height:     height,
		FrameCount: frameCount,
	})
	if err != nil {
		if meshview.KindOf(err) != 0 {
			return nil, err
		}
		return nil, meshview.Errorf(meshview.KindInit, "open device", err)
	}

	c := &Context{
		Device:  dev,
		Queue:   dev.Queue(),
		Surface: dev.Surface(),
		width:   width,
		height:  height,
	}
	if err := c.init(frameCount); err != nil {
		c.Close()
		return nil, meshview.Errorf(meshview.KindInit, "initialize", err)
	}

	meshview.Logger().Info("render: context ready",
		"adapter", c.Info().String(), "frames", frameCount, "width", width, "height", height)
	return c, nil
}

func (c *Context) init(frameCount int) error {
	targets := c.Surface.Targets()
	if len(targets) != frameCount {
		return fmt.Errorf("surface has %d targets, want %d", len(targets), frameCount)
	}

	var err error
	if c.Fence, err = c.Device.CreateFence(0); err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	if c.Setup, err = c.Device.CreateCommandList("setup"); err != nil {
		return fmt.Errorf("create setup list: %w", err)
	}
	for i, t := range targets {
		l, err := c.Device.CreateCommandList(fmt.Sprintf("frame %d", i))
		if err != nil {
			return fmt.Errorf("create command list %d: %w", i, err)
		}
		c.Slots = append(c.Slots, FrameSlot{Index: i, Commands: l, Target: t})
	}
	return nil
}

// FrameCount returns the number of slots.
func (c *Context) FrameCount() int { return len(c.Slots) }

// Info describes the adapter the device was opened on.
func (c *Context) Info() gpucore.AdapterInfo {
	if c.Device == nil {
		return gpucore.AdapterInfo{}
	}
	return c.Device.Info()
}

// Size returns the surface size.
func (c *Context) Size() (width, height int) { return c.width, c.height }

// Close destroys everything in reverse creation order. The caller must
// make sure the GPU is idle first.
func (c *Context) Close() {
	for i := len(c.Slots) - 1; i >= 0; i-- {
		c.Slots[i].Commands.Destroy()
	}
	c.Slots = nil
	if c.Setup != nil {
		c.Setup.Destroy()
		c.Setup = nil
	}
	if c.Fence != nil {
		c.Fence.Destroy()
		c.Fence = nil
	}
	if c.Surface != nil {
		c.Surface.Destroy()
		c.Surface = nil
	}
	if c.Device != nil {
		c.Device.Destroy()
		c.Device = nil
	}
}
