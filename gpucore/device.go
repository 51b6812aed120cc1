package gpucore

import "context"

// WindowHandle carries the native handles a surface is created from.
// Display is zero on platforms without a display connection (Windows,
// macOS). A zero Window requests an offscreen surface.
type WindowHandle struct {
	Display uintptr
	Window  uintptr
}

// DeviceDescriptor configures Backend.Open.
type DeviceDescriptor struct {
	Label string

	// Window is the presentation target.
	Window WindowHandle

	// Width and Height are the surface size in pixels.
	Width, Height int

	// FrameCount is the number of render targets in the surface.
	FrameCount int
}

// Backend opens devices.
type Backend interface {
	// Name returns the backend identifier, e.g. "wgpu" or "software".
	Name() string

	// Open creates a device with its queue and presentation surface.
	Open(ctx context.Context, desc *DeviceDescriptor) (Device, error)
}

// Device owns GPU resources. Resources are destroyed explicitly and
// must not be destroyed while the GPU may still use them.
type Device interface {
	Info() AdapterInfo
	Limits() Limits

	// Queue returns the single submission queue.
	Queue() Queue

	// Surface returns the presentation surface created with the device.
	Surface() Surface

	// CreateFence creates a fence whose completed value starts at initial.
	CreateFence(initial uint64) (Fence, error)

	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreatePipeline(desc *PipelineDescriptor) (Pipeline, error)

	// CreateCommandList creates a closed command list. Call Reset
	// before recording.
	CreateCommandList(label string) (CommandList, error)

	// Destroy releases the device. All resources must be destroyed first.
	Destroy()
}

// Queue submits work to the GPU.
type Queue interface {
	// Submit enqueues closed command lists for execution in order.
	// It does not wait for execution.
	Submit(lists ...CommandList) error

	// Signal enqueues a fence update to value. The fence reaches value
	// once all previously submitted work completed. Signal does not block.
	Signal(f Fence, value uint64) error
}

// Fence is a monotonically increasing counter written by the GPU.
type Fence interface {
	// Completed returns the last value the GPU signaled.
	Completed() uint64

	// Wait blocks until Completed() >= value or ctx is done.
	Wait(ctx context.Context, value uint64) error

	Destroy()
}

// Surface presents render targets to a window.
type Surface interface {
	// Targets returns the render targets, one per buffered frame.
	Targets() []RenderTarget

	// CurrentIndex returns the index of the target to render next.
	// It changes after Present, not necessarily sequentially.
	CurrentIndex() int

	// Present queues the current target for display.
	Present() error

	Size() (width, height int)
	Destroy()
}

// RenderTarget is one presentable image.
type RenderTarget interface {
	Index() int
}

// BufferDescriptor configures Device.CreateBuffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// Buffer is a GPU buffer with a CPU mapping.
type Buffer interface {
	Size() uint64

	// Map returns the CPU view of the buffer. The view stays valid until
	// Destroy; repeated calls return the same memory.
	Map() ([]byte, error)

	// Flush makes CPU writes in [offset, offset+size) visible to the GPU.
	Flush(offset, size uint64) error

	Destroy()
}

// VertexBufferView describes the vertex data bound for a draw.
type VertexBufferView struct {
	Buffer Buffer
	Stride uint32
	Size   uint64
}

// Count returns the number of vertices in the view.
func (v VertexBufferView) Count() uint32 {
	if v.Stride == 0 {
		return 0
	}
	return uint32(v.Size / uint64(v.Stride))
}

// BindGroupDescriptor binds one uniform buffer range at binding 0.
type BindGroupDescriptor struct {
	Label    string
	Pipeline Pipeline
	Buffer   Buffer
	Offset   uint64
	Size     uint64
}

// BindGroup is a set of resources bound together.
type BindGroup interface {
	Destroy()
}

// CommandList records GPU commands for one frame.
type CommandList interface {
	// Reset discards previous contents and opens the list for recording.
	// It fails with ErrResourceInUse when the GPU has not finished the
	// previous submission of this list.
	Reset() error

	SetPipeline(p Pipeline)
	SetBindGroup(index uint32, g BindGroup)
	SetViewport(v Viewport)
	SetScissor(r Rect)

	// Transition moves t from one resource state to another.
	Transition(t RenderTarget, from, to ResourceState)

	// Clear fills t with c. t must be in StateRenderTarget.
	Clear(t RenderTarget, c Color)

	SetVertexBuffer(v VertexBufferView)

	// Draw issues a non-indexed triangle-list draw into the target most
	// recently transitioned to StateRenderTarget.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// Close ends recording. Recording errors are reported here.
	Close() error

	Destroy()
}
