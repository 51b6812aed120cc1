package gpucore

import "fmt"

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageVertex indicates the buffer can be bound as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << iota

	// BufferUsageUniform indicates the buffer can be bound as a uniform buffer.
	BufferUsageUniform

	// BufferUsageMapWrite indicates the CPU writes the buffer through a mapping.
	BufferUsageMapWrite

	// BufferUsageCopyDst indicates the buffer can be a copy destination.
	BufferUsageCopyDst
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag == flag }

// ResourceState is the usage state of a render target. Commands that
// touch a target require a specific state; transitions move between them.
type ResourceState int

const (
	// StateUndefined is the state of a target that was never used.
	StateUndefined ResourceState = iota

	// StatePresent means the presentation engine may read the target.
	StatePresent

	// StateRenderTarget means draws and clears may write the target.
	StateRenderTarget
)

func (s ResourceState) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StatePresent:
		return "present"
	case StateRenderTarget:
		return "render-target"
	default:
		return fmt.Sprintf("ResourceState(%d)", int(s))
	}
}

// VertexFormat describes one vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32x3 VertexFormat = iota + 1
	VertexFormatFloat32x4
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint32 {
	switch f {
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}

// Color is a linear RGBA color used for clears.
type Color struct {
	R, G, B, A float64
}

// Viewport maps normalized device coordinates to target pixels.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, Width, Height uint32
}

// Limits reports device limits relevant to the renderer.
type Limits struct {
	// MinUniformBufferOffsetAlignment is the required alignment of
	// uniform buffer bindings, typically 256.
	MinUniformBufferOffsetAlignment uint32

	MaxBufferSize uint64
}

// DefaultLimits returns limits every backend satisfies.
func DefaultLimits() Limits {
	return Limits{
		MinUniformBufferOffsetAlignment: 256,
		MaxBufferSize:                   256 << 20,
	}
}

// AdapterInfo describes the selected adapter.
type AdapterInfo struct {
	Name    string
	Vendor  string
	Backend string
	Driver  string
}

func (i AdapterInfo) String() string {
	if i.Driver == "" {
		return fmt.Sprintf("%s (%s)", i.Name, i.Backend)
	}
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.Backend, i.Driver)
}

// AlignUp rounds size up to a multiple of align. align must be a power
// of two; zero leaves size unchanged.
func AlignUp(size, align uint64) uint64 {
	if align == 0 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}
