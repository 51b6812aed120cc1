package software

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/internal/parallel"
	"github.com/gogpu/meshview/shader"
)

// Device is a software GPU device.
type Device struct {
	label   string
	queue   *Queue
	surface *Surface
	pool    *parallel.WorkerPool

	hazards   atomic.Int64
	destroyed atomic.Bool
}

var _ gpucore.Device = (*Device)(nil)

// Info describes the rasterizer.
func (d *Device) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{
		Name:    "software rasterizer",
		Vendor:  "gogpu",
		Backend: "software",
		Driver:  fmt.Sprintf("%d workers, %s", d.pool.Workers(), runtime.GOARCH),
	}
}

// Limits returns the default limits.
func (d *Device) Limits() gpucore.Limits { return gpucore.DefaultLimits() }

// Queue returns the device queue.
func (d *Device) Queue() gpucore.Queue { return d.queue }

// Surface returns the in-memory surface.
func (d *Device) Surface() gpucore.Surface { return d.surface }

// SoftwareQueue returns the concrete queue for inspection.
func (d *Device) SoftwareQueue() *Queue { return d.queue }

// SoftwareSurface returns the concrete surface for inspection.
func (d *Device) SoftwareSurface() *Surface { return d.surface }

// Hazards returns how many times a command list was reset while the
// queue still executed it.
func (d *Device) Hazards() int64 { return d.hazards.Load() }

// CreateFence creates a fence starting at initial.
func (d *Device) CreateFence(initial uint64) (gpucore.Fence, error) {
	if d.destroyed.Load() {
		return nil, gpucore.ErrDestroyed
	}
	return newFence(initial), nil
}

// CreateBuffer allocates a mappable buffer.
func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if d.destroyed.Load() {
		return nil, gpucore.ErrDestroyed
	}
	if desc.Size == 0 {
		return nil, fmt.Errorf("software: buffer %q has zero size", desc.Label)
	}
	if limit := d.Limits().MaxBufferSize; desc.Size > limit {
		return nil, fmt.Errorf("software: buffer %q size %d exceeds limit %d", desc.Label, desc.Size, limit)
	}
	return &Buffer{
		label:  desc.Label,
		usage:  desc.Usage,
		host:   make([]byte, desc.Size),
		device: make([]byte, desc.Size),
	}, nil
}

// CreateBindGroup binds a uniform buffer range.
func (d *Device) CreateBindGroup(desc *gpucore.BindGroupDescriptor) (gpucore.BindGroup, error) {
	buf, ok := desc.Buffer.(*Buffer)
	if !ok {
		return nil, gpucore.ErrForeignObject
	}
	if !buf.usage.Has(gpucore.BufferUsageUniform) {
		return nil, fmt.Errorf("software: bind group %q: buffer %q lacks uniform usage", desc.Label, buf.label)
	}
	size := desc.Size
	if size == 0 {
		size = buf.Size() - desc.Offset
	}
	align := uint64(d.Limits().MinUniformBufferOffsetAlignment)
	if desc.Offset%align != 0 {
		return nil, fmt.Errorf("software: bind group %q: offset %d not aligned to %d", desc.Label, desc.Offset, align)
	}
	if desc.Offset+size > buf.Size() {
		return nil, fmt.Errorf("software: bind group %q: range [%d,%d) exceeds buffer size %d",
			desc.Label, desc.Offset, desc.Offset+size, buf.Size())
	}
	if p, ok := desc.Pipeline.(*Pipeline); ok && size < p.uniformSize {
		return nil, fmt.Errorf("software: bind group %q: size %d below pipeline minimum %d", desc.Label, size, p.uniformSize)
	}
	return &BindGroup{buffer: buf, offset: desc.Offset, size: size}, nil
}

// CreatePipeline validates the program and vertex layout. The WGSL source
// is checked with the same validator the GPU backend relies on, but
// execution uses the fixed transform-and-color stage.
func (d *Device) CreatePipeline(desc *gpucore.PipelineDescriptor) (gpucore.Pipeline, error) {
	if _, err := shader.Validate(desc.Source, desc.VertexEntry, desc.FragmentEntry); err != nil {
		return nil, fmt.Errorf("software: pipeline %q: %w", desc.Label, err)
	}
	pos, ok := desc.Attribute(0)
	if !ok || pos.Format != gpucore.VertexFormatFloat32x3 {
		return nil, fmt.Errorf("software: pipeline %q: location 0 must be float32x3", desc.Label)
	}
	col, ok := desc.Attribute(1)
	if !ok || col.Format != gpucore.VertexFormatFloat32x4 {
		return nil, fmt.Errorf("software: pipeline %q: location 1 must be float32x4", desc.Label)
	}
	for _, a := range []gpucore.VertexAttribute{pos, col} {
		if a.Offset+a.Format.Size() > desc.VertexStride {
			return nil, fmt.Errorf("software: pipeline %q: attribute %d exceeds stride %d",
				desc.Label, a.ShaderLocation, desc.VertexStride)
		}
	}
	return &Pipeline{
		label:       desc.Label,
		stride:      desc.VertexStride,
		posOffset:   pos.Offset,
		colorOffset: col.Offset,
		uniformSize: max(desc.UniformSize, matrixSize),
	}, nil
}

// CreateCommandList creates a closed command list.
func (d *Device) CreateCommandList(label string) (gpucore.CommandList, error) {
	if d.destroyed.Load() {
		return nil, gpucore.ErrDestroyed
	}
	return &CommandList{dev: d, label: label}, nil
}

// Destroy drains the queue and stops the worker goroutines.
func (d *Device) Destroy() {
	if !d.destroyed.CompareAndSwap(false, true) {
		return
	}
	d.queue.stop()
	d.pool.Close()
	meshview.Logger().Debug("software: device destroyed",
		"executed", d.queue.Executed(), "hazards", d.hazards.Load())
}

// Pipeline is a validated software pipeline.
type Pipeline struct {
	label       string
	stride      uint32
	posOffset   uint32
	colorOffset uint32
	uniformSize uint64
}

// Destroy is a no-op.
func (p *Pipeline) Destroy() {}

// BindGroup references a uniform buffer range.
type BindGroup struct {
	buffer *Buffer
	offset uint64
	size   uint64
}

// Destroy is a no-op.
func (g *BindGroup) Destroy() {}
