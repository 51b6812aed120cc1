package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// Device owns the wgpu instance, adapter, device, queue and surface.
type Device struct {
	inst    *wgpu.Instance
	adapter *wgpu.Adapter
	dev     *wgpu.Device
	queue   *Queue
	surface *Surface

	info    *GPUInfo
	limits  gpucore.Limits
	hazards atomic.Int64
}

var _ gpucore.Device = (*Device)(nil)

// Info describes the adapter.
func (d *Device) Info() gpucore.AdapterInfo { return d.info.AdapterInfo() }

// GPUInfo returns the detailed adapter description.
func (d *Device) GPUInfo() *GPUInfo { return d.info }

// Limits returns the device limits.
func (d *Device) Limits() gpucore.Limits { return d.limits }

// Queue returns the submission queue.
func (d *Device) Queue() gpucore.Queue { return d.queue }

// Surface returns the window surface.
func (d *Device) Surface() gpucore.Surface { return d.surface }

// Hazards returns how many resets were refused because the list was
// still executing.
func (d *Device) Hazards() int64 { return d.hazards.Load() }

// CreateFence creates a submission-index timeline starting at initial.
func (d *Device) CreateFence(initial uint64) (gpucore.Fence, error) {
	if d.dev == nil {
		return nil, gpucore.ErrDestroyed
	}
	return &Fence{tl: newTimeline(initial), poll: d.queue.completed}, nil
}

// CreateBuffer creates a GPU buffer with a host shadow of the same size
// rounded up to the copy alignment.
func (d *Device) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if d.dev == nil {
		return nil, gpucore.ErrDestroyed
	}
	if desc.Size == 0 || desc.Size > d.limits.MaxBufferSize {
		return nil, fmt.Errorf("wgpu: buffer %q: invalid size %d", desc.Label, desc.Size)
	}
	size := gpucore.AlignUp(desc.Size, 4)
	buf, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: bufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: buffer %q: %w", desc.Label, err)
	}
	return &Buffer{
		label:  desc.Label,
		buf:    buf,
		queue:  d.dev.Queue(),
		usage:  desc.Usage,
		size:   desc.Size,
		shadow: make([]byte, size),
	}, nil
}

// Destroy waits for the GPU, releases pending command buffers and the
// device objects. The surface is released by Surface.Destroy.
func (d *Device) Destroy() {
	if d.dev != nil {
		if err := d.dev.WaitIdle(); err != nil {
			meshview.Logger().Warn("wgpu: wait idle on destroy", "err", err)
		}
		d.queue.collect(^uint64(0))
		d.dev.Release()
		d.dev = nil
		meshview.Logger().Debug("wgpu: device destroyed",
			"submitted", d.queue.Submitted(), "hazards", d.hazards.Load())
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.inst != nil {
		d.inst.Release()
		d.inst = nil
	}
}
