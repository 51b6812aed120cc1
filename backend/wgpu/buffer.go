package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview/gpucore"
)

// Buffer is a GPU buffer with a host shadow. Map returns the shadow and
// Flush uploads a range of it through the queue.
type Buffer struct {
	label  string
	buf    *wgpu.Buffer
	queue  *wgpu.Queue
	usage  gpucore.BufferUsage
	size   uint64
	shadow []byte
}

var _ gpucore.Buffer = (*Buffer)(nil)

// bufferUsage converts usage flags. Mappable buffers become copy
// destinations: WebGPU rejects submissions that use a mapped buffer.
func bufferUsage(u gpucore.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u.Has(gpucore.BufferUsageVertex) {
		out |= wgpu.BufferUsageVertex
	}
	if u.Has(gpucore.BufferUsageUniform) {
		out |= wgpu.BufferUsageUniform
	}
	if u.Has(gpucore.BufferUsageCopyDst) || u.Has(gpucore.BufferUsageMapWrite) {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

// Size returns the requested size.
func (b *Buffer) Size() uint64 { return b.size }

// Map returns the persistent host view.
func (b *Buffer) Map() ([]byte, error) {
	if b.buf == nil {
		return nil, gpucore.ErrDestroyed
	}
	if !b.usage.Has(gpucore.BufferUsageMapWrite) {
		return nil, fmt.Errorf("wgpu: buffer %q is not mappable", b.label)
	}
	return b.shadow[:b.size], nil
}

// Flush writes the shadow range [offset, offset+size) to the GPU buffer.
// The range is widened to the 4-byte copy alignment.
func (b *Buffer) Flush(offset, size uint64) error {
	if b.buf == nil {
		return gpucore.ErrDestroyed
	}
	lo, hi, err := copyRange(offset, size, uint64(len(b.shadow)))
	if err != nil {
		return fmt.Errorf("wgpu: flush buffer %q: %w", b.label, err)
	}
	if lo == hi {
		return nil
	}
	if err := b.queue.WriteBuffer(b.buf, lo, b.shadow[lo:hi]); err != nil {
		return fmt.Errorf("wgpu: flush buffer %q: %w", b.label, err)
	}
	return nil
}

// copyRange aligns [offset, offset+size) outward to 4 bytes within limit.
func copyRange(offset, size, limit uint64) (lo, hi uint64, err error) {
	end := offset + size
	if end < offset || end > limit {
		return 0, 0, fmt.Errorf("range [%d,%d) out of bounds %d", offset, end, limit)
	}
	lo = offset &^ 3
	hi = min(gpucore.AlignUp(end, 4), limit)
	return lo, hi, nil
}

// Destroy releases the GPU buffer.
func (b *Buffer) Destroy() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
