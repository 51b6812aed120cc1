package software

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/meshview/gpucore"
)

// Buffer is non-coherent host memory: the CPU writes through Map and
// the queue reads the device copy, which Flush updates.
type Buffer struct {
	label string
	usage gpucore.BufferUsage
	host  []byte

	mu     sync.RWMutex
	device []byte

	destroyed atomic.Bool
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return uint64(len(b.host)) }

// Map returns the persistent CPU view.
func (b *Buffer) Map() ([]byte, error) {
	if b.destroyed.Load() {
		return nil, gpucore.ErrDestroyed
	}
	if !b.usage.Has(gpucore.BufferUsageMapWrite) {
		return nil, fmt.Errorf("software: buffer %q is not mappable", b.label)
	}
	return b.host, nil
}

// Flush publishes host writes in [offset, offset+size) to the device copy.
func (b *Buffer) Flush(offset, size uint64) error {
	if b.destroyed.Load() {
		return gpucore.ErrDestroyed
	}
	end := offset + size
	if end < offset || end > b.Size() {
		return fmt.Errorf("software: flush [%d,%d) out of range for buffer %q of %d bytes", offset, end, b.label, b.Size())
	}
	b.mu.Lock()
	copy(b.device[offset:end], b.host[offset:end])
	b.mu.Unlock()
	return nil
}

// read calls fn with the device copy locked for reading.
func (b *Buffer) read(fn func(data []byte)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.device)
}

// Destroy invalidates the buffer.
func (b *Buffer) Destroy() { b.destroyed.Store(true) }
