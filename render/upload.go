package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/mesh"
)

// matrixSize is the byte size of one 4x4 float32 matrix.
const matrixSize = 64

// Uploader errors.
var (
	ErrAlreadyUploaded = errors.New("render: vertices already uploaded")
	ErrNoVertices      = errors.New("render: empty vertex list")
	ErrNoTransform     = errors.New("render: transform buffer not created")
)

// Uploader creates the vertex buffer and the persistently mapped
// transform buffer.
type Uploader struct {
	dev gpucore.Device

	vertices gpucore.Buffer
	view     gpucore.VertexBufferView

	transform gpucore.Buffer
	mapped    []byte
	group     gpucore.BindGroup
}

// NewUploader returns an uploader for dev.
func NewUploader(dev gpucore.Device) *Uploader {
	return &Uploader{dev: dev}
}

// UploadVertices creates a CPU-writable, GPU-readable buffer holding
// vertices and returns its view. It may be called once.
func (u *Uploader) UploadVertices(vertices []mesh.Vertex) (gpucore.VertexBufferView, error) {
	if u.vertices != nil {
		return gpucore.VertexBufferView{}, ErrAlreadyUploaded
	}
	if len(vertices) == 0 {
		return gpucore.VertexBufferView{}, ErrNoVertices
	}

	size := uint64(len(vertices)) * mesh.Stride
	buf, err := u.dev.CreateBuffer(&gpucore.BufferDescriptor{
		Label: "vertices",
		Size:  size,
		Usage: gpucore.BufferUsageVertex | gpucore.BufferUsageMapWrite,
	})
	if err != nil {
		return gpucore.VertexBufferView{}, meshview.Errorf(meshview.KindInit, "create vertex buffer", err)
	}
	data, err := buf.Map()
	if err != nil {
		buf.Destroy()
		return gpucore.VertexBufferView{}, meshview.Errorf(meshview.KindInit, "map vertex buffer", err)
	}
	mesh.Encode(data, vertices)
	if err := buf.Flush(0, size); err != nil {
		buf.Destroy()
		return gpucore.VertexBufferView{}, meshview.Errorf(meshview.KindInit, "flush vertex buffer", err)
	}

	u.vertices = buf
	u.view = gpucore.VertexBufferView{Buffer: buf, Stride: mesh.Stride, Size: size}
	meshview.Logger().Debug("render: vertices uploaded", "count", len(vertices), "bytes", size)
	return u.view, nil
}

// VertexView returns the published vertex buffer view.
func (u *Uploader) VertexView() gpucore.VertexBufferView { return u.view }

// TransformSize returns the size of the transform buffer: one matrix
// rounded up to the device's uniform alignment.
func (u *Uploader) TransformSize() uint64 {
	return gpucore.AlignUp(matrixSize, uint64(u.dev.Limits().MinUniformBufferOffsetAlignment))
}

// CreateTransformBuffer creates the uniform buffer holding the
// world-view-projection matrix, maps it for the lifetime of the
// uploader, and binds it for pipeline p.
//
// Every frame in flight reads the same region.
func (u *Uploader) CreateTransformBuffer(p gpucore.Pipeline) (gpucore.BindGroup, error) {
	size := u.TransformSize()
	buf, err := u.dev.CreateBuffer(&gpucore.BufferDescriptor{
		Label: "transform",
		Size:  size,
		Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageMapWrite | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, meshview.Errorf(meshview.KindInit, "create transform buffer", err)
	}
	mapped, err := buf.Map()
	if err != nil {
		buf.Destroy()
		return nil, meshview.Errorf(meshview.KindInit, "map transform buffer", err)
	}
	group, err := u.dev.CreateBindGroup(&gpucore.BindGroupDescriptor{
		Label:    "transform",
		Pipeline: p,
		Buffer:   buf,
		Size:     size,
	})
	if err != nil {
		buf.Destroy()
		return nil, meshview.Errorf(meshview.KindInit, "create transform binding", err)
	}

	u.transform, u.mapped, u.group = buf, mapped, group
	return group, nil
}

// BindGroup returns the transform binding.
func (u *Uploader) BindGroup() gpucore.BindGroup { return u.group }

// WriteTransform copies m into the mapped transform buffer.
func (u *Uploader) WriteTransform(m mgl32.Mat4) error {
	if u.mapped == nil {
		return ErrNoTransform
	}
	for i, v := range m {
		binary.LittleEndian.PutUint32(u.mapped[i*4:], math.Float32bits(v))
	}
	if err := u.transform.Flush(0, matrixSize); err != nil {
		return fmt.Errorf("render: flush transform: %w", err)
	}
	return nil
}

// Destroy releases both buffers.
func (u *Uploader) Destroy() {
	if u.group != nil {
		u.group.Destroy()
		u.group = nil
	}
	if u.transform != nil {
		u.transform.Destroy()
		u.transform, u.mapped = nil, nil
	}
	if u.vertices != nil {
		u.vertices.Destroy()
		u.vertices = nil
	}
}
