package software

import (
	"encoding/binary"
	"errors"
	"image"
	"math"

	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/internal/raster"
)

// matrixSize is the size of one 4x4 float32 matrix.
const matrixSize = 64

// execState is the pipeline state while one command list executes.
type execState struct {
	pipeline *Pipeline
	group    *BindGroup
	viewport gpucore.Viewport
	scissor  *gpucore.Rect
	vertices *Buffer
	stride   uint32
	size     uint64
	target   *Target
}

var (
	errNoPipeline = errors.New("draw without pipeline")
	errNoBinding  = errors.New("draw without bind group 0")
	errNoVertices = errors.New("draw without vertex buffer")
	errNoTarget   = errors.New("draw without render target")
)

// execute runs on the queue goroutine.
func (d *Device) execute(l *CommandList) error {
	var st execState
	for _, op := range l.ops {
		switch op.Kind {
		case OpSetPipeline:
			st.pipeline = op.pipeline
		case OpSetBindGroup:
			if op.GroupIndex == 0 {
				st.group = op.group
			}
		case OpSetViewport:
			st.viewport = op.Viewport
		case OpSetScissor:
			r := op.Scissor
			st.scissor = &r
		case OpSetVertexBuffer:
			st.vertices, st.stride, st.size = op.vertices, op.Stride, op.Size
		case OpTransition:
			t := d.surface.targets[op.Target]
			if err := t.transition(op.From, op.To); err != nil {
				return err
			}
			if op.To == gpucore.StateRenderTarget {
				st.target = t
			}
		case OpClear:
			t := d.surface.targets[op.Target]
			if err := t.require(gpucore.StateRenderTarget, "clear"); err != nil {
				return err
			}
			raster.Fill(t.img, t.img.Rect, [4]float32{
				float32(op.Color.R), float32(op.Color.G), float32(op.Color.B), float32(op.Color.A),
			})
		case OpDraw:
			if err := d.draw(&st, op); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Device) draw(st *execState, op Op) error {
	switch {
	case st.pipeline == nil:
		return errNoPipeline
	case st.group == nil:
		return errNoBinding
	case st.vertices == nil:
		return errNoVertices
	case st.target == nil:
		return errNoTarget
	}
	if err := st.target.require(gpucore.StateRenderTarget, "draw"); err != nil {
		return err
	}
	if op.InstanceCount == 0 || op.VertexCount == 0 {
		return nil
	}

	var m [16]float32
	st.group.buffer.read(func(data []byte) {
		for i := range m {
			off := st.group.offset + uint64(i)*4
			m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	})

	stride := uint64(st.stride)
	if stride == 0 {
		stride = uint64(st.pipeline.stride)
	}
	first, count := uint64(op.FirstVertex), uint64(op.VertexCount)
	if (first+count)*stride > st.size {
		return errors.New("draw reads past the vertex buffer view")
	}

	vp := st.viewport
	if vp.Width == 0 || vp.Height == 0 {
		vp.Width, vp.Height = float32(d.surface.width), float32(d.surface.height)
	}
	clip := image.Rect(int(vp.X), int(vp.Y), int(vp.X+vp.Width), int(vp.Y+vp.Height))
	if s := st.scissor; s != nil {
		clip = clip.Intersect(image.Rect(int(s.X), int(s.Y), int(s.X+s.Width), int(s.Y+s.Height)))
	}

	verts := make([]raster.Vertex, 0, count)
	st.vertices.read(func(data []byte) {
		for tri := first; tri+3 <= first+count; tri += 3 {
			var corners [3]raster.Vertex
			visible := true
			for k := range uint64(3) {
				base := (tri + k) * stride
				v, ok := project(m, data[base:base+stride], st.pipeline, vp)
				if !ok {
					visible = false
					break
				}
				corners[k] = v
			}
			if visible {
				verts = append(verts, corners[:]...)
			}
		}
	})

	raster.Triangles(d.pool, st.target.img, clip, verts)
	st.target.mu.Lock()
	st.target.draws++
	st.target.mu.Unlock()
	return nil
}

// project runs the fixed vertex stage: clip = m * (pos, 1), followed by
// the perspective divide and the viewport transform. It reports false
// for vertices on or behind the eye plane.
func project(m [16]float32, v []byte, p *Pipeline, vp gpucore.Viewport) (raster.Vertex, bool) {
	var pos [4]float32
	for i := range 3 {
		pos[i] = readFloat(v, p.posOffset+uint32(i)*4)
	}
	pos[3] = 1

	var c [4]float32
	for row := range 4 {
		for col := range 4 {
			c[row] += m[col*4+row] * pos[col]
		}
	}
	if c[3] <= 1e-6 {
		return raster.Vertex{}, false
	}
	ndcX, ndcY := c[0]/c[3], c[1]/c[3]

	out := raster.Vertex{
		X: vp.X + (ndcX+1)*0.5*vp.Width,
		Y: vp.Y + (1-ndcY)*0.5*vp.Height,
	}
	for i := range out.Color {
		out.Color[i] = readFloat(v, p.colorOffset+uint32(i)*4)
	}
	return out, true
}

func readFloat(b []byte, off uint32) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}
