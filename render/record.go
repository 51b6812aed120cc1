package render

import (
	"fmt"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// Recorder records the per-frame command list.
type Recorder struct {
	ctx      *Context
	pipeline gpucore.Pipeline
	group    gpucore.BindGroup
	vertices gpucore.VertexBufferView
	clear    gpucore.Color

	draws uint64
}

// NewRecorder returns a recorder drawing vertices with pipeline p and
// the transform binding group.
func NewRecorder(ctx *Context, p gpucore.Pipeline, group gpucore.BindGroup, vertices gpucore.VertexBufferView, clear gpucore.Color) *Recorder {
	return &Recorder{ctx: ctx, pipeline: p, group: group, vertices: vertices, clear: clear}
}

// RecordFrame resets slot's command list and records one frame: bind
// state, transition the target to render-target, clear, draw every
// vertex once, transition back to present, close.
func (r *Recorder) RecordFrame(slot int) error {
	if slot < 0 || slot >= len(r.ctx.Slots) {
		return meshview.Errorf(meshview.KindRuntime, "record frame",
			fmt.Errorf("slot %d out of range [0,%d)", slot, len(r.ctx.Slots)))
	}
	s := r.ctx.Slots[slot]
	l := s.Commands
	if err := l.Reset(); err != nil {
		return meshview.Errorf(meshview.KindRuntime, "reset command list", err)
	}

	w, h := r.ctx.Size()
	l.SetPipeline(r.pipeline)
	l.SetBindGroup(0, r.group)
	l.SetViewport(gpucore.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1})
	l.SetScissor(gpucore.Rect{Width: uint32(w), Height: uint32(h)})

	l.Transition(s.Target, gpucore.StatePresent, gpucore.StateRenderTarget)
	l.Clear(s.Target, r.clear)
	l.SetVertexBuffer(r.vertices)
	l.Draw(r.vertices.Count(), 1, 0, 0)
	l.Transition(s.Target, gpucore.StateRenderTarget, gpucore.StatePresent)

	if err := l.Close(); err != nil {
		return meshview.Errorf(meshview.KindRuntime, "close command list", err)
	}
	r.draws++
	return nil
}

// DrawCalls returns the number of draws recorded so far.
func (r *Recorder) DrawCalls() uint64 { return r.draws }

// recordSetup records the startup list that moves every target from its
// initial state to present.
func recordSetup(ctx *Context) error {
	l := ctx.Setup
	if err := l.Reset(); err != nil {
		return err
	}
	for _, s := range ctx.Slots {
		l.Transition(s.Target, gpucore.StateUndefined, gpucore.StatePresent)
	}
	return l.Close()
}
