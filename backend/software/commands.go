package software

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// OpKind identifies a recorded command.
type OpKind int

// Recorded command kinds.
const (
	OpSetPipeline OpKind = iota + 1
	OpSetBindGroup
	OpSetViewport
	OpSetScissor
	OpTransition
	OpClear
	OpSetVertexBuffer
	OpDraw
)

var opNames = [...]string{
	OpSetPipeline:     "SetPipeline",
	OpSetBindGroup:    "SetBindGroup",
	OpSetViewport:     "SetViewport",
	OpSetScissor:      "SetScissor",
	OpTransition:      "Transition",
	OpClear:           "Clear",
	OpSetVertexBuffer: "SetVertexBuffer",
	OpDraw:            "Draw",
}

func (k OpKind) String() string {
	if k > 0 && int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded command. Only the fields of its kind are set.
type Op struct {
	Kind OpKind

	// Target is the render target index for Transition and Clear.
	Target   int
	From, To gpucore.ResourceState
	Color    gpucore.Color

	Viewport gpucore.Viewport
	Scissor  gpucore.Rect

	GroupIndex uint32
	Stride     uint32
	Size       uint64

	VertexCount, InstanceCount uint32
	FirstVertex, FirstInstance uint32

	pipeline *Pipeline
	group    *BindGroup
	vertices *Buffer
}

// CommandList records ops for the queue goroutine.
type CommandList struct {
	dev       *Device
	label     string
	ops       []Op
	recording bool
	err       error

	// inFlight counts submissions the queue has not finished.
	inFlight atomic.Int32
}

var _ gpucore.CommandList = (*CommandList)(nil)

// Reset opens the list for recording. It refuses while a previous
// submission is still executing and counts the attempt as a hazard.
func (l *CommandList) Reset() error {
	if n := l.inFlight.Load(); n > 0 {
		l.dev.hazards.Add(1)
		meshview.Logger().Warn("software: command list reset while in flight",
			"list", l.label, "pending", n)
		return fmt.Errorf("software: reset %q: %w", l.label, gpucore.ErrResourceInUse)
	}
	l.ops = l.ops[:0]
	l.err = nil
	l.recording = true
	return nil
}

// InFlight reports whether the queue still holds a submission of l.
func (l *CommandList) InFlight() bool { return l.inFlight.Load() > 0 }

// Ops returns a copy of the recorded commands.
func (l *CommandList) Ops() []Op {
	return append([]Op(nil), l.ops...)
}

func (l *CommandList) record(op Op) {
	if !l.recording {
		if l.err == nil {
			l.err = gpucore.ErrNotRecording
		}
		return
	}
	l.ops = append(l.ops, op)
}

func (l *CommandList) setErr(err error) {
	if l.err == nil {
		l.err = err
	}
}

func (l *CommandList) SetPipeline(p gpucore.Pipeline) {
	sp, ok := p.(*Pipeline)
	if !ok {
		l.setErr(gpucore.ErrForeignObject)
		return
	}
	l.record(Op{Kind: OpSetPipeline, pipeline: sp})
}

func (l *CommandList) SetBindGroup(index uint32, g gpucore.BindGroup) {
	sg, ok := g.(*BindGroup)
	if !ok {
		l.setErr(gpucore.ErrForeignObject)
		return
	}
	l.record(Op{Kind: OpSetBindGroup, GroupIndex: index, group: sg})
}

func (l *CommandList) SetViewport(v gpucore.Viewport) {
	l.record(Op{Kind: OpSetViewport, Viewport: v})
}

func (l *CommandList) SetScissor(r gpucore.Rect) {
	l.record(Op{Kind: OpSetScissor, Scissor: r})
}

func (l *CommandList) Transition(t gpucore.RenderTarget, from, to gpucore.ResourceState) {
	st, ok := t.(*Target)
	if !ok {
		l.setErr(gpucore.ErrForeignObject)
		return
	}
	l.record(Op{Kind: OpTransition, Target: st.index, From: from, To: to})
}

func (l *CommandList) Clear(t gpucore.RenderTarget, c gpucore.Color) {
	st, ok := t.(*Target)
	if !ok {
		l.setErr(gpucore.ErrForeignObject)
		return
	}
	l.record(Op{Kind: OpClear, Target: st.index, Color: c})
}

func (l *CommandList) SetVertexBuffer(v gpucore.VertexBufferView) {
	b, ok := v.Buffer.(*Buffer)
	if !ok {
		l.setErr(gpucore.ErrForeignObject)
		return
	}
	if v.Size > b.Size() {
		l.setErr(fmt.Errorf("software: vertex view of %d bytes exceeds buffer of %d", v.Size, b.Size()))
		return
	}
	l.record(Op{Kind: OpSetVertexBuffer, Stride: v.Stride, Size: v.Size, vertices: b})
}

func (l *CommandList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	l.record(Op{
		Kind:          OpDraw,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
}

// Close ends recording and returns the first recording error.
func (l *CommandList) Close() error {
	if !l.recording {
		return fmt.Errorf("software: close %q: %w", l.label, gpucore.ErrNotRecording)
	}
	l.recording = false
	return l.err
}

// Destroy is a no-op.
func (l *CommandList) Destroy() {}
