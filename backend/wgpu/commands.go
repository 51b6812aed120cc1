package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

type opKind int

const (
	opPipeline opKind = iota + 1
	opBindGroup
	opViewport
	opScissor
	opVertexBuffer
	opTransition
	opClear
	opDraw
)

// op is one recorded command, replayed into a render pass at submit.
type op struct {
	kind opKind

	target   int
	from, to gpucore.ResourceState
	color    gpucore.Color

	viewport gpucore.Viewport
	scissor  gpucore.Rect

	index    uint32
	pipeline *Pipeline
	group    *BindGroup
	vertices *Buffer

	vertexCount, instanceCount uint32
	firstVertex, firstInstance uint32
}

// CommandList records commands on the CPU. Submit turns them into a
// wgpu command buffer.
type CommandList struct {
	dev       *Device
	label     string
	ops       []op
	recording bool
	err       error

	// submission is the queue index of the latest submission.
	submission uint64
}

var _ gpucore.CommandList = (*CommandList)(nil)

// CreateCommandList creates a closed command list.
func (d *Device) CreateCommandList(label string) (gpucore.CommandList, error) {
	if d.dev == nil {
		return nil, gpucore.ErrDestroyed
	}
	return &CommandList{dev: d, label: label}, nil
}

// Reset opens the list for recording. It fails while the queue has not
// finished the list's latest submission.
func (l *CommandList) Reset() error {
	if done := l.dev.queue.completed(); l.submission > done {
		l.dev.hazards.Add(1)
		meshview.Logger().Warn("wgpu: command list reset while in flight",
			"list", l.label, "submission", l.submission, "completed", done)
		return fmt.Errorf("wgpu: reset %q: %w", l.label, gpucore.ErrResourceInUse)
	}
	l.ops = l.ops[:0]
	l.err = nil
	l.recording = true
	return nil
}

func (l *CommandList) record(o op) {
	if !l.recording {
		if l.err == nil {
			l.err = gpucore.ErrNotRecording
		}
		return
	}
	l.ops = append(l.ops, o)
}

func (l *CommandList) foreign() {
	if l.err == nil {
		l.err = gpucore.ErrForeignObject
	}
}

func (l *CommandList) SetPipeline(p gpucore.Pipeline) {
	wp, ok := p.(*Pipeline)
	if !ok {
		l.foreign()
		return
	}
	l.record(op{kind: opPipeline, pipeline: wp})
}

func (l *CommandList) SetBindGroup(index uint32, g gpucore.BindGroup) {
	wg, ok := g.(*BindGroup)
	if !ok {
		l.foreign()
		return
	}
	l.record(op{kind: opBindGroup, index: index, group: wg})
}

func (l *CommandList) SetViewport(v gpucore.Viewport) {
	l.record(op{kind: opViewport, viewport: v})
}

func (l *CommandList) SetScissor(r gpucore.Rect) {
	l.record(op{kind: opScissor, scissor: r})
}

func (l *CommandList) Transition(t gpucore.RenderTarget, from, to gpucore.ResourceState) {
	l.record(op{kind: opTransition, target: t.Index(), from: from, to: to})
}

func (l *CommandList) Clear(t gpucore.RenderTarget, c gpucore.Color) {
	l.record(op{kind: opClear, target: t.Index(), color: c})
}

func (l *CommandList) SetVertexBuffer(v gpucore.VertexBufferView) {
	b, ok := v.Buffer.(*Buffer)
	if !ok {
		l.foreign()
		return
	}
	l.record(op{kind: opVertexBuffer, vertices: b})
}

func (l *CommandList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	l.record(op{
		kind:          opDraw,
		vertexCount:   vertexCount,
		instanceCount: instanceCount,
		firstVertex:   firstVertex,
		firstInstance: firstInstance,
	})
}

// Close ends recording. The op stream is checked here so that Submit
// only fails for GPU reasons.
func (l *CommandList) Close() error {
	if !l.recording {
		return fmt.Errorf("wgpu: close %q: %w", l.label, gpucore.ErrNotRecording)
	}
	l.recording = false
	if l.err != nil {
		return l.err
	}
	if _, err := plan(l.ops); err != nil {
		l.err = err
		return fmt.Errorf("wgpu: close %q: %w", l.label, err)
	}
	return nil
}

// Destroy is a no-op; command buffers are released by the queue.
func (l *CommandList) Destroy() {}

// pass is one render pass derived from the op stream.
type pass struct {
	target int
	load   gputypes.LoadOp
	clear  gputypes.Color
	ops    []op
	draws  int
}

// plan groups ops into render passes. A transition into the render
// target state opens a pass and the transition out closes it. Bound
// state recorded before a pass is replayed at its start.
func plan(ops []op) ([]pass, error) {
	var (
		out   []pass
		state []op
		cur   *pass
	)
	for _, o := range ops {
		switch o.kind {
		case opTransition:
			switch {
			case o.to == gpucore.StateRenderTarget:
				if cur != nil {
					return nil, fmt.Errorf("%w: pass on target %d opened inside pass on %d", gpucore.ErrInvalidState, o.target, cur.target)
				}
				cur = &pass{target: o.target, load: gputypes.LoadOpLoad, ops: append([]op(nil), state...)}
			case o.from == gpucore.StateRenderTarget:
				if cur == nil || cur.target != o.target {
					return nil, fmt.Errorf("%w: target %d leaves render target state without a pass", gpucore.ErrInvalidState, o.target)
				}
				out = append(out, *cur)
				cur = nil
			}
		case opClear:
			if cur == nil || cur.target != o.target {
				return nil, fmt.Errorf("%w: clear of target %d outside its pass", gpucore.ErrInvalidState, o.target)
			}
			if cur.draws > 0 {
				return nil, fmt.Errorf("%w: clear of target %d after a draw", gpucore.ErrInvalidState, o.target)
			}
			cur.load = gputypes.LoadOpClear
			cur.clear = gputypes.Color{R: o.color.R, G: o.color.G, B: o.color.B, A: o.color.A}
		case opDraw:
			if cur == nil {
				return nil, fmt.Errorf("%w: draw outside a render pass", gpucore.ErrInvalidState)
			}
			cur.ops = append(cur.ops, o)
			cur.draws++
		default:
			state = setState(state, o)
			if cur != nil {
				cur.ops = append(cur.ops, o)
			}
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: pass on target %d not closed", gpucore.ErrInvalidState, cur.target)
	}
	return out, nil
}

// setState replaces the previous op of the same kind (and bind group
// index) in state.
func setState(state []op, o op) []op {
	for i, s := range state {
		if s.kind == o.kind && (o.kind != opBindGroup || s.index == o.index) {
			state[i] = o
			return state
		}
	}
	return append(state, o)
}

// encode replays passes into enc. view returns the texture view of a
// render target.
func encode(enc *wgpu.CommandEncoder, label string, passes []pass, view func(target int) (*wgpu.TextureView, error)) error {
	for _, p := range passes {
		v, err := view(p.target)
		if err != nil {
			return err
		}
		rp, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: label,
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       v,
				LoadOp:     p.load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: p.clear,
			}},
		})
		if err != nil {
			return fmt.Errorf("begin render pass: %w", err)
		}
		for _, o := range p.ops {
			switch o.kind {
			case opPipeline:
				rp.SetPipeline(o.pipeline.pipeline)
			case opBindGroup:
				rp.SetBindGroup(o.index, o.group.group, nil)
			case opViewport:
				vp := o.viewport
				rp.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
			case opScissor:
				s := o.scissor
				rp.SetScissorRect(s.X, s.Y, s.Width, s.Height)
			case opVertexBuffer:
				rp.SetVertexBuffer(0, o.vertices.buf, 0)
			case opDraw:
				rp.Draw(o.vertexCount, o.instanceCount, o.firstVertex, o.firstInstance)
			}
		}
		if err := rp.End(); err != nil {
			return fmt.Errorf("end render pass: %w", err)
		}
	}
	return nil
}
