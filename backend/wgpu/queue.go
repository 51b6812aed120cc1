package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview/gpucore"
)

// retired holds command buffers until their submission completes.
type retired struct {
	submission uint64
	buffers    []*wgpu.CommandBuffer
}

// Queue submits recorded lists to the wgpu queue.
type Queue struct {
	dev     *Device
	queue   *wgpu.Queue
	retired []retired

	submitted atomic.Uint64
}

var _ gpucore.Queue = (*Queue)(nil)

// completed returns the last finished submission index.
func (q *Queue) completed() uint64 { return q.queue.Poll() }

// Submit encodes each list into a command buffer and submits them in
// one batch. Pending buffer writes are ordered before the batch.
func (q *Queue) Submit(lists ...gpucore.CommandList) error {
	cls := make([]*CommandList, 0, len(lists))
	for _, l := range lists {
		cl, ok := l.(*CommandList)
		if !ok {
			return gpucore.ErrForeignObject
		}
		if cl.recording {
			return fmt.Errorf("wgpu: submit %q: %w", cl.label, gpucore.ErrNotClosed)
		}
		if cl.err != nil {
			return fmt.Errorf("wgpu: submit %q: %w", cl.label, cl.err)
		}
		cls = append(cls, cl)
	}

	cbs := make([]*wgpu.CommandBuffer, 0, len(cls))
	release := func() {
		for _, cb := range cbs {
			cb.Release()
		}
	}
	for _, cl := range cls {
		cb, err := q.encode(cl)
		if err != nil {
			release()
			return fmt.Errorf("wgpu: submit %q: %w", cl.label, err)
		}
		cbs = append(cbs, cb)
	}

	idx, err := q.queue.Submit(cbs...)
	if err != nil {
		release()
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	for _, cl := range cls {
		cl.submission = idx
	}
	q.submitted.Add(uint64(len(cls)))
	q.retired = append(q.retired, retired{submission: idx, buffers: cbs})
	q.collect(q.completed())
	return nil
}

func (q *Queue) encode(cl *CommandList) (*wgpu.CommandBuffer, error) {
	passes, err := plan(cl.ops)
	if err != nil {
		return nil, err
	}
	enc, err := q.dev.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: cl.label})
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	if err := encode(enc, cl.label, passes, q.dev.surface.textureView); err != nil {
		enc.DiscardEncoding()
		return nil, err
	}
	cb, err := enc.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish encoder: %w", err)
	}
	return cb, nil
}

// collect releases command buffers of submissions up to done.
func (q *Queue) collect(done uint64) {
	i := 0
	for ; i < len(q.retired) && q.retired[i].submission <= done; i++ {
		for _, cb := range q.retired[i].buffers {
			cb.Release()
		}
	}
	q.retired = q.retired[i:]
}

// Signal marks value reached once the latest submission completes.
func (q *Queue) Signal(f gpucore.Fence, value uint64) error {
	wf, ok := f.(*Fence)
	if !ok {
		return gpucore.ErrForeignObject
	}
	return wf.tl.signal(value, q.queue.LastSubmissionIndex())
}

// Submitted returns the number of command lists submitted.
func (q *Queue) Submitted() uint64 { return q.submitted.Load() }
