// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// ErrTimeout is wrapped in the device-lost error returned when a fence
// wait exceeds its bound.
var ErrTimeout = errors.New("frame: fence wait timed out")

// IndexSource reports the slot to render next. gpucore.Surface
// implements it.
type IndexSource interface {
	CurrentIndex() int
}

// SlotState is the lifecycle state of one frame slot.
type SlotState int

const (
	// Idle means the slot has no outstanding GPU work, or it is the
	// active slot being recorded.
	Idle SlotState = iota

	// Submitted means the slot's work was signaled but the GPU has not
	// reached its fence value yet.
	Submitted

	// SignaledComplete means the GPU reached the slot's fence value; the
	// slot becomes Idle when it is made active again.
	SignaledComplete
)

func (s SlotState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitted:
		return "submitted"
	case SignaledComplete:
		return "signaled-complete"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTimeout bounds every fence wait. A wait that exceeds d fails with
// a device-lost error. Zero, the default, waits until the context ends.
func WithTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.timeout = d
	}
}

// Synchronizer tracks per-slot fence values. It is driven from a single
// goroutine and is not safe for concurrent use.
type Synchronizer struct {
	queue   gpucore.Queue
	frames  IndexSource
	fence   gpucore.Fence
	timeout time.Duration

	required []uint64
	// pending is the value signaled for each slot's latest work,
	// zero if the slot never ran.
	pending []uint64

	index        int
	lastSignaled uint64

	waits   uint64
	blocked time.Duration
}

// NewSynchronizer creates a synchronizer for frameCount slots. The active
// slot is read from frames and requires fence value 1.
func NewSynchronizer(q gpucore.Queue, frames IndexSource, f gpucore.Fence, frameCount int, opts ...Option) (*Synchronizer, error) {
	if frameCount < 1 {
		return nil, fmt.Errorf("frame: invalid frame count %d", frameCount)
	}
	s := &Synchronizer{
		queue:    q,
		frames:   frames,
		fence:    f,
		required: make([]uint64, frameCount),
		pending:  make([]uint64, frameCount),
	}
	for _, opt := range opts {
		opt(s)
	}
	idx, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	s.index = idx
	s.required[idx] = 1
	return s, nil
}

// Index returns the active slot.
func (s *Synchronizer) Index() int { return s.index }

// FrameCount returns the number of slots.
func (s *Synchronizer) FrameCount() int { return len(s.required) }

// Required returns the fence value slot i waits for before reuse.
func (s *Synchronizer) Required(i int) uint64 { return s.required[i] }

// LastSignaled returns the most recent value passed to Queue.Signal.
func (s *Synchronizer) LastSignaled() uint64 { return s.lastSignaled }

// Waits returns how many times the CPU actually blocked on the fence.
func (s *Synchronizer) Waits() uint64 { return s.waits }

// Blocked returns the total time spent blocked on the fence.
func (s *Synchronizer) Blocked() time.Duration { return s.blocked }

// SlotState reports the lifecycle state of slot i.
func (s *Synchronizer) SlotState(i int) SlotState {
	switch {
	case i == s.index || s.pending[i] == 0:
		return Idle
	case s.fence.Completed() >= s.pending[i]:
		return SignaledComplete
	default:
		return Submitted
	}
}

// WaitForGPUIdle blocks until all submitted work completed. It signals
// the active slot's value, waits for it, and increments the value. It is
// used after the startup submission and before releasing resources;
// calling it again with nothing submitted returns promptly. After an
// interrupted AdvanceFrame the active slot may lag the last signaled
// value; the drain then waits for the last signaled value instead.
func (s *Synchronizer) WaitForGPUIdle(ctx context.Context) error {
	v := max(s.required[s.index], s.lastSignaled)
	s.required[s.index] = v
	if err := s.signal(v); err != nil {
		return err
	}
	s.pending[s.index] = v
	if err := s.wait(ctx, v); err != nil {
		return err
	}
	s.required[s.index]++
	return nil
}

// AdvanceFrame is called after the active slot was submitted and
// presented. It signals the active slot, moves to the slot the surface
// reports, and blocks only if that slot's previous work is unfinished.
func (s *Synchronizer) AdvanceFrame(ctx context.Context) error {
	current := s.required[s.index]
	if err := s.signal(current); err != nil {
		return err
	}
	s.pending[s.index] = current

	next, err := s.readIndex()
	if err != nil {
		return err
	}
	s.index = next

	if s.fence.Completed() < s.required[next] {
		if err := s.wait(ctx, s.required[next]); err != nil {
			return err
		}
	}
	s.required[next] = current + 1
	return nil
}

func (s *Synchronizer) readIndex() (int, error) {
	idx := s.frames.CurrentIndex()
	if idx < 0 || idx >= len(s.required) {
		return 0, meshview.Errorf(meshview.KindRuntime, "read frame index",
			fmt.Errorf("frame: surface index %d out of range [0,%d)", idx, len(s.required)))
	}
	return idx, nil
}

func (s *Synchronizer) signal(v uint64) error {
	if err := s.queue.Signal(s.fence, v); err != nil {
		return meshview.Errorf(meshview.KindRuntime, "signal fence", err)
	}
	s.lastSignaled = v
	return nil
}

func (s *Synchronizer) wait(ctx context.Context, v uint64) error {
	start := time.Now()
	wctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.fence.Wait(wctx, v)
	elapsed := time.Since(start)
	s.waits++
	s.blocked += elapsed

	switch {
	case err == nil:
	case ctx.Err() != nil:
		return fmt.Errorf("frame: wait for fence value %d: %w", v, ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		return meshview.Errorf(meshview.KindDeviceLost, "wait for fence",
			fmt.Errorf("%w: value %d not reached after %v, completed %d", ErrTimeout, v, s.timeout, s.fence.Completed()))
	default:
		return meshview.Errorf(meshview.KindRuntime, "wait for fence", err)
	}

	meshview.Logger().Debug("frame: fence wait",
		"slot", s.index, "value", v, "completed", s.fence.Completed(), "elapsed", elapsed)
	return nil
}
