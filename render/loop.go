// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/frame"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/mesh"
	"github.com/gogpu/meshview/shader"
)

// Pump is the window side of the loop.
type Pump interface {
	PollEvents()
	ShouldClose() bool
}

// Stats is a snapshot of loop counters.
type Stats struct {
	Frames      uint64
	Submissions uint64
	DrawCalls   uint64
	Waits       uint64
	Blocked     time.Duration
	AvgFrame    time.Duration
}

// Renderer drives the frame loop: update, write the transform, record,
// submit, present, advance.
type Renderer struct {
	cfg meshview.Config

	ctx      *Context
	pipeline gpucore.Pipeline
	uploader *Uploader
	recorder *Recorder
	sync     *frame.Synchronizer

	Camera *Camera
	Input  *Controller

	submissions uint64
	frames      uint64
	elapsed     time.Duration
	last        time.Time
	lost        bool
	closed      bool
}

// New initializes the device on b, uploads m, creates the transform
// buffer, submits the startup work and waits for it. Any failure is an
// init error and releases what was created.
func New(ctx context.Context, b gpucore.Backend, win gpucore.WindowHandle, m *mesh.Mesh, cfg meshview.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, meshview.Errorf(meshview.KindInit, "configure", err)
	}
	c, err := NewContext(ctx, b, win, cfg.Width, cfg.Height, cfg.FrameCount)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		cfg:      cfg,
		ctx:      c,
		uploader: NewUploader(c.Device),
		Input:    NewController(cfg.RotateStep, cfg.MoveStep),
	}
	if err := r.init(ctx, m); err != nil {
		r.release()
		return nil, err
	}
	meshview.Logger().Info("render: ready",
		"mesh", m.Name, "vertices", len(m.Vertices), "frames", cfg.FrameCount)
	return r, nil
}

func (r *Renderer) init(ctx context.Context, m *mesh.Mesh) error {
	prog, err := shader.Load(r.cfg.ShaderDir)
	if err != nil {
		return meshview.Errorf(meshview.KindInit, "load shader", err)
	}
	r.pipeline, err = r.ctx.Device.CreatePipeline(&gpucore.PipelineDescriptor{
		Label:         "mesh",
		Source:        prog.Source,
		VertexEntry:   prog.VertexEntry,
		FragmentEntry: prog.FragmentEntry,
		VertexStride:  mesh.Stride,
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpucore.VertexFormatFloat32x4, Offset: mesh.ColorOffset, ShaderLocation: 1},
		},
		UniformSize: matrixSize,
	})
	if err != nil {
		return meshview.Errorf(meshview.KindInit, "create pipeline", err)
	}

	view, err := r.uploader.UploadVertices(m.Vertices)
	if errors.Is(err, ErrNoVertices) {
		return meshview.Errorf(meshview.KindInit, "upload vertices", err)
	}
	if err != nil {
		return err
	}
	group, err := r.uploader.CreateTransformBuffer(r.pipeline)
	if err != nil {
		return err
	}

	w, h := r.ctx.Size()
	r.Camera = NewCamera(float32(w) / float32(h))
	r.Camera.Frame(m)
	if err := r.uploader.WriteTransform(r.Camera.WorldViewProjection()); err != nil {
		return meshview.Errorf(meshview.KindInit, "write transform", err)
	}

	cc := r.cfg.ClearColor
	r.recorder = NewRecorder(r.ctx, r.pipeline, group, view,
		gpucore.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]})

	if err := recordSetup(r.ctx); err != nil {
		return meshview.Errorf(meshview.KindInit, "record setup", err)
	}
	if err := r.ctx.Queue.Submit(r.ctx.Setup); err != nil {
		return meshview.Errorf(meshview.KindInit, "submit setup", err)
	}
	r.submissions++

	r.sync, err = frame.NewSynchronizer(r.ctx.Queue, r.ctx.Surface, r.ctx.Fence, r.ctx.FrameCount(),
		frame.WithTimeout(r.cfg.FenceTimeout))
	if err != nil {
		return meshview.Errorf(meshview.KindInit, "create synchronizer", err)
	}
	if err := r.sync.WaitForGPUIdle(ctx); err != nil {
		return meshview.Errorf(meshview.KindInit, "wait for setup", err)
	}
	return nil
}

// Tick runs one frame.
func (r *Renderer) Tick(ctx context.Context) error {
	if r.closed {
		return meshview.Errorf(meshview.KindRuntime, "tick", gpucore.ErrDestroyed)
	}
	now := time.Now()
	scale := float32(1)
	if r.cfg.DeltaTime && !r.last.IsZero() {
		scale = float32(now.Sub(r.last).Seconds() * 60)
	}
	if !r.last.IsZero() {
		r.elapsed += now.Sub(r.last)
	}
	r.last = now

	r.Input.Apply(r.Camera)
	r.Camera.Update(scale)
	if err := r.uploader.WriteTransform(r.Camera.WorldViewProjection()); err != nil {
		return meshview.Errorf(meshview.KindRuntime, "write transform", err)
	}

	slot := r.sync.Index()
	if err := r.recorder.RecordFrame(slot); err != nil {
		return err
	}
	if err := r.ctx.Queue.Submit(r.ctx.Slots[slot].Commands); err != nil {
		return r.fail(meshview.Errorf(meshview.KindRuntime, "submit", err))
	}
	r.submissions++
	if err := r.ctx.Surface.Present(); err != nil {
		return r.fail(meshview.Errorf(meshview.KindRuntime, "present", err))
	}
	if err := r.sync.AdvanceFrame(ctx); err != nil {
		return r.fail(err)
	}
	r.frames++
	return nil
}

func (r *Renderer) fail(err error) error {
	if errors.Is(err, meshview.ErrDeviceLost) {
		r.lost = true
	}
	return err
}

// Run ticks until ctx ends, the pump asks to close, Escape is pressed or
// the configured frame limit is reached, then drains the GPU.
func (r *Renderer) Run(ctx context.Context, pump Pump) error {
	for {
		if err := ctx.Err(); err != nil {
			break
		}
		if pump != nil {
			pump.PollEvents()
			if pump.ShouldClose() {
				break
			}
		}
		if r.Input.QuitRequested() {
			break
		}
		if r.cfg.MaxFrames > 0 && r.frames >= uint64(r.cfg.MaxFrames) {
			break
		}
		if err := r.Tick(ctx); err != nil {
			return err
		}
	}
	st := r.Stats()
	meshview.Logger().Info("render: loop stopped",
		"frames", st.Frames, "submissions", st.Submissions, "waits", st.Waits, "avg_frame", st.AvgFrame)
	return r.sync.WaitForGPUIdle(context.WithoutCancel(ctx))
}

// Close waits for the GPU to finish, unless the device was lost, and
// releases every resource in reverse creation order. It is safe to call
// more than once.
func (r *Renderer) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	var err error
	if !r.lost && r.sync != nil {
		if err = r.sync.WaitForGPUIdle(ctx); err != nil {
			err = fmt.Errorf("render: drain: %w", err)
		}
	}
	r.release()
	return err
}

func (r *Renderer) release() {
	r.closed = true
	r.uploader.Destroy()
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
	r.ctx.Close()
}

// Submissions returns the number of command lists submitted, including
// the startup list.
func (r *Renderer) Submissions() uint64 { return r.submissions }

// Synchronizer returns the frame synchronizer.
func (r *Renderer) Synchronizer() *frame.Synchronizer { return r.sync }

// Context returns the device context.
func (r *Renderer) Context() *Context { return r.ctx }

// Uploader returns the resource uploader.
func (r *Renderer) Uploader() *Uploader { return r.uploader }

// Recorder returns the command recorder.
func (r *Renderer) Recorder() *Recorder { return r.recorder }

// Stats returns the loop counters.
func (r *Renderer) Stats() Stats {
	s := Stats{
		Frames:      r.frames,
		Submissions: r.submissions,
	}
	if r.recorder != nil {
		s.DrawCalls = r.recorder.DrawCalls()
	}
	if r.sync != nil {
		s.Waits = r.sync.Waits()
		s.Blocked = r.sync.Blocked()
	}
	if r.frames > 1 {
		s.AvgFrame = r.elapsed / time.Duration(r.frames-1)
	}
	return s
}
