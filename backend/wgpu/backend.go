// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	_ "github.com/gogpu/wgpu/hal/allbackends" // register HAL backends

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/backend"
	"github.com/gogpu/meshview/gpucore"
)

func init() {
	backend.Register(backend.NameWGPU, func() gpucore.Backend {
		return New()
	})
}

// ErrNoWindow is returned by Open without a native window handle.
var ErrNoWindow = errors.New("wgpu: no window handle")

// SurfaceFormat is the color format the surface is configured with.
const SurfaceFormat = gputypes.TextureFormatBGRA8Unorm

// Option configures the wgpu backend.
type Option func(*options)

type options struct {
	backends    wgpu.Backends
	power       wgpu.PowerPreference
	presentMode wgpu.PresentMode
}

// WithBackends restricts the native APIs considered.
func WithBackends(b wgpu.Backends) Option {
	return func(o *options) {
		o.backends = b
	}
}

// WithPowerPreference selects between integrated and discrete adapters.
func WithPowerPreference(p wgpu.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithPresentMode sets the surface present mode. The default is FIFO.
func WithPresentMode(m wgpu.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// Backend opens wgpu devices.
type Backend struct {
	opts options
}

// New creates a wgpu backend.
func New(opts ...Option) *Backend {
	o := options{
		backends:    gputypes.BackendsPrimary,
		power:       wgpu.PowerPreferenceHighPerformance,
		presentMode: gputypes.PresentModeFifo,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{opts: o}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.NameWGPU }

// Open creates the instance, a surface on desc.Window, an adapter able
// to present to it and a device, then configures the surface.
// Adapter selection failures are reported as no-device errors.
func (b *Backend) Open(ctx context.Context, desc *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if desc.Window.Window == 0 {
		return nil, ErrNoWindow
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.FrameCount < 1 {
		return nil, fmt.Errorf("wgpu: invalid surface %dx%d with %d frames", desc.Width, desc.Height, desc.FrameCount)
	}
	wgpu.SetLogger(meshview.Logger())

	d := &Device{}
	if err := b.open(d, desc); err != nil {
		if d.surface != nil {
			d.surface.Destroy()
		}
		d.Destroy()
		return nil, err
	}
	logGPUInfo(d.info, d.dev.Limits())
	return d, nil
}

func (b *Backend) open(d *Device, desc *gpucore.DeviceDescriptor) error {
	var err error
	d.inst, err = wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: b.opts.backends})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	surf, err := d.inst.CreateSurface(desc.Window.Display, desc.Window.Window)
	if err != nil {
		return fmt.Errorf("wgpu: create surface: %w", err)
	}
	d.surface = newSurface(surf, SurfaceFormat, desc.Width, desc.Height, desc.FrameCount)

	d.adapter, err = d.inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   b.opts.power,
		CompatibleSurface: surf,
	})
	if err != nil {
		return meshview.Errorf(meshview.KindNoDevice, "request adapter", err)
	}
	d.info = gpuInfo(d.adapter)

	dev, err := d.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          desc.Label,
		RequiredLimits: wgpu.DefaultLimits(),
	})
	if err != nil {
		return meshview.Errorf(meshview.KindNoDevice, "request device", err)
	}
	d.dev = dev
	d.limits = convertLimits(dev.Limits())
	d.queue = &Queue{dev: d, queue: dev.Queue()}

	err = surf.Configure(dev, &wgpu.SurfaceConfiguration{
		Width:       uint32(desc.Width),
		Height:      uint32(desc.Height),
		Format:      SurfaceFormat,
		Usage:       wgpu.TextureUsageRenderAttachment,
		PresentMode: b.opts.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("wgpu: configure surface: %w", err)
	}
	return nil
}
