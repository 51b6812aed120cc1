package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// Target is a virtual presentable slot.
type Target struct{ index int }

// Index returns the slot index.
func (t *Target) Index() int { return t.index }

// Surface wraps a configured wgpu surface. WebGPU does not report which
// swapchain image it hands out, so CurrentIndex is a counter advanced
// by Present.
type Surface struct {
	surface       *wgpu.Surface
	format        gputypes.TextureFormat
	width, height int
	targets       []*Target
	pos           int

	tex  *wgpu.SurfaceTexture
	view *wgpu.TextureView
}

var _ gpucore.Surface = (*Surface)(nil)

func newSurface(s *wgpu.Surface, format gputypes.TextureFormat, w, h, n int) *Surface {
	out := &Surface{surface: s, format: format, width: w, height: h}
	for i := range n {
		out.targets = append(out.targets, &Target{index: i})
	}
	return out
}

// Targets returns the virtual targets.
func (s *Surface) Targets() []gpucore.RenderTarget {
	out := make([]gpucore.RenderTarget, len(s.targets))
	for i, t := range s.targets {
		out[i] = t
	}
	return out
}

// CurrentIndex returns the slot to render next.
func (s *Surface) CurrentIndex() int { return s.pos }

// textureView acquires the surface texture for the current slot on
// first use in a frame.
func (s *Surface) textureView(target int) (*wgpu.TextureView, error) {
	if target != s.pos {
		return nil, fmt.Errorf("%w: target %d is not current (%d)", gpucore.ErrInvalidState, target, s.pos)
	}
	if s.view != nil {
		return s.view, nil
	}
	tex, suboptimal, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	if suboptimal {
		meshview.Logger().Debug("wgpu: surface suboptimal")
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		s.surface.DiscardTexture()
		return nil, fmt.Errorf("create surface view: %w", err)
	}
	s.tex, s.view = tex, view
	return view, nil
}

// Present presents the acquired texture, if any, and advances the
// current slot.
func (s *Surface) Present() error {
	var err error
	if s.tex != nil {
		err = s.surface.Present(s.tex)
		s.view.Release()
		s.tex, s.view = nil, nil
	}
	s.pos = (s.pos + 1) % len(s.targets)
	if err != nil {
		return fmt.Errorf("wgpu: present: %w", err)
	}
	return nil
}

// Size returns the configured size.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Destroy releases the surface.
func (s *Surface) Destroy() {
	if s.view != nil {
		s.view.Release()
		s.surface.DiscardTexture()
		s.tex, s.view = nil, nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}
