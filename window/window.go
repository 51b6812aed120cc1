// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshview"
)

// ErrClosed is returned by Handle after Close.
var ErrClosed = errors.New("window: closed")

// Window is a fixed-size glfw window without a client API.
//
// Window implements gpucontext.EventSource for key presses, key releases
// and resizes. Every other event kind is ignored.
type Window struct {
	gpucontext.NullEventSource

	win *glfw.Window

	mu        sync.Mutex
	onPress   []func(gpucontext.Key, gpucontext.Modifiers)
	onRelease []func(gpucontext.Key, gpucontext.Modifiers)
	onResize  []func(int, int)
}

var (
	_ gpucontext.EventSource    = (*Window)(nil)
	_ gpucontext.WindowProvider = (*Window)(nil)
)

// Open initializes glfw and creates a window of the given size.
func Open(title string, width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, meshview.Errorf(meshview.KindInit, "open window", fmt.Errorf("%w: size %dx%d", meshview.ErrInvalidConfig, width, height))
	}
	if err := glfw.Init(); err != nil {
		return nil, meshview.Errorf(meshview.KindInit, "glfw init", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, meshview.Errorf(meshview.KindInit, "create window", err)
	}

	w := &Window{win: win}
	win.SetKeyCallback(w.keyCallback)
	win.SetFramebufferSizeCallback(w.sizeCallback)

	meshview.Logger().Debug("window opened", "title", title, "width", width, "height", height)
	return w, nil
}

// Handle returns the native handles for surface creation.
func (w *Window) Handle() (handle Handle, err error) {
	if w.win == nil {
		return handle, ErrClosed
	}
	h, err := nativeHandle(w.win)
	if err != nil {
		return handle, fmt.Errorf("window: native handle: %w", err)
	}
	return h, nil
}

// PollEvents processes pending window events and dispatches callbacks.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.win == nil || w.win.ShouldClose()
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

// ScaleFactor returns the horizontal content scale.
func (w *Window) ScaleFactor() float64 {
	if w.win == nil {
		return 1
	}
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw wakes a blocked event wait. The render loop redraws
// continuously, so this only matters to callers waiting on events.
func (w *Window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

// OnKeyPress registers fn for key presses. Auto-repeat is not reported.
func (w *Window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.mu.Lock()
	w.onPress = append(w.onPress, fn)
	w.mu.Unlock()
}

// OnKeyRelease registers fn for key releases.
func (w *Window) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.mu.Lock()
	w.onRelease = append(w.onRelease, fn)
	w.mu.Unlock()
}

// OnResize registers fn for framebuffer size changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.mu.Lock()
	w.onResize = append(w.onResize, fn)
	w.mu.Unlock()
}

// Close destroys the window and terminates glfw. It is safe to call twice.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	w.dispatchKey(convertKey(key), action, convertMods(mods))
}

func (w *Window) dispatchKey(key gpucontext.Key, action glfw.Action, mods gpucontext.Modifiers) {
	if key == gpucontext.KeyUnknown {
		return
	}

	w.mu.Lock()
	var fns []func(gpucontext.Key, gpucontext.Modifiers)
	switch action {
	case glfw.Press:
		fns = append(fns, w.onPress...)
	case glfw.Release:
		fns = append(fns, w.onRelease...)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(key, mods)
	}
}

func (w *Window) sizeCallback(_ *glfw.Window, width, height int) {
	w.mu.Lock()
	fns := append([]func(int, int)(nil), w.onResize...)
	w.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}
