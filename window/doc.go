// Package window opens the presentation window and turns its native
// events into gpucontext key events.
//
// The window is created with glfw and no client API, so the GPU backend
// owns the surface. Handle returns the platform handles the surface is
// created from: the HWND on Windows, the X11 display and window on Linux
// and BSD, and a CAMetalLayer attached to the content view on macOS.
//
// glfw must be driven from the main OS thread. Callers lock it with
// runtime.LockOSThread before calling Open.
package window
