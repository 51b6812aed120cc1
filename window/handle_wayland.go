//go:build (linux || freebsd || netbsd || openbsd) && wayland

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandle(win *glfw.Window) (Handle, error) {
	display := uintptr(unsafe.Pointer(glfw.GetWaylandDisplay()))
	surface := uintptr(unsafe.Pointer(win.GetWaylandWindow()))
	if display == 0 || surface == 0 {
		return Handle{}, errNoNativeWindow
	}
	return Handle{Display: display, Window: surface}, nil
}
