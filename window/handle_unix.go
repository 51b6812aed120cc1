//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandle(win *glfw.Window) (Handle, error) {
	display := uintptr(unsafe.Pointer(glfw.GetX11Display()))
	xid := uintptr(win.GetX11Window())
	if display == 0 || xid == 0 {
		return Handle{}, errNoNativeWindow
	}
	return Handle{Display: display, Window: xid}, nil
}
