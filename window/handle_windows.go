//go:build windows

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// The Vulkan and DX12 backends fill in the module instance when Display
// is zero.
func nativeHandle(win *glfw.Window) (Handle, error) {
	hwnd := uintptr(unsafe.Pointer(win.GetWin32Window()))
	if hwnd == 0 {
		return Handle{}, errNoNativeWindow
	}
	return Handle{Window: hwnd}, nil
}
