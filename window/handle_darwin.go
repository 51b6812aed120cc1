//go:build darwin

package window

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const quartzCore = "/System/Library/Frameworks/QuartzCore.framework/QuartzCore"

var (
	objcOnce sync.Once
	objcErr  error

	selContentView   objc.SEL
	selSetWantsLayer objc.SEL
	selSetLayer      objc.SEL
	selLayer         objc.SEL
	classMetalLayer  objc.Class
)

func initObjC() error {
	objcOnce.Do(func() {
		if _, err := purego.Dlopen(quartzCore, purego.RTLD_NOW|purego.RTLD_GLOBAL); err != nil {
			objcErr = err
			return
		}
		selContentView = objc.RegisterName("contentView")
		selSetWantsLayer = objc.RegisterName("setWantsLayer:")
		selSetLayer = objc.RegisterName("setLayer:")
		selLayer = objc.RegisterName("layer")
		classMetalLayer = objc.GetClass("CAMetalLayer")
		if classMetalLayer == 0 {
			objcErr = errNoMetalLayer
		}
	})
	return objcErr
}

// nativeHandle backs the content view with a CAMetalLayer and returns the
// layer. The Metal backend presents into it directly.
func nativeHandle(win *glfw.Window) (Handle, error) {
	if err := initObjC(); err != nil {
		return Handle{}, err
	}

	nsWindow := objc.ID(uintptr(win.GetCocoaWindow()))
	if nsWindow == 0 {
		return Handle{}, errNoNativeWindow
	}
	view := nsWindow.Send(selContentView)
	if view == 0 {
		return Handle{}, errNoNativeWindow
	}

	layer := objc.ID(classMetalLayer).Send(selLayer)
	view.Send(selSetWantsLayer, true)
	view.Send(selSetLayer, layer)
	return Handle{Window: uintptr(layer)}, nil
}
