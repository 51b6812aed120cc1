package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

var namedKeys = map[glfw.Key]gpucontext.Key{
	glfw.KeyEscape:       gpucontext.KeyEscape,
	glfw.KeyTab:          gpucontext.KeyTab,
	glfw.KeyBackspace:    gpucontext.KeyBackspace,
	glfw.KeyEnter:        gpucontext.KeyEnter,
	glfw.KeySpace:        gpucontext.KeySpace,
	glfw.KeyInsert:       gpucontext.KeyInsert,
	glfw.KeyDelete:       gpucontext.KeyDelete,
	glfw.KeyHome:         gpucontext.KeyHome,
	glfw.KeyEnd:          gpucontext.KeyEnd,
	glfw.KeyPageUp:       gpucontext.KeyPageUp,
	glfw.KeyPageDown:     gpucontext.KeyPageDown,
	glfw.KeyLeft:         gpucontext.KeyLeft,
	glfw.KeyRight:        gpucontext.KeyRight,
	glfw.KeyUp:           gpucontext.KeyUp,
	glfw.KeyDown:         gpucontext.KeyDown,
	glfw.KeyLeftShift:    gpucontext.KeyLeftShift,
	glfw.KeyRightShift:   gpucontext.KeyRightShift,
	glfw.KeyLeftControl:  gpucontext.KeyLeftControl,
	glfw.KeyRightControl: gpucontext.KeyRightControl,
	glfw.KeyLeftAlt:      gpucontext.KeyLeftAlt,
	glfw.KeyRightAlt:     gpucontext.KeyRightAlt,
	glfw.KeyLeftSuper:    gpucontext.KeyLeftSuper,
	glfw.KeyRightSuper:   gpucontext.KeyRightSuper,
}

// convertKey maps a glfw key to its gpucontext equivalent. Keys the
// viewer has no use for map to KeyUnknown.
func convertKey(k glfw.Key) gpucontext.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw.KeyF1)
	}
	if key, ok := namedKeys[k]; ok {
		return key
	}
	return gpucontext.KeyUnknown
}

func convertMods(m glfw.ModifierKey) gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if m&glfw.ModShift != 0 {
		mods |= gpucontext.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= gpucontext.ModControl
	}
	if m&glfw.ModAlt != 0 {
		mods |= gpucontext.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		mods |= gpucontext.ModSuper
	}
	if m&glfw.ModCapsLock != 0 {
		mods |= gpucontext.ModCapsLock
	}
	if m&glfw.ModNumLock != 0 {
		mods |= gpucontext.ModNumLock
	}
	return mods
}
