package window

import "github.com/gogpu/meshview/gpucore"

// Handle is the native handle pair of an open window.
type Handle = gpucore.WindowHandle
