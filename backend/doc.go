// Package backend selects the GPU implementation the renderer runs on.
//
// Backends register themselves via init() functions and are selected at
// runtime by name, or by priority when no name is given:
//
//	import (
//	    _ "github.com/gogpu/meshview/backend/software"
//	    _ "github.com/gogpu/meshview/backend/wgpu"
//	)
//
//	dev, err := backend.Open(ctx, "", &gpucore.DeviceDescriptor{...})
//
// Priority order: wgpu, then software.
package backend
