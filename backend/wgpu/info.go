package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// GPUInfo contains information about the selected GPU.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType wgpu.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend wgpu.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// AdapterInfo converts g to the backend-neutral description.
func (g *GPUInfo) AdapterInfo() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{
		Name:    g.Name,
		Vendor:  g.Vendor,
		Backend: "wgpu/" + g.Backend.String(),
		Driver:  g.Driver,
	}
}

// gpuInfo retrieves information about the GPU adapter.
func gpuInfo(a *wgpu.Adapter) *GPUInfo {
	info := a.Info()
	return &GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

// logGPUInfo logs information about the selected GPU.
func logGPUInfo(info *GPUInfo, limits wgpu.Limits) {
	log := meshview.Logger()
	log.Info("wgpu: GPU selected", "gpu", info.String())
	if info.Driver != "" {
		log.Debug("wgpu: driver", "version", info.Driver)
	}
	log.Debug("wgpu: limits",
		"max_buffer_size", limits.MaxBufferSize,
		"min_uniform_offset_alignment", limits.MinUniformBufferOffsetAlignment)
}

// convertLimits keeps the limits the renderer checks.
func convertLimits(l wgpu.Limits) gpucore.Limits {
	out := gpucore.Limits{
		MinUniformBufferOffsetAlignment: l.MinUniformBufferOffsetAlignment,
		MaxBufferSize:                   l.MaxBufferSize,
	}
	def := gpucore.DefaultLimits()
	if out.MinUniformBufferOffsetAlignment == 0 {
		out.MinUniformBufferOffsetAlignment = def.MinUniformBufferOffsetAlignment
	}
	if out.MaxBufferSize == 0 {
		out.MaxBufferSize = def.MaxBufferSize
	}
	return out
}
