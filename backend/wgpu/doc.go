// Package wgpu implements the GPU backend on gogpu/wgpu, a pure Go
// WebGPU implementation running on Vulkan, Metal, DX12 or GLES depending
// on the platform.
//
// WebGPU hides several of the primitives the frame synchronizer is built
// around, so the backend emulates them:
//
//   - Fences are timelines over queue submission indices. Queue.Signal
//     records the value together with the last submission index and the
//     fence completes it once Queue.Poll reports that index done.
//   - Mapped buffers are host shadows. Flush copies the written range with
//     Queue.WriteBuffer, which is staged and ordered before the next
//     submission.
//   - The surface does not expose the swapchain image index. Targets are
//     virtual slots and the current index advances by one per Present.
//   - Resource transitions bracket render passes: a transition to the
//     render-target state opens a pass, the transition back ends it.
//
// Importing the package registers the backend as "wgpu".
package wgpu
