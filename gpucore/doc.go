// Package gpucore defines the GPU abstraction the renderer is written
// against.
//
// The renderer records commands, submits them, presents and synchronizes
// through the interfaces in this package. Backends are thin adapters:
//
//	               +-----------------+
//	               |     render      |
//	               |  (frame sync)   |
//	               +--------+--------+
//	                        |
//	               +--------v--------+
//	               |     gpucore     |
//	               +--------+--------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  wgpu backend   |          | software backend|
//	| (gogpu/wgpu)    |          | (queue goroutine|
//	+-----------------+          |  + rasterizer)  |
//	                             +-----------------+
//
// # Execution Model
//
// A [Queue] executes submitted [CommandList]s asynchronously and in
// submission order. [Queue.Signal] enqueues a fence update that takes
// effect only after all previously submitted work completed, so a
// [Fence] value observed through [Fence.Completed] proves that every
// list submitted before the matching Signal has finished.
//
// A CommandList must not be reset while the GPU still executes it.
// Backends that can detect this return [ErrResourceInUse].
//
// # Presentation
//
// A [Surface] owns one [RenderTarget] per buffered frame. The index of
// the target to render next is reported by [Surface.CurrentIndex] and
// may change in any order after [Surface.Present].
package gpucore
