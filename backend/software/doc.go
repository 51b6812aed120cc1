// Package software implements gpucore on the CPU.
//
// The device runs a queue goroutine that executes submitted command lists
// and fence signals strictly in submission order, optionally after an
// artificial per-submission latency. From the renderer's point of view
// it behaves like a discrete GPU: Submit returns immediately, fences
// complete later, and a command list reset while its previous
// submission is still executing is refused with gpucore.ErrResourceInUse
// and counted as a hazard.
//
// Render targets are image.RGBA buffers. Draws transform positions by
// the 4x4 column-major matrix found in the bound uniform buffer at
// execution time and fill color-interpolated triangles. There is no
// depth test and no near-plane clipping: triangles with a vertex behind
// the camera are dropped.
//
// Buffers model non-coherent host memory: writes through the mapping
// reach the device copy on Flush.
//
// Registration:
//
//	import _ "github.com/gogpu/meshview/backend/software"
package software
