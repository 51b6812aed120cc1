// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame keeps the CPU at most N-1 frames ahead of the GPU.
//
// Every frame slot (command list plus render target) carries the fence
// value the GPU must reach before the slot may be recorded again. After
// each submission the [Synchronizer] signals the current slot's value,
// reads the next slot index back from the surface, and blocks only if
// that slot's previous work has not completed:
//
//	current := required[active]
//	queue.Signal(fence, current)
//	active = surface.CurrentIndex()
//	if fence.Completed() < required[active] {
//	    fence.Wait(required[active])
//	}
//	required[active] = current + 1
//
// Fence values only increase, and no two slots ever require the same
// value.
package frame
