// Package render drives the frame loop.
//
// A [Renderer] owns the device [Context], the [Uploader], the [Recorder],
// the frame synchronizer and the camera. Each [Renderer.Tick]:
//
//  1. updates the camera from the held keys
//  2. writes the world-view-projection matrix into the mapped transform buffer
//  3. records the active slot's command list
//  4. submits it
//  5. presents
//  6. advances to the next slot, blocking only if its GPU work is unfinished
//
// The transform buffer is a single persistently mapped region shared by
// all frames in flight. Step 2 may therefore overwrite the matrix of a
// frame the GPU has not drawn yet; that frame is then drawn with the
// newer camera. Per-slot transform regions would remove the hazard.
package render
