// Package meshview is a minimal real-time 3D mesh viewer.
//
// # Overview
//
// meshview loads a triangle mesh, uploads it once, and draws it every
// frame with a first-person camera. The interesting part is the frame
// lifecycle: N frames are kept in flight and a fence protects every
// per-frame resource, so the CPU never rewrites a command list the GPU is
// still executing.
//
// The root package holds the ambient pieces shared by all sub-packages:
// logging ([SetLogger], [Logger]), the error taxonomy ([Error], [Kind]) and
// configuration ([Config], [LoadConfig]).
//
// # Packages
//
//   - gpucore: device, queue, fence, surface and command list interfaces
//   - backend: backend registry; backend/wgpu and backend/software implement it
//   - frame: the fence-based frame synchronizer
//   - render: device context, uploader, recorder and render loop
//   - mesh, mesh/obj: vertex data and the OBJ loader
//   - shader: WGSL source lookup and validation
//   - window: glfw window, native handles and key events
//
// # Quick Start
//
//	cfg := meshview.NewConfig(meshview.WithFrameCount(2))
//	b, _ := backend.Get(cfg.Backend)
//	r, err := render.New(ctx, b, win, m, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close(ctx)
//	err = r.Run(ctx, win)
package meshview
