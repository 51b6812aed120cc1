// Command meshview opens a window and draws a triangle mesh with N frames
// in flight.
//
// Usage:
//
//	meshview [flags] [model.obj]
//
// Arrow keys or WASD rotate and move the camera; Escape quits. With
// -headless the software backend renders -frames ticks offscreen and the
// last presented image can be written with -snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/backend"
	"github.com/gogpu/meshview/backend/software"
	_ "github.com/gogpu/meshview/backend/wgpu"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/mesh"
	"github.com/gogpu/meshview/mesh/obj"
	"github.com/gogpu/meshview/render"
	"github.com/gogpu/meshview/window"
)

// glfw and the native surface must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

type flags struct {
	config   string
	backend  string
	frames   int
	buffers  int
	width    int
	height   int
	headless bool
	snapshot string
	verbose  bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "YAML config file")
	flag.StringVar(&f.backend, "backend", "", "backend name (wgpu, software); empty picks the best")
	flag.IntVar(&f.frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	flag.IntVar(&f.buffers, "buffers", 0, "frames in flight, 2 to 4")
	flag.IntVar(&f.width, "width", 0, "surface width")
	flag.IntVar(&f.height, "height", 0, "surface height")
	flag.BoolVar(&f.headless, "headless", false, "render offscreen on the software backend")
	flag.StringVar(&f.snapshot, "snapshot", "", "write the last frame to this PNG (headless only)")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	meshview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(f, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "meshview:", err)
		if meshview.IsInit(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(f flags, model string) error {
	cfg, err := loadConfig(f, model)
	if err != nil {
		return err
	}

	m, err := loadMesh(cfg.Model)
	if err != nil {
		return meshview.Errorf(meshview.KindInit, "load mesh", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if f.headless {
		return runHeadless(ctx, cfg, m, f.snapshot)
	}
	return runWindowed(ctx, cfg, m)
}

func loadConfig(f flags, model string) (meshview.Config, error) {
	cfg := meshview.DefaultConfig()
	if f.config != "" {
		c, err := meshview.LoadConfig(f.config)
		if err != nil {
			return cfg, meshview.Errorf(meshview.KindInit, "config", err)
		}
		cfg = c
	}

	var opts []meshview.Option
	if f.backend != "" {
		opts = append(opts, meshview.WithBackend(f.backend))
	}
	if f.buffers != 0 {
		opts = append(opts, meshview.WithFrameCount(f.buffers))
	}
	if f.width != 0 || f.height != 0 {
		w, h := cfg.Width, cfg.Height
		if f.width != 0 {
			w = f.width
		}
		if f.height != 0 {
			h = f.height
		}
		opts = append(opts, meshview.WithSize(w, h))
	}
	if f.frames != 0 {
		opts = append(opts, meshview.WithMaxFrames(f.frames))
	}
	if model != "" {
		opts = append(opts, meshview.WithModel(model))
	}
	if f.headless {
		opts = append(opts, meshview.WithBackend(backend.NameSoftware))
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if f.headless && cfg.MaxFrames == 0 {
		cfg.MaxFrames = 1
	}
	if err := cfg.Validate(); err != nil {
		return cfg, meshview.Errorf(meshview.KindInit, "config", err)
	}
	return cfg, nil
}

func loadMesh(path string) (*mesh.Mesh, error) {
	if path == "" {
		return mesh.Cube(), nil
	}
	return obj.Load(path)
}

func runWindowed(ctx context.Context, cfg meshview.Config, m *mesh.Mesh) error {
	b, err := backend.Get(cfg.Backend)
	if err != nil {
		return meshview.Errorf(meshview.KindNoDevice, "select backend", err)
	}

	win, err := window.Open(cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer win.Close()

	handle, err := win.Handle()
	if err != nil {
		return meshview.Errorf(meshview.KindInit, "window handle", err)
	}

	r, err := render.New(ctx, b, handle, m, cfg)
	if err != nil {
		return err
	}
	r.Input.Attach(win)

	runErr := r.Run(ctx, win)
	return errors.Join(runErr, r.Close(context.Background()))
}

func runHeadless(ctx context.Context, cfg meshview.Config, m *mesh.Mesh, snapshot string) error {
	b, err := backend.Get(cfg.Backend)
	if err != nil {
		return meshview.Errorf(meshview.KindNoDevice, "select backend", err)
	}

	r, err := render.New(ctx, b, gpucore.WindowHandle{}, m, cfg)
	if err != nil {
		return err
	}
	defer r.Close(context.Background())

	if err := r.Run(ctx, nil); err != nil {
		return err
	}
	if snapshot == "" {
		return nil
	}
	return writeSnapshot(r, snapshot)
}

func writeSnapshot(r *render.Renderer, path string) error {
	dev, ok := r.Context().Device.(*software.Device)
	if !ok {
		return fmt.Errorf("snapshot: backend %s has no readback", r.Context().Device.Info().Backend)
	}
	img := dev.SoftwareSurface().Snapshot()
	if img == nil {
		return errors.New("snapshot: nothing presented")
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	meshview.Logger().Info("snapshot written", "path", path)
	return nil
}
