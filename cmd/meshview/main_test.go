package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/backend"
)

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := loadConfig(flags{buffers: 3, width: 320, frames: 5}, "model.obj")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", cfg.FrameCount)
	}
	if cfg.Width != 320 || cfg.Height != 600 {
		t.Errorf("size = %dx%d, want 320x600", cfg.Width, cfg.Height)
	}
	if cfg.MaxFrames != 5 {
		t.Errorf("MaxFrames = %d, want 5", cfg.MaxFrames)
	}
	if cfg.Model != "model.obj" {
		t.Errorf("Model = %q, want model.obj", cfg.Model)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(path, []byte("frames: 4\nbackend: wgpu\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(flags{config: path, headless: true}, "")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.FrameCount != 4 {
		t.Errorf("FrameCount = %d, want 4", cfg.FrameCount)
	}
	if cfg.Backend != backend.NameSoftware {
		t.Errorf("Backend = %q, want %q under -headless", cfg.Backend, backend.NameSoftware)
	}
	if cfg.MaxFrames != 1 {
		t.Errorf("MaxFrames = %d, want 1 under -headless", cfg.MaxFrames)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(flags{buffers: 9}, "")
	if !meshview.IsInit(err) {
		t.Errorf("loadConfig(buffers=9) error = %v, want init error", err)
	}
}

func TestLoadMesh_Default(t *testing.T) {
	m, err := loadMesh("")
	if err != nil {
		t.Fatalf("loadMesh() error = %v", err)
	}
	if len(m.Vertices) != 36 {
		t.Errorf("cube has %d vertices, want 36", len(m.Vertices))
	}
}

func TestRunHeadless_Snapshot(t *testing.T) {
	cfg, err := loadConfig(flags{headless: true, width: 32, height: 32, frames: 3}, "")
	if err != nil {
		t.Fatal(err)
	}
	m, err := loadMesh("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := runHeadless(context.Background(), cfg, m, path); err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("snapshot bounds = %v, want 32x32", b)
	}
}
