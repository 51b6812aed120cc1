package obj

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshview/mesh"
)

func TestLoadThreeTriangles(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "three.obj"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(m.Vertices); got != 9 {
		t.Fatalf("vertices = %d, want 9", got)
	}
	if m.Name != "three" {
		t.Errorf("Name = %q, want three", m.Name)
	}

	red := f32.Vec4{1, 0, 0, 1}
	blue := f32.Vec4{0, 0, 1, 0.5}
	for i, v := range m.Vertices {
		want := red
		if i >= 6 {
			want = blue
		}
		if v.Color != want {
			t.Errorf("vertex %d color = %v, want %v", i, v.Color, want)
		}
	}
	if got := m.Vertices[4].Position; got != (f32.Vec3{3, 0, 0}) {
		t.Errorf("vertex 4 position = %v, want [3 0 0]", got)
	}
}

func TestLoadQuadFanTriangulated(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "quad.obj"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(m.Vertices); got != 6 {
		t.Fatalf("vertices = %d, want 6", got)
	}
	// Fan around the first corner: (0,1,2), (0,2,3).
	wantX := []float32{-1, 1, 1, -1, 1, -1}
	for i, v := range m.Vertices {
		if v.Position[0] != wantX[i] {
			t.Errorf("vertex %d x = %v, want %v", i, v.Position[0], wantX[i])
		}
		if v.Color != mesh.White {
			t.Errorf("vertex %d color = %v, want white", i, v.Color)
		}
	}
	if len(m.Warnings) == 0 || !strings.Contains(m.Warnings[0], "quad.mtl") {
		t.Errorf("Warnings = %v, want missing material library", m.Warnings)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.obj")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}

func TestReadRejectsEmpty(t *testing.T) {
	_, err := Read(strings.NewReader("o empty\nv 0 0 0\n"), nil, "empty")
	if err == nil {
		t.Error("Read(no faces) error = nil")
	}
}

func TestReadRejectsBadIndex(t *testing.T) {
	src := "o bad\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 7\n"
	if _, err := Read(strings.NewReader(src), nil, "bad"); err == nil {
		t.Error("Read(index out of range) error = nil")
	}
}

func TestCompanion(t *testing.T) {
	tests := []struct {
		path, data, want string
	}{
		{"models/a.obj", "mtllib lib.mtl\n", filepath.Join("models", "lib.mtl")},
		{"models/a.obj", "v 0 0 0\n", "models/a.mtl"},
	}
	for _, tt := range tests {
		if got := companion(tt.path, []byte(tt.data)); got != tt.want {
			t.Errorf("companion(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
