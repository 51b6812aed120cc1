package shader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateEmbedded(t *testing.T) {
	m, err := Validate(Source(), VertexEntry, FragmentEntry)
	if err != nil {
		t.Fatalf("Validate(embedded) error = %v", err)
	}
	if len(m.EntryPoints) != 2 {
		t.Errorf("entry points = %d, want 2", len(m.EntryPoints))
	}
}

func TestValidateMissingEntryPoint(t *testing.T) {
	_, err := Validate(Source(), "main", FragmentEntry)
	if !errors.Is(err, ErrMissingEntryPoint) {
		t.Errorf("Validate(main) error = %v, want ErrMissingEntryPoint", err)
	}

	// Right name, wrong stage.
	_, err = Validate(Source(), FragmentEntry, FragmentEntry)
	if !errors.Is(err, ErrMissingEntryPoint) {
		t.Errorf("Validate(fs as vs) error = %v, want ErrMissingEntryPoint", err)
	}
}

func TestValidateSyntaxError(t *testing.T) {
	if _, err := Validate("fn vs_main( {", VertexEntry, FragmentEntry); err == nil {
		t.Error("Validate(garbage) error = nil")
	}
}

func TestLocateDir(t *testing.T) {
	dir := t.TempDir()
	custom := strings.Replace(Source(), "return color;", "return vec4<f32>(1.0, 0.0, 0.0, 1.0);", 1)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(custom), 0o600); err != nil {
		t.Fatal(err)
	}

	src, origin, err := Locate(dir)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if src != custom || origin != filepath.Join(dir, FileName) {
		t.Errorf("Locate() = origin %q, want file in %s", origin, dir)
	}

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.VertexEntry != VertexEntry || p.FragmentEntry != FragmentEntry {
		t.Errorf("Load() entries = %q, %q", p.VertexEntry, p.FragmentEntry)
	}
}

func TestLocateMissingDir(t *testing.T) {
	if _, _, err := Locate(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Locate(missing dir) error = nil")
	}
}

func TestLocateFallback(t *testing.T) {
	src, origin, err := Locate("")
	if err != nil {
		t.Fatalf("Locate(\"\") error = %v", err)
	}
	// The test binary has no shaders directory beside it.
	if origin != OriginEmbedded || src != Source() {
		t.Errorf("Locate(\"\") origin = %q, want %q", origin, OriginEmbedded)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("@vertex fn other() {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load(invalid) error = nil")
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(Source())
	if err != nil {
		t.Fatalf("CompileSPIRV() error = %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V too short: %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#08x, want 0x07230203", words[0])
	}
}
