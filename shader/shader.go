// Package shader finds, validates and compiles the mesh WGSL program.
//
// The program consumes a position (location 0, vec3) and a color
// (location 1, vec4), transforms the position by the matrix bound at
// group 0, binding 0, and passes the color through the fragment stage.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/meshview"
)

// Entry points and file name of the mesh program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
	FileName      = "mesh.wgsl"
)

// SearchDir is the directory next to the executable searched for
// FileName.
const SearchDir = "shaders"

//go:embed shaders/mesh.wgsl
var meshSource string

// OriginEmbedded is the Program.Origin of the built-in source.
const OriginEmbedded = "embedded"

// ErrMissingEntryPoint is returned when a required entry point is absent
// or has the wrong stage.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// Program is a validated mesh program.
type Program struct {
	Source        string
	VertexEntry   string
	FragmentEntry string

	// Origin is the file the source was read from, or OriginEmbedded.
	Origin string
}

// Source returns the built-in program.
func Source() string { return meshSource }

// Locate returns the program source and where it came from. A non-empty
// dir must contain FileName. Otherwise the directory SearchDir next to
// the executable is tried first and the built-in copy is the fallback.
func Locate(dir string) (src, origin string, err error) {
	if dir != "" {
		path := filepath.Join(dir, FileName)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("shader: %w", err)
		}
		return string(data), path, nil
	}
	if exe, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exe), SearchDir, FileName)
		if data, err := os.ReadFile(path); err == nil {
			return string(data), path, nil
		}
	}
	return meshSource, OriginEmbedded, nil
}

// Load locates and validates the mesh program.
func Load(dir string) (*Program, error) {
	src, origin, err := Locate(dir)
	if err != nil {
		return nil, err
	}
	if _, err := Validate(src, VertexEntry, FragmentEntry); err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	meshview.Logger().Debug("shader: program loaded", "origin", origin, "bytes", len(src))
	return &Program{
		Source:        src,
		VertexEntry:   VertexEntry,
		FragmentEntry: FragmentEntry,
		Origin:        origin,
	}, nil
}

// Validate parses, lowers and validates src and checks that it has a
// vertex entry point named vertexEntry and a fragment entry point named
// fragmentEntry.
func Validate(src, vertexEntry, fragmentEntry string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("shader: %w", err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("shader: lower: %w", err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("shader: validate: %w", err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("shader: validate: %w (%d issues)", issues[0], len(issues))
	}
	if !hasEntry(module, vertexEntry, ir.StageVertex) {
		return nil, fmt.Errorf("%w: vertex %q", ErrMissingEntryPoint, vertexEntry)
	}
	if !hasEntry(module, fragmentEntry, ir.StageFragment) {
		return nil, fmt.Errorf("%w: fragment %q", ErrMissingEntryPoint, fragmentEntry)
	}
	return module, nil
}

func hasEntry(m *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range m.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
