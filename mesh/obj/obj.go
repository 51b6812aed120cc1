// Package obj loads Wavefront OBJ models with their MTL material library.
//
// Faces are fan-triangulated into a flat vertex list. A vertex takes the
// diffuse color of its face's material with the material opacity as
// alpha; faces without a known material are white.
package obj

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/mesh"
)

// Load reads the model at path. The material library named by the
// file's mtllib statement, or else the .mtl file with the same base
// name, is read from the same directory. A missing library is a warning.
func Load(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	var warnings []string
	var mtl io.Reader = strings.NewReader("")
	mtlPath := companion(path, data)
	if f, err := os.Open(mtlPath); err == nil {
		defer f.Close()
		mtl = f
	} else {
		warnings = append(warnings, fmt.Sprintf("material library %s not found, using white", filepath.Base(mtlPath)))
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := Read(bytes.NewReader(data), mtl, name)
	if err != nil {
		return nil, fmt.Errorf("obj: %s: %w", path, err)
	}
	m.Warnings = append(warnings, m.Warnings...)

	log := meshview.Logger()
	for _, w := range m.Warnings {
		log.Warn("obj: "+w, "model", path)
	}
	log.Info("obj: model loaded", "model", path, "vertices", len(m.Vertices), "triangles", m.Triangles())
	return m, nil
}

// companion returns the material library path for the model at path.
func companion(path string, data []byte) string {
	dir := filepath.Dir(path)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "mtllib" {
			return filepath.Join(dir, strings.Join(fields[1:], " "))
		}
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
}

// Read decodes an OBJ stream and its MTL stream into a mesh.
func Read(objR, mtlR io.Reader, name string) (*mesh.Mesh, error) {
	if mtlR == nil {
		mtlR = strings.NewReader("")
	}
	dec, err := obj.DecodeReader(objR, mtlR)
	if err != nil {
		return nil, err
	}

	m := &mesh.Mesh{Name: name}
	m.Warnings = append(m.Warnings, dec.Warnings...)
	nverts := len(dec.Vertices) / 3

	for _, o := range dec.Objects {
		for fi, face := range o.Faces {
			if len(face.Vertices) < 3 {
				m.Warnings = append(m.Warnings, fmt.Sprintf("object %q face %d has %d vertices, skipped", o.Name, fi, len(face.Vertices)))
				continue
			}
			color := faceColor(dec, face.Material)
			for _, vi := range face.Vertices {
				if vi < 0 || vi >= nverts {
					return nil, fmt.Errorf("object %q face %d: vertex index %d out of range [0,%d)", o.Name, fi, vi, nverts)
				}
			}
			for i := 2; i < len(face.Vertices); i++ {
				for _, vi := range [3]int{face.Vertices[0], face.Vertices[i-1], face.Vertices[i]} {
					m.Vertices = append(m.Vertices, mesh.Vertex{
						Position: f32.Vec3{dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2]},
						Color:    color,
					})
				}
			}
		}
	}
	if len(m.Vertices) == 0 {
		return nil, fmt.Errorf("model %q has no triangles", name)
	}
	return m, nil
}

func faceColor(dec *obj.Decoder, material string) f32.Vec4 {
	mat, ok := dec.Materials[material]
	if !ok || mat == nil {
		return mesh.White
	}
	alpha := mat.Opacity
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return f32.Vec4{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B, alpha}
}
