// Package mesh holds vertex data for the viewer.
//
// A mesh is a flat triangle list: every three vertices form one triangle
// and no index buffer is used.
package mesh

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// Stride is the size of one encoded Vertex: three float32 position
// components followed by four float32 color components.
const Stride = 28

// ColorOffset is the byte offset of the color in an encoded Vertex.
const ColorOffset = 12

// Vertex is a positioned, colored vertex.
type Vertex struct {
	Position f32.Vec3
	Color    f32.Vec4
}

// Mesh is an immutable triangle list.
type Mesh struct {
	Name     string
	Vertices []Vertex

	// Warnings are non-fatal problems found while loading.
	Warnings []string
}

// Triangles returns the number of whole triangles.
func (m *Mesh) Triangles() int { return len(m.Vertices) / 3 }

// Bounds returns the axis-aligned bounding box. An empty mesh has zero
// bounds.
func (m *Mesh) Bounds() (lo, hi f32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

// Encode writes vertices into dst in the GPU layout and returns the
// number of bytes written. dst must hold len(vertices)*Stride bytes.
func Encode(dst []byte, vertices []Vertex) int {
	n := 0
	for _, v := range vertices {
		for _, c := range v.Position {
			binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(c))
			n += 4
		}
		for _, c := range v.Color {
			binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(c))
			n += 4
		}
	}
	return n
}

// Bytes encodes vertices into a new slice.
func Bytes(vertices []Vertex) []byte {
	b := make([]byte, len(vertices)*Stride)
	Encode(b, vertices)
	return b
}

// White is the color used when a model supplies none.
var White = f32.Vec4{1, 1, 1, 1}

// Triangle returns a single triangle facing the camera at the origin.
func Triangle() *Mesh {
	return &Mesh{
		Name: "triangle",
		Vertices: []Vertex{
			{Position: f32.Vec3{0, 0.5, 0}, Color: f32.Vec4{1, 0, 0, 1}},
			{Position: f32.Vec3{0.5, -0.5, 0}, Color: f32.Vec4{0, 1, 0, 1}},
			{Position: f32.Vec3{-0.5, -0.5, 0}, Color: f32.Vec4{0, 0, 1, 1}},
		},
	}
}

// Cube returns a unit cube centered at the origin, one color per face.
func Cube() *Mesh {
	corners := [8]f32.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	faces := []struct {
		quad  [4]int
		color f32.Vec4
	}{
		{[4]int{4, 5, 6, 7}, f32.Vec4{0.9, 0.2, 0.2, 1}}, // +z
		{[4]int{1, 0, 3, 2}, f32.Vec4{0.2, 0.9, 0.2, 1}}, // -z
		{[4]int{5, 1, 2, 6}, f32.Vec4{0.2, 0.2, 0.9, 1}}, // +x
		{[4]int{0, 4, 7, 3}, f32.Vec4{0.9, 0.9, 0.2, 1}}, // -x
		{[4]int{7, 6, 2, 3}, f32.Vec4{0.2, 0.9, 0.9, 1}}, // +y
		{[4]int{0, 1, 5, 4}, f32.Vec4{0.9, 0.2, 0.9, 1}}, // -y
	}
	m := &Mesh{Name: "cube", Vertices: make([]Vertex, 0, 36)}
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			m.Vertices = append(m.Vertices, Vertex{Position: corners[f.quad[i]], Color: f.color})
		}
	}
	return m
}
