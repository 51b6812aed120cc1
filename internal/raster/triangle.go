// Package raster fills flat and color-interpolated triangles into RGBA
// images.
package raster

import (
	"image"
	"math"
)

// Vertex is a triangle corner in pixel space with a linear RGBA color in
// [0, 1].
type Vertex struct {
	X, Y  float32
	Color [4]float32
}

// Fill sets every pixel of r (clipped to dst) to c.
func Fill(dst *image.RGBA, r image.Rectangle, c [4]float32) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	px := pack(c)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px[:])
		}
	}
}

// Triangle fills the triangle abc into dst, restricted to clip. Colors
// are interpolated barycentrically. Pixels are sampled at their centers;
// a pixel centered exactly on an edge shared by two triangles belongs to
// one of them. Both windings are drawn.
func Triangle(dst *image.RGBA, clip image.Rectangle, a, b, c Vertex) {
	area := edge(a, b, c.X, c.Y)
	if area == 0 || isNaN(area) {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := int(math.Floor(float64(min3(a.X, b.X, c.X))))
	maxX := int(math.Ceil(float64(max3(a.X, b.X, c.X))))
	minY := int(math.Floor(float64(min3(a.Y, b.Y, c.Y))))
	maxY := int(math.Ceil(float64(max3(a.Y, b.Y, c.Y))))
	box := image.Rect(minX, minY, maxX+1, maxY+1).Intersect(clip).Intersect(dst.Rect)
	if box.Empty() {
		return
	}

	biasA := bias(b, c)
	biasB := bias(c, a)
	biasC := bias(a, b)
	inv := 1 / area

	for y := box.Min.Y; y < box.Max.Y; y++ {
		py := float32(y) + 0.5
		for x := box.Min.X; x < box.Max.X; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, c, px, py)
			w1 := edge(c, a, px, py)
			w2 := edge(a, b, px, py)
			if w0+biasA < 0 || w1+biasB < 0 || w2+biasC < 0 {
				continue
			}
			w0 *= inv
			w1 *= inv
			w2 *= inv
			var col [4]float32
			for i := range col {
				col[i] = a.Color[i]*w0 + b.Color[i]*w1 + c.Color[i]*w2
			}
			px4 := pack(col)
			o := dst.PixOffset(x, y)
			copy(dst.Pix[o:o+4], px4[:])
		}
	}
}

// edge returns twice the signed area of (a, b, p). Positive when p is to
// the right of a->b in a y-down coordinate system.
func edge(a, b Vertex, px, py float32) float32 {
	return (px-a.X)*(b.Y-a.Y) - (py-a.Y)*(b.X-a.X)
}

// bias is zero for edges that own the pixels on them and a tiny negative
// number for the opposite direction.
func bias(a, b Vertex) float32 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if (dy == 0 && dx < 0) || dy > 0 {
		return 0
	}
	return -1e-7
}

func pack(c [4]float32) [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		out[i] = uint8(clamp01(v)*255 + 0.5)
	}
	return out
}

func clamp01(v float32) float32 {
	switch {
	case v < 0 || isNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

func isNaN(v float32) bool { return v != v }

func min3(a, b, c float32) float32 { return min(a, b, c) }
func max3(a, b, c float32) float32 { return max(a, b, c) }
