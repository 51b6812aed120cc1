package raster

import (
	"image"

	"github.com/gogpu/meshview/internal/parallel"
)

// minBandHeight keeps bands large enough that per-band setup stays small
// next to the fill work.
const minBandHeight = 16

// Triangles fills a triangle list (three vertices per triangle) into dst
// within clip. The clip rectangle is split into horizontal bands filled
// concurrently on pool; every band draws all triangles in list order, so
// the result matches a sequential fill. A nil pool fills sequentially.
// Trailing vertices that do not form a whole triangle are ignored.
func Triangles(pool *parallel.WorkerPool, dst *image.RGBA, clip image.Rectangle, verts []Vertex) {
	clip = clip.Intersect(dst.Rect)
	if clip.Empty() || len(verts) < 3 {
		return
	}
	n := len(verts) / 3 * 3

	bands := 1
	if pool != nil {
		bands = min(pool.Workers()*2, max(clip.Dy()/minBandHeight, 1))
	}
	step := (clip.Dy() + bands - 1) / bands

	draw := func(i int) {
		band := clip
		band.Min.Y = clip.Min.Y + i*step
		band.Max.Y = min(band.Min.Y+step, clip.Max.Y)
		if band.Empty() {
			return
		}
		for t := 0; t < n; t += 3 {
			Triangle(dst, band, verts[t], verts[t+1], verts[t+2])
		}
	}

	if pool == nil || bands == 1 {
		draw(0)
		return
	}
	pool.Do(bands, draw)
}
