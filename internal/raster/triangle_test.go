package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/meshview/internal/parallel"
)

var (
	red  = [4]float32{1, 0, 0, 1}
	blue = [4]float32{0, 0, 1, 1}
)

func countColor(img *image.RGBA, want color.RGBA) int {
	n := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				n++
			}
		}
	}
	return n
}

func TestFill(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	Fill(img, image.Rect(2, 2, 20, 4), red)

	if got := countColor(img, color.RGBA{255, 0, 0, 255}); got != 12 {
		t.Errorf("filled pixels = %d, want 12", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel outside rect = %v, want zero", got)
	}
}

func TestTriangleBothWindings(t *testing.T) {
	for _, name := range []string{"cw", "ccw"} {
		t.Run(name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 16, 16))
			a := Vertex{X: 0, Y: 0, Color: red}
			b := Vertex{X: 16, Y: 0, Color: red}
			c := Vertex{X: 0, Y: 16, Color: red}
			if name == "ccw" {
				b, c = c, b
			}
			Triangle(img, img.Rect, a, b, c)

			got := countColor(img, color.RGBA{255, 0, 0, 255})
			// Half of 256 pixels, give or take the diagonal.
			if got < 112 || got > 144 {
				t.Errorf("filled pixels = %d, want about 128", got)
			}
			if img.RGBAAt(1, 1).R != 255 {
				t.Error("pixel (1,1) inside triangle not filled")
			}
			if img.RGBAAt(14, 14).R != 0 {
				t.Error("pixel (14,14) outside triangle filled")
			}
		})
	}
}

func TestTriangleDegenerate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	v := Vertex{X: 4, Y: 4, Color: red}
	Triangle(img, img.Rect, v, v, Vertex{X: 8, Y: 8, Color: red})
	if got := countColor(img, color.RGBA{255, 0, 0, 255}); got != 0 {
		t.Errorf("degenerate triangle filled %d pixels", got)
	}
}

func TestTriangleSharedEdge(t *testing.T) {
	// Two triangles forming a square must cover it exactly once.
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	a := Vertex{X: 0, Y: 0, Color: red}
	b := Vertex{X: 8, Y: 0, Color: red}
	c := Vertex{X: 8, Y: 8, Color: red}
	d := Vertex{X: 0, Y: 8, Color: red}
	Triangle(img, img.Rect, a, b, c)
	Triangle(img, img.Rect, a, c, d)

	if got := countColor(img, color.RGBA{255, 0, 0, 255}); got != 64 {
		t.Errorf("filled pixels = %d, want 64", got)
	}
}

func TestTriangleInterpolatesColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	Triangle(img, img.Rect,
		Vertex{X: 0, Y: 0, Color: red},
		Vertex{X: 32, Y: 0, Color: blue},
		Vertex{X: 0, Y: 32, Color: red},
	)
	left := img.RGBAAt(1, 1)
	right := img.RGBAAt(28, 1)
	if left.R <= right.R || left.B >= right.B {
		t.Errorf("color not interpolated: left=%v right=%v", left, right)
	}
}

func TestTrianglesMatchesSequential(t *testing.T) {
	verts := []Vertex{
		{X: 2, Y: 3, Color: red}, {X: 60, Y: 10, Color: blue}, {X: 20, Y: 61, Color: red},
		{X: 10, Y: 10, Color: blue}, {X: 50, Y: 50, Color: blue}, {X: 5, Y: 40, Color: blue},
		{X: 1, Y: 1, Color: red}, // incomplete triangle, ignored
	}
	want := image.NewRGBA(image.Rect(0, 0, 64, 64))
	Triangles(nil, want, want.Rect, verts)

	pool := parallel.NewWorkerPool(4)
	defer pool.Close()
	got := image.NewRGBA(image.Rect(0, 0, 64, 64))
	Triangles(pool, got, got.Rect, verts)

	for i := range want.Pix {
		if want.Pix[i] != got.Pix[i] {
			t.Fatalf("banded fill differs from sequential at byte %d", i)
		}
	}
}
