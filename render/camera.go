package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/meshview/mesh"
)

// clipDepth maps OpenGL clip depth [-w, w] to the [0, w] range WebGPU
// and the software rasterizer expect.
var clipDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is the first-person transform state. Forward and Rotation are
// the per-tick deltas set by input; Update applies them.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32

	Forward  float32
	Rotation float32

	FovY      float32
	Aspect    float32
	Near, Far float32
	World     mgl32.Mat4
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera(aspect float32) *Camera {
	return &Camera{
		FovY:   mgl32.DegToRad(60),
		Aspect: aspect,
		Near:   0.1,
		Far:    100,
		World:  mgl32.Ident4(),
	}
}

// Frame places the camera on the +Z side of m looking at its center,
// far enough back to see all of it.
func (c *Camera) Frame(m *mesh.Mesh) {
	lo, hi := m.Bounds()
	center := mgl32.Vec3{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2}
	radius := mgl32.Vec3{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}.Len() / 2
	if radius == 0 {
		radius = 1
	}
	dist := radius / float32(math.Sin(float64(c.FovY)/2))
	c.Position = center.Add(mgl32.Vec3{0, 0, dist})
	c.Yaw = 0
	c.Far = max(c.Far, dist+radius*2)
}

// Direction returns the unit view direction.
func (c *Camera) Direction() mgl32.Vec3 {
	s, co := math.Sincos(float64(c.Yaw))
	return mgl32.Vec3{float32(s), 0, float32(-co)}
}

// Update applies one tick of the deltas, scaled by scale (1 for a fixed
// step).
func (c *Camera) Update(scale float32) {
	c.Yaw += c.Rotation * scale
	c.Position = c.Position.Add(c.Direction().Mul(c.Forward * scale))
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction()), mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection with [0, 1] clip depth.
func (c *Camera) Projection() mgl32.Mat4 {
	return clipDepth.Mul4(mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far))
}

// WorldViewProjection returns projection * view * world, column-major,
// ready to copy into the transform buffer.
func (c *Camera) WorldViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View()).Mul4(c.World)
}
