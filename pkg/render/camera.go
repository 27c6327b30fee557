package render

import (
	"math"

	"github.com/taigrr/raster/pkg/math3d"
)

// DefaultDepth is the screen depth range used by NewCamera.
const DefaultDepth = 255.0

// Camera looks from Eye toward Target and projects onto a Width x Height
// framebuffer. The projection centre sits at the eye, so objects at the
// target keep their size and nearer ones grow.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3

	Width  int
	Height int
	Depth  float64

	// Cached transform (computed on demand)
	transform math3d.Mat4
	dirty     bool
}

// NewCamera creates a camera at eye looking at the origin.
func NewCamera(eye math3d.Vec3, width, height int) *Camera {
	return &Camera{
		Eye:    eye,
		Up:     math3d.Up(),
		Width:  width,
		Height: height,
		Depth:  DefaultDepth,
		dirty:  true,
	}
}

// SetEye moves the camera.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.dirty = true
}

// SetTarget changes the point looked at.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.dirty = true
}

// SetSize changes the framebuffer size.
func (c *Camera) SetSize(width, height int) {
	c.Width = width
	c.Height = height
	c.dirty = true
}

// Distance returns the distance from the eye to the target.
func (c *Camera) Distance() float64 {
	return c.Eye.Distance(c.Target)
}

// View returns the view matrix. The target lands on the origin and the
// eye on +Z at Distance.
func (c *Camera) View() math3d.Mat4 {
	return math3d.Translate(math3d.V3(0, 0, c.Distance())).Mul(math3d.LookAt(c.Eye, c.Target, c.Up))
}

// Projection returns the central projection for the eye distance.
func (c *Camera) Projection() math3d.Mat4 {
	return math3d.Projection(c.Distance())
}

// Viewport maps NDC onto the largest centred square of the framebuffer.
func (c *Camera) Viewport() math3d.Mat4 {
	side := float64(min(c.Width, c.Height))
	x := (float64(c.Width) - side) / 2
	y := (float64(c.Height) - side) / 2
	return math3d.Viewport(x, y, side, side, c.Depth)
}

// Transform returns Viewport · Projection · View, the matrix taking world
// space to screen space.
func (c *Camera) Transform() math3d.Mat4 {
	if c.dirty {
		c.transform = c.Viewport().Mul(c.Projection()).Mul(c.View())
		c.dirty = false
	}
	return c.transform
}

// Orbit rotates the eye about the target around the Up axis by yaw
// radians, keeping its distance and height.
func (c *Camera) Orbit(yaw float64) {
	offset := c.Eye.Sub(c.Target)
	c.Eye = c.Target.Add(math3d.Rotate(c.Up, yaw).MulVec3Dir(offset))
	c.dirty = true
}

// Yaw returns the eye's angle about the target in the XZ plane, zero on +Z.
func (c *Camera) Yaw() float64 {
	d := c.Eye.Sub(c.Target)
	return math.Atan2(d.X, d.Z)
}

// WorldToScreen projects a world point to pixel coordinates and depth.
// visible is false when the point is behind the eye or off screen.
func (c *Camera) WorldToScreen(p math3d.Vec3) (x, y, depth float64, visible bool) {
	clip := c.Transform().MulVec4(p.Extend())
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	s := clip.PerspectiveDivide()
	visible = s.X >= 0 && s.X < float64(c.Width) && s.Y >= 0 && s.Y < float64(c.Height)
	return s.X, s.Y, s.Z, visible
}
