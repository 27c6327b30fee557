package render

import (
	"github.com/taigrr/raster/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

func planeFromRow(r math3d.Vec4) Plane {
	p := Plane{Normal: r.Vec3(), D: r.W}
	p.Normalize()
	return p
}

// Frustum is the region of model space that lands on the framebuffer in
// front of the eye. Planes are ordered: Left, Right, Top, Bottom, Near,
// with normals pointing inward. There is no far plane.
type Frustum struct {
	Planes [5]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumTop
	FrustumBottom
	FrustumNear
)

// NewFrustum extracts the frustum of a model-to-screen transform (viewport
// included) for a width x height framebuffer. A point p is inside when its
// clip position c satisfies 0 <= c.x <= width*c.w, 0 <= c.y <= height*c.w
// and c.w > 0; each inequality is one row combination of the matrix.
func NewFrustum(m math3d.Mat4, width, height int) Frustum {
	row0, row1, row3 := m.Row(0), m.Row(1), m.Row(3)
	w, h := float64(width), float64(height)

	var f Frustum
	f.Planes[FrustumLeft] = planeFromRow(row0)
	f.Planes[FrustumRight] = planeFromRow(row3.Scale(w).Sub(row0))
	f.Planes[FrustumTop] = planeFromRow(row1)
	f.Planes[FrustumBottom] = planeFromRow(row3.Scale(h).Sub(row1))
	f.Planes[FrustumNear] = planeFromRow(row3)
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points, as returned by
// models.Mesh.Bounds.
func NewAABB(lo, hi math3d.Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// The corner furthest along the normal; if it is outside, all are.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// Frustum returns the camera's frustum in world space.
func (c *Camera) Frustum() Frustum {
	return NewFrustum(c.Transform(), c.Width, c.Height)
}
