package models

import "github.com/taigrr/raster/pkg/math3d"

// Vertex is satisfied by any attribute bundle the renderer can interpolate.
// Interpolate is called on the first of the three vertices and returns
// w.X*self + w.Y*b + w.Z*c for every attribute.
type Vertex[T any] interface {
	Pos() math3d.Vec3
	Interpolate(w math3d.Vec3, b, c T) T
}

// Vert is a position with texture coordinates and a normal.
type Vert struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
}

// Pos returns the vertex position.
func (v Vert) Pos() math3d.Vec3 { return v.Position }

// Interpolate blends the three vertices by the weights in w.
func (v Vert) Interpolate(w math3d.Vec3, b, c Vert) Vert {
	return Vert{
		Position: v.Position.Interpolate(w, b.Position, c.Position),
		UV:       v.UV.Interpolate(w, b.UV, c.UV),
		Normal:   v.Normal.Interpolate(w, b.Normal, c.Normal),
	}
}

// TanVert extends Vert with a tangent frame for normal mapping.
type TanVert struct {
	Position  math3d.Vec3
	UV        math3d.Vec2
	Normal    math3d.Vec3
	Tangent   math3d.Vec3
	Bitangent math3d.Vec3
}

// Pos returns the vertex position.
func (v TanVert) Pos() math3d.Vec3 { return v.Position }

// Interpolate blends the three vertices by the weights in w.
func (v TanVert) Interpolate(w math3d.Vec3, b, c TanVert) TanVert {
	return TanVert{
		Position:  v.Position.Interpolate(w, b.Position, c.Position),
		UV:        v.UV.Interpolate(w, b.UV, c.UV),
		Normal:    v.Normal.Interpolate(w, b.Normal, c.Normal),
		Tangent:   v.Tangent.Interpolate(w, b.Tangent, c.Tangent),
		Bitangent: v.Bitangent.Interpolate(w, b.Bitangent, c.Bitangent),
	}
}
