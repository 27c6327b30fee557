// Package math3d provides the vector and matrix algebra used by the rasterizer.
package math3d

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroLength is returned when a zero vector is normalized with Unit.
var ErrZeroLength = errors.New("math3d: zero-length vector")

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Div returns the scalar division a / s.
func (a Vec3) Div(s float64) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length (faster, no sqrt).
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
// The vector must not be zero; use Unit when that is not guaranteed.
func (a Vec3) Normalize() Vec3 {
	return a.Div(a.Len())
}

// Unit is the checked form of Normalize.
func (a Vec3) Unit() (Vec3, error) {
	l := a.Len()
	if l == 0 {
		return Vec3{}, ErrZeroLength
	}
	return a.Div(l), nil
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// At returns component i (0 = X, 1 = Y, 2 = Z).
func (a Vec3) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	}
	panic(indexPanic(i, 3))
}

// XY drops the Z component.
func (a Vec3) XY() Vec2 {
	return Vec2{a.X, a.Y}
}

// Pos returns the vector itself, so a bare position can be rendered as a vertex.
func (a Vec3) Pos() Vec3 {
	return a
}

// Interpolate returns w.X*a + w.Y*b + w.Z*c.
func (a Vec3) Interpolate(w Vec3, b, c Vec3) Vec3 {
	return Vec3{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
		a.Z*w.X + b.Z*w.Y + c.Z*w.Z,
	}
}

// Extend returns the homogeneous point (X, Y, Z, 1).
func (a Vec3) Extend() Vec4 {
	return Vec4{a.X, a.Y, a.Z, 1}
}

func indexPanic(i, n int) string {
	return fmt.Sprintf("math3d: component index %d out of range [0,%d)", i, n)
}
