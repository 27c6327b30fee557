package math3d

import "math"

// Vec2 represents a 2D vector (texture coordinates, screen points).
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Div returns the scalar division a / s.
func (a Vec2) Div(s float64) Vec2 {
	return Vec2{a.X / s, a.Y / s}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// LenSq returns the squared length.
func (a Vec2) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y
}

// Len returns the length.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// At returns component i (0 = X, 1 = Y).
func (a Vec2) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	}
	panic(indexPanic(i, 2))
}

// Interpolate returns w.X*a + w.Y*b + w.Z*c.
func (a Vec2) Interpolate(w Vec3, b, c Vec2) Vec2 {
	return Vec2{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
	}
}

// Barycentric returns the barycentric weights of p with respect to the
// triangle (a, b, c). When the triangle covers less than half a pixel the
// result has a negative component, so callers treating negative weights as
// "outside" skip degenerate triangles.
func Barycentric(a, b, c, p Vec2) Vec3 {
	u := V3(c.X-a.X, b.X-a.X, a.X-p.X).Cross(V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y))
	if math.Abs(u.Z) < 1 {
		return Vec3{-1, 1, 1}
	}
	return Vec3{1 - (u.X+u.Y)/u.Z, u.Y / u.Z, u.X / u.Z}
}
