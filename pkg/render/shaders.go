package render

import (
	"math"

	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// Uniforms is the uniform block read by the built-in shaders.
type Uniforms struct {
	// Transform maps model space to screen space, viewport included.
	Transform math3d.Mat4
	// Light points toward the light in model space. It should be unit length.
	Light   math3d.Vec3
	Ambient float64
	// Color is the base color when Diffuse is nil.
	Color   Color
	Diffuse *Image[Color]
	// Normals is a decoded tangent-space normal map, see NormalMap.
	Normals *Image[math3d.Vec3]
}

// DefaultLight is the light direction used by the driver.
var DefaultLight = math3d.V3(0.2, 1, 0.4).Normalize()

func (u *Uniforms) project(p math3d.Vec3) math3d.Vec4 {
	return u.Transform.MulVec4(p.Extend())
}

func (u *Uniforms) albedo(uv math3d.Vec2) Color {
	if u.Diffuse == nil {
		return u.Color
	}
	return SampleClamp(u.Diffuse, uv.X, uv.Y)
}

// lambert returns the diffuse intensity for normal n plus ambient. A zero
// normal gets only the ambient term.
func (u *Uniforms) lambert(n math3d.Vec3) float64 {
	n, err := n.Unit()
	if err != nil {
		return u.Ambient
	}
	return n.Dot(u.Light) + u.Ambient
}

// FlatShader fills every covered pixel with the uniform color, unlit.
type FlatShader struct{}

// Vertex projects the position and passes it on as the varying.
func (FlatShader) Vertex(v models.Vert, u *Uniforms) (math3d.Vec4, math3d.Vec3) {
	return u.project(v.Position), v.Position
}

// Fragment returns the uniform color.
func (FlatShader) Fragment(_ math3d.Vec3, u *Uniforms) Color {
	return u.Color
}

// Shade is the varying of GouraudShader: a position and the light
// intensity computed at the vertex.
type Shade struct {
	Position  math3d.Vec3
	Intensity float64
}

// Pos returns the position.
func (s Shade) Pos() math3d.Vec3 { return s.Position }

// Interpolate blends the three varyings by w.
func (s Shade) Interpolate(w math3d.Vec3, b, c Shade) Shade {
	return Shade{
		Position:  s.Position.Interpolate(w, b.Position, c.Position),
		Intensity: s.Intensity*w.X + b.Intensity*w.Y + c.Intensity*w.Z,
	}
}

// GouraudShader lights each vertex and interpolates the intensity.
type GouraudShader struct{}

// Vertex projects the position and lights the vertex normal.
func (GouraudShader) Vertex(v models.Vert, u *Uniforms) (math3d.Vec4, Shade) {
	return u.project(v.Position), Shade{Position: v.Position, Intensity: u.lambert(v.Normal)}
}

// Fragment scales the uniform color by the interpolated intensity.
func (GouraudShader) Fragment(in Shade, u *Uniforms) Color {
	return u.Color.Scale(in.Intensity)
}

// TexturedShader lights each pixel from the interpolated normal and takes
// its albedo from the diffuse texture.
type TexturedShader struct{}

// Vertex projects the position and passes the whole vertex on.
func (TexturedShader) Vertex(v models.Vert, u *Uniforms) (math3d.Vec4, models.Vert) {
	return u.project(v.Position), v
}

// Fragment lights the sampled albedo with the interpolated normal.
func (TexturedShader) Fragment(in models.Vert, u *Uniforms) Color {
	return u.albedo(in.UV).Scale(u.lambert(in.Normal))
}

// NormalMapShader perturbs the normal with a tangent-space normal map
// before lighting. Without a normal map it behaves like TexturedShader.
type NormalMapShader struct{}

// Vertex projects the position and passes the vertex and its tangent frame on.
func (NormalMapShader) Vertex(v models.TanVert, u *Uniforms) (math3d.Vec4, models.TanVert) {
	return u.project(v.Position), v
}

// Fragment lights the sampled albedo with the normal-mapped normal.
func (NormalMapShader) Fragment(in models.TanVert, u *Uniforms) Color {
	n := in.Normal
	if u.Normals != nil {
		ts := SampleClamp(u.Normals, in.UV.X, in.UV.Y)
		n = in.Tangent.Scale(ts.X).
			Add(in.Bitangent.Scale(ts.Y)).
			Add(in.Normal.Scale(ts.Z))
	}
	return u.albedo(in.UV).Scale(u.lambert(n))
}

// Checkerboard colors texture space in Size x Size squares, Even where
// floor(u*Size)+floor(v*Size) is even and Odd elsewhere.
type Checkerboard struct {
	Even, Odd Color
	Size      float64
}

// Vertex projects the position and passes the whole vertex on.
func (Checkerboard) Vertex(v models.Vert, u *Uniforms) (math3d.Vec4, models.Vert) {
	return u.project(v.Position), v
}

// Fragment picks Even or Odd from the interpolated texture coordinates.
func (c Checkerboard) Fragment(in models.Vert, _ *Uniforms) Color {
	sum := math.Floor(in.UV.X*c.Size) + math.Floor(in.UV.Y*c.Size)
	if math.Mod(sum, 2) == 0 {
		return c.Even
	}
	return c.Odd
}
