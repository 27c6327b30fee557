package render

import (
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// Wireframe draws every edge of mesh once, projected through transform
// (model to screen, viewport included), without depth testing. Edges
// with an endpoint at or behind the eye (w <= 0) are skipped.
func Wireframe[V models.Vertex[V]](r *Renderer, mesh *models.Mesh[V], transform math3d.Mat4, c Color) {
	verts := mesh.Vertices()
	screen := make([]math3d.Vec4, len(verts))
	for i, v := range verts {
		screen[i] = transform.MulVec4(v.Pos().Extend())
	}

	drawn := make(map[[2]int]struct{}, mesh.TriangleCount()*3/2)
	for _, tri := range mesh.Triangles() {
		for k := range 3 {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			if _, ok := drawn[[2]int{a, b}]; ok {
				continue
			}
			drawn[[2]int{a, b}] = struct{}{}
			r.line3D(screen[a], screen[b], c)
		}
	}
}

// Axes draws the model-space X, Y and Z axes in red, green and blue.
func (r *Renderer) Axes(transform math3d.Mat4, length float64) {
	origin := transform.MulVec4(math3d.Zero3().Extend())
	r.line3D(origin, transform.MulVec4(math3d.V3(length, 0, 0).Extend()), ColorRed)
	r.line3D(origin, transform.MulVec4(math3d.V3(0, length, 0).Extend()), ColorGreen)
	r.line3D(origin, transform.MulVec4(math3d.V3(0, 0, length).Extend()), ColorBlue)
}

func (r *Renderer) line3D(a, b math3d.Vec4, c Color) {
	if a.W <= 0 || b.W <= 0 {
		return
	}
	pa, pb := a.PerspectiveDivide(), b.PerspectiveDivide()
	r.color.Line(int(pa.X), int(pa.Y), int(pb.X), int(pb.Y), c)
}
