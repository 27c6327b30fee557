package render

import (
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// Shader is a programmable pipeline stage pair. V is the input vertex
// type, U the uniform data shared by every invocation of one draw and O
// the varying passed from the vertex stage to the fragment stage.
//
// Vertex returns the clip-space position (viewport already applied, so x
// and y land in pixels after the perspective divide) and the varying for
// one vertex. Fragment receives the perspective-correct interpolation of
// the three varyings and returns the pixel color.
//
// Both methods may be called from several goroutines at once by
// DrawMeshParallel and must not mutate the uniforms.
type Shader[V, U any, O models.Vertex[O]] interface {
	Vertex(v V, u *U) (math3d.Vec4, O)
	Fragment(in O, u *U) Color
}

// ShaderFuncs adapts a pair of functions to the Shader interface.
type ShaderFuncs[V, U any, O models.Vertex[O]] struct {
	VertexFunc   func(v V, u *U) (math3d.Vec4, O)
	FragmentFunc func(in O, u *U) Color
}

// Vertex calls s.VertexFunc.
func (s ShaderFuncs[V, U, O]) Vertex(v V, u *U) (math3d.Vec4, O) {
	return s.VertexFunc(v, u)
}

// Fragment calls s.FragmentFunc.
func (s ShaderFuncs[V, U, O]) Fragment(in O, u *U) Color {
	return s.FragmentFunc(in, u)
}
