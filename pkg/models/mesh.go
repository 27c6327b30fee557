// Package models provides vertex types, indexed triangle meshes and the
// loaders that build them from OBJ and glTF files.
package models

import (
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/raster/pkg/math3d"
)

// Mesh is an indexed triangle list. Every index is checked against the
// vertex count when the mesh is built, and the mesh is not modified
// afterwards. NewMesh copies its inputs and the accessors return copies, so
// callers cannot break the index invariant.
type Mesh[V Vertex[V]] struct {
	Name string

	vertices  []V
	triangles [][3]int
}

// IndexError reports a triangle corner that points past the vertex array.
type IndexError struct {
	Triangle int // Triangle number
	Corner   int // 0, 1 or 2
	Index    int // Offending index
	Count    int // Vertex count
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("models: triangle %d corner %d: index %d out of range [0,%d)",
		e.Triangle, e.Corner, e.Index, e.Count)
}

// NewMesh validates the triangle indices and returns the mesh.
func NewMesh[V Vertex[V]](vertices []V, triangles [][3]int) (*Mesh[V], error) {
	n := len(vertices)
	for t, tri := range triangles {
		for c, idx := range tri {
			if idx < 0 || idx >= n {
				return nil, &IndexError{Triangle: t, Corner: c, Index: idx, Count: n}
			}
		}
	}
	return &Mesh[V]{vertices: slices.Clone(vertices), triangles: slices.Clone(triangles)}, nil
}

// MustMesh is like NewMesh but panics on invalid indices.
func MustMesh[V Vertex[V]](vertices []V, triangles [][3]int) *Mesh[V] {
	m, err := NewMesh(vertices, triangles)
	if err != nil {
		panic(err)
	}
	return m
}

// Vertices returns a copy of the vertex array.
func (m *Mesh[V]) Vertices() []V {
	return slices.Clone(m.vertices)
}

// Triangles returns a copy of the index triples.
func (m *Mesh[V]) Triangles() [][3]int {
	return slices.Clone(m.triangles)
}

// VertexCount returns the number of vertices.
func (m *Mesh[V]) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh[V]) TriangleCount() int {
	return len(m.triangles)
}

// Corners returns the three vertices of triangle i.
func (m *Mesh[V]) Corners(i int) (a, b, c V) {
	t := m.triangles[i]
	return m.vertices[t[0]], m.vertices[t[1]], m.vertices[t[2]]
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// An empty mesh has zero bounds.
func (m *Mesh[V]) Bounds() (lo, hi math3d.Vec3) {
	if len(m.vertices) == 0 {
		return
	}
	lo = m.vertices[0].Pos()
	hi = lo
	for _, v := range m.vertices[1:] {
		lo = lo.Min(v.Pos())
		hi = hi.Max(v.Pos())
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh[V]) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh[V]) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Transform returns a copy of m with positions transformed by mat and
// normals by the inverse transpose of its upper 3x3 block. It fails with
// math3d.ErrSingular when that block cannot be inverted.
func Transform(m *Mesh[Vert], mat math3d.Mat4) (*Mesh[Vert], error) {
	inv, err := math3d.Mat3FromMat4(mat).Inverse()
	if err != nil {
		return nil, fmt.Errorf("normal matrix: %w", err)
	}
	normalMat := inv.Transpose()

	out := make([]Vert, len(m.vertices))
	for i, v := range m.vertices {
		v.Position = mat.MulVec3(v.Position)
		if n, err := normalMat.MulVec(v.Normal).Unit(); err == nil {
			v.Normal = n
		}
		out[i] = v
	}
	return &Mesh[Vert]{Name: m.Name, vertices: out, triangles: m.triangles}, nil
}

// Fit centers the mesh on the origin and scales it uniformly so that its
// largest dimension spans [-1, 1].
func Fit(m *Mesh[Vert]) (*Mesh[Vert], error) {
	size := m.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		return m, nil
	}
	s := 2 / maxDim
	mat := math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate()))
	return Transform(m, mat)
}

// HasNormals reports whether any vertex carries a non-zero normal.
func HasNormals(m *Mesh[Vert]) bool {
	for _, v := range m.vertices {
		if v.Normal.LenSq() > 1e-12 {
			return true
		}
	}
	return false
}

// SmoothNormals returns a copy of m whose normals are the normalized sum
// of the area-weighted normals of every incident face. Vertices that touch
// no face, or only degenerate ones, keep a zero normal.
func SmoothNormals(m *Mesh[Vert]) *Mesh[Vert] {
	out := make([]Vert, len(m.vertices))
	copy(out, m.vertices)
	for i := range out {
		out[i].Normal = math3d.Zero3()
	}

	for _, t := range m.triangles {
		v0 := out[t[0]].Position
		v1 := out[t[1]].Position
		v2 := out[t[2]].Position

		// Not normalized: larger faces weigh more.
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range t {
			out[idx].Normal = out[idx].Normal.Add(n)
		}
	}

	for i := range out {
		if n, err := out[i].Normal.Unit(); err == nil {
			out[i].Normal = n
		}
	}
	return &Mesh[Vert]{Name: m.Name, vertices: out, triangles: m.triangles}
}
