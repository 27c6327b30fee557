package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/raster/pkg/math3d"
)

// ErrDegenerateTriangle is returned by ComputeTangentSpace when a triangle's
// edges and a corner normal do not span 3D space.
var ErrDegenerateTriangle = errors.New("models: degenerate triangle")

// ComputeTangentSpace derives a per-vertex tangent and bitangent from the
// positions, texture coordinates and normals of m.
//
// For each triangle corner the system [e1; e2; n] * t = [du1; du2; 0] is
// solved for the tangent (and likewise with dv for the bitangent), using
// that corner's own normal. Contributions are summed over every incident
// triangle and normalized. Vertices not referenced by any triangle get
// zero vectors. The input must not contain degenerate triangles.
func ComputeTangentSpace(m *Mesh[Vert]) (*Mesh[TanVert], error) {
	verts := m.vertices
	tangents := make([]math3d.Vec3, len(verts))
	bitangents := make([]math3d.Vec3, len(verts))

	for ti, tri := range m.triangles {
		v0, v1, v2 := verts[tri[0]], verts[tri[1]], verts[tri[2]]
		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du := math3d.V3(v1.UV.X-v0.UV.X, v2.UV.X-v0.UV.X, 0)
		dv := math3d.V3(v1.UV.Y-v0.UV.Y, v2.UV.Y-v0.UV.Y, 0)

		for _, idx := range tri {
			inv, err := math3d.Mat3FromRows(e1, e2, verts[idx].Normal).Inverse()
			if err != nil {
				return nil, fmt.Errorf("triangle %d: %w: %w", ti, ErrDegenerateTriangle, err)
			}
			tangents[idx] = tangents[idx].Add(inv.MulVec(du))
			bitangents[idx] = bitangents[idx].Add(inv.MulVec(dv))
		}
	}

	out := make([]TanVert, len(verts))
	for i, v := range verts {
		out[i] = TanVert{
			Position:  v.Position,
			UV:        v.UV,
			Normal:    v.Normal,
			Tangent:   unitOrZero(tangents[i]),
			Bitangent: unitOrZero(bitangents[i]),
		}
	}
	return &Mesh[TanVert]{Name: m.Name, vertices: out, triangles: m.triangles}, nil
}

func unitOrZero(v math3d.Vec3) math3d.Vec3 {
	u, err := v.Unit()
	if err != nil {
		return math3d.Vec3{}
	}
	return u
}
