package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/raster/pkg/math3d"
)

// GLTFLoader loads glTF/GLB files into a Mesh[Vert].
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLB loads a binary glTF (.glb) or JSON glTF file.
func LoadGLB(path string) (*Mesh[Vert], error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and merges all triangle primitives into one mesh.
func (l *GLTFLoader) Load(path string) (*Mesh[Vert], error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	m, err := l.fromDocument(doc)
	if err != nil {
		return nil, err
	}
	m.Name = filepath.Base(path)
	return m, nil
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document) (*Mesh[Vert], error) {
	var verts []Vert
	var tris [][3]int

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Lines and points.
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			acc, err := accessor(doc, gm.Name, posIdx)
			if err != nil {
				return nil, err
			}
			positions, err := modeler.ReadPosition(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", gm.Name, err)
			}

			var normals [][3]float32
			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				if acc, err = accessor(doc, gm.Name, idx); err != nil {
					return nil, err
				}
				if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
					return nil, fmt.Errorf("mesh %q: read normals: %w", gm.Name, err)
				}
			}

			var uvs [][2]float32
			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				if acc, err = accessor(doc, gm.Name, idx); err != nil {
					return nil, err
				}
				if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
					return nil, fmt.Errorf("mesh %q: read uvs: %w", gm.Name, err)
				}
			}

			var indices []uint32
			if prim.Indices != nil {
				if acc, err = accessor(doc, gm.Name, *prim.Indices); err != nil {
					return nil, err
				}
				if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", gm.Name, err)
				}
			}

			verts, tris = appendPrimitive(verts, tris, positions, normals, uvs, indices)
		}
	}

	m, err := NewMesh(verts, tris)
	if err != nil {
		return nil, err
	}
	if l.CalculateNormals && !HasNormals(m) {
		m = SmoothNormals(m)
	}
	return m, nil
}

// accessor returns accessor idx of doc after checking that it, and the
// buffer view it reads from, exist. The decoder does not validate indices.
func accessor(doc *gltf.Document, mesh string, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("mesh %q: accessor %d out of range", mesh, idx)
	}
	acc := doc.Accessors[idx]
	if acc.BufferView != nil {
		if _, ok := bufferViewData(doc, *acc.BufferView); !ok {
			return nil, fmt.Errorf("mesh %q: accessor %d: buffer view %d out of range", mesh, idx, *acc.BufferView)
		}
	}
	return acc, nil
}

// bufferViewData returns the bytes of buffer view idx, or false when the
// view, its buffer or its byte range is invalid.
func bufferViewData(doc *gltf.Document, idx int) ([]byte, bool) {
	if idx < 0 || idx >= len(doc.BufferViews) || doc.BufferViews[idx] == nil {
		return nil, false
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) || doc.Buffers[bv.Buffer] == nil {
		return nil, false
	}
	data := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end < bv.ByteOffset || end > len(data) {
		return nil, false
	}
	return data[bv.ByteOffset:end], true
}

// appendPrimitive adds one primitive's vertices and triangles. Without an
// index buffer consecutive vertex triples form the triangles.
func appendPrimitive(verts []Vert, tris [][3]int, positions, normals [][3]float32, uvs [][2]float32, indices []uint32) ([]Vert, [][3]int) {
	base := len(verts)
	for i, p := range positions {
		v := Vert{Position: vec3f(p)}
		if i < len(normals) {
			v.Normal = vec3f(normals[i])
		}
		if i < len(uvs) {
			// glTF puts V=0 at the top of the image; flip to a bottom-left origin.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		verts = append(verts, v)
	}

	if indices != nil {
		for i := 0; i+2 < len(indices); i += 3 {
			tris = append(tris, [3]int{
				base + int(indices[i]),
				base + int(indices[i+1]),
				base + int(indices[i+2]),
			})
		}
		return verts, tris
	}
	for i := 0; i+2 < len(positions); i += 3 {
		tris = append(tris, [3]int{base + i, base + i + 1, base + i + 2})
	}
	return verts, tris
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// LoadGLBWithTexture loads a glTF file and returns the mesh plus the first
// image that decodes, embedded or referenced by URI. The image is nil when
// the file has none.
func LoadGLBWithTexture(path string) (*Mesh[Vert], image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	m, err := NewGLTFLoader().fromDocument(doc)
	if err != nil {
		return nil, nil, err
	}
	m.Name = filepath.Base(path)

	for _, img := range doc.Images {
		data := imageBytes(doc, img, filepath.Dir(path))
		if len(data) == 0 {
			continue
		}
		if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return m, decoded, nil
		}
	}
	return m, nil, nil
}

func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		data, ok := bufferViewData(doc, *img.BufferView)
		if !ok {
			return nil
		}
		return data
	}
	if img.URI != "" {
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}
