package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/raster/pkg/math3d"
)

// NoIndex marks a face corner without a texture or normal reference.
const NoIndex = -1

// ErrBadIndex is wrapped by errors for zero or out-of-range OBJ indices.
var ErrBadIndex = errors.New("models: invalid obj index")

// ParseError reports malformed OBJ input. Line is 1-based.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("obj: line %d: %s", e.Line, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// VertexIndex holds the zero-based attribute indices of one face corner.
// Texture and Normal are NoIndex when the corner does not reference them.
type VertexIndex struct {
	Position int
	Texture  int
	Normal   int
}

// Face is one "f" record.
type Face struct {
	Line    int
	Corners []VertexIndex
}

// OBJ is a parsed Wavefront OBJ file. Positions, texture coordinates and
// normals are indexed independently by each face corner.
type OBJ struct {
	Positions []math3d.Vec3
	TexCoords []math3d.Vec2
	Normals   []math3d.Vec3
	Faces     []Face
}

// LoadOBJ parses the OBJ file at path.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// ParseOBJ reads v, vt, vn and f records. Comments, blank lines and the
// vp, s and g records are skipped; any other record is an error.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		tag, args := fields[0], fields[1:]
		if strings.HasPrefix(tag, "#") {
			continue
		}

		switch tag {
		case "v":
			f, err := parseFloats(args, 3, 3)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: "bad position", Err: err}
			}
			obj.Positions = append(obj.Positions, math3d.V3(f[0], f[1], f[2]))
		case "vt":
			f, err := parseFloats(args, 2, 3)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: "bad texture coordinate", Err: err}
			}
			obj.TexCoords = append(obj.TexCoords, math3d.V2(f[0], f[1]))
		case "vn":
			f, err := parseFloats(args, 3, 3)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: "bad normal", Err: err}
			}
			obj.Normals = append(obj.Normals, math3d.V3(f[0], f[1], f[2]))
		case "f":
			if len(args) < 3 {
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("face has %d corners, need at least 3", len(args))}
			}
			face := Face{Line: line, Corners: make([]VertexIndex, 0, len(args))}
			for _, a := range args {
				vi, err := obj.parseCorner(a)
				if err != nil {
					return nil, &ParseError{Line: line, Msg: fmt.Sprintf("bad face corner %q", a), Err: err}
				}
				face.Corners = append(face.Corners, vi)
			}
			obj.Faces = append(obj.Faces, face)
		case "vp", "s", "g":
		default:
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("unknown record %q", tag)}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return obj, nil
}

func parseFloats(args []string, minN, maxN int) ([]float64, error) {
	if len(args) < minN || len(args) > maxN {
		return nil, fmt.Errorf("got %d values, want %d..%d", len(args), minN, maxN)
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseCorner handles the v, v/vt, v//vn and v/vt/vn forms, resolving
// indices against the attributes defined so far.
func (o *OBJ) parseCorner(s string) (VertexIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return VertexIndex{}, errors.New("too many components")
	}

	vi := VertexIndex{Texture: NoIndex, Normal: NoIndex}
	var err error
	if vi.Position, err = resolve(parts[0], len(o.Positions)); err != nil {
		return VertexIndex{}, fmt.Errorf("position: %w", err)
	}
	if len(parts) >= 2 && parts[1] != "" {
		if vi.Texture, err = resolve(parts[1], len(o.TexCoords)); err != nil {
			return VertexIndex{}, fmt.Errorf("texture: %w", err)
		}
	}
	if len(parts) == 3 {
		if vi.Normal, err = resolve(parts[2], len(o.Normals)); err != nil {
			return VertexIndex{}, fmt.Errorf("normal: %w", err)
		}
	}
	return vi, nil
}

func resolve(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return NormalizeIndex(n, count)
}

// NormalizeIndex converts a 1-based or negative OBJ index into a 0-based
// one. Negative indices count back from the count elements defined so
// far; -1 is the most recent. Zero, and negative indices reaching before
// the first element, are errors. Positive indices are not range-checked
// here because they may refer forward.
func NormalizeIndex(idx, count int) (int, error) {
	switch {
	case idx == 0:
		return 0, fmt.Errorf("%w: 0", ErrBadIndex)
	case idx < 0:
		if count+idx < 0 {
			return 0, fmt.Errorf("%w: %d with %d defined", ErrBadIndex, idx, count)
		}
		return count + idx, nil
	default:
		return idx - 1, nil
	}
}

// Mesh converts the multi-indexed OBJ data into a single-indexed mesh,
// creating one vertex per distinct (position, texture, normal) triple.
// Missing texture coordinates become (0, 0) and missing normals (0, 0, 0).
// Only triangular faces are accepted.
func (o *OBJ) Mesh() (*Mesh[Vert], error) {
	unique := make(map[VertexIndex]int)
	var verts []Vert
	tris := make([][3]int, 0, len(o.Faces))

	for _, f := range o.Faces {
		if len(f.Corners) != 3 {
			return nil, &ParseError{Line: f.Line, Msg: fmt.Sprintf("face has %d corners, expected 3", len(f.Corners))}
		}
		var tri [3]int
		for i, c := range f.Corners {
			idx, ok := unique[c]
			if !ok {
				v, err := o.vertex(c)
				if err != nil {
					return nil, &ParseError{Line: f.Line, Msg: "face corner out of range", Err: err}
				}
				idx = len(verts)
				unique[c] = idx
				verts = append(verts, v)
			}
			tri[i] = idx
		}
		tris = append(tris, tri)
	}
	return NewMesh(verts, tris)
}

func (o *OBJ) vertex(c VertexIndex) (Vert, error) {
	var v Vert
	if c.Position >= len(o.Positions) {
		return v, fmt.Errorf("%w: position %d of %d", ErrBadIndex, c.Position+1, len(o.Positions))
	}
	v.Position = o.Positions[c.Position]
	if c.Texture != NoIndex {
		if c.Texture >= len(o.TexCoords) {
			return v, fmt.Errorf("%w: texture %d of %d", ErrBadIndex, c.Texture+1, len(o.TexCoords))
		}
		v.UV = o.TexCoords[c.Texture]
	}
	if c.Normal != NoIndex {
		if c.Normal >= len(o.Normals) {
			return v, fmt.Errorf("%w: normal %d of %d", ErrBadIndex, c.Normal+1, len(o.Normals))
		}
		v.Normal = o.Normals[c.Normal]
	}
	return v, nil
}

// LoadOBJMesh loads path and converts it to a mesh named after the file.
func LoadOBJMesh(path string) (*Mesh[Vert], error) {
	obj, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	m, err := obj.Mesh()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m.Name = filepath.Base(path)
	return m, nil
}
