package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/taigrr/raster/pkg/math3d"
)

const quadOBJ = `# unit quad
v 0 0 0
v 0 1 0
v 1 1 0
v 1 0 0
vt 0 0
vt 0 1
vt 1 1 0
vt 1 0
vn 0 0 1
s off
g quad

f 1/1/1 2/2/1 3/3/1
f -4/-4/-1 -2/-2/-1 -1/-1/-1
`

func TestParseOBJ(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ() error = %v", err)
	}
	if len(obj.Positions) != 4 || len(obj.TexCoords) != 4 || len(obj.Normals) != 1 {
		t.Fatalf("counts = %d/%d/%d", len(obj.Positions), len(obj.TexCoords), len(obj.Normals))
	}
	if len(obj.Faces) != 2 {
		t.Fatalf("len(Faces) = %d, want 2", len(obj.Faces))
	}
	want := []VertexIndex{{0, 0, 0}, {2, 2, 0}, {3, 3, 0}}
	for i, c := range obj.Faces[1].Corners {
		if c != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, c, want[i])
		}
	}
	if obj.Faces[1].Line != 15 {
		t.Errorf("face line = %d, want 15", obj.Faces[1].Line)
	}

	m, err := obj.Mesh()
	if err != nil {
		t.Fatalf("Mesh() error = %v", err)
	}
	// Corners 1 and 3 are shared between the two faces.
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if got := m.Triangles()[1]; got != [3]int{0, 2, 3} {
		t.Errorf("second triangle = %v, want [0 2 3]", got)
	}
	v := m.Vertices()[2]
	if v.Position != math3d.V3(1, 1, 0) || v.UV != math3d.V2(1, 1) || v.Normal != math3d.V3(0, 0, 1) {
		t.Errorf("vertex 2 = %+v", v)
	}
}

func TestParseOBJCornerForms(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5 0.5\nvn 0 0 1\nf 1 2/1 3//1\n"
	obj, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []VertexIndex{
		{0, NoIndex, NoIndex},
		{1, 0, NoIndex},
		{2, NoIndex, 0},
	}
	for i, c := range obj.Faces[0].Corners {
		if c != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, c, want[i])
		}
	}

	m, err := obj.Mesh()
	if err != nil {
		t.Fatal(err)
	}
	if v := m.Vertices()[0]; v.UV != (math3d.Vec2{}) || v.Normal != (math3d.Vec3{}) {
		t.Errorf("missing attributes should be zero, got %+v", v)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"short position", "v 1 2\n", 1},
		{"long position", "v 1 2 3 4\n", 1},
		{"bad float", "v 1 x 3\n", 1},
		{"short texcoord", "vt 1\n", 1},
		{"short normal", "\nvn 0 1\n", 2},
		{"unknown record", "v 0 0 0\nusemtl foo\n", 2},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"negative past start", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 1 2\n", 4},
		{"normal with none defined", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//-1 2 3\n", 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Line != tc.line {
				t.Errorf("Line = %d, want %d", pe.Line, tc.line)
			}
		})
	}
}

func TestOBJMeshErrors(t *testing.T) {
	t.Run("quad face", func(t *testing.T) {
		obj, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"))
		if err != nil {
			t.Fatal(err)
		}
		_, err = obj.Mesh()
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Line != 5 {
			t.Errorf("err = %v, want ParseError on line 5", err)
		}
	})
	t.Run("position past end", func(t *testing.T) {
		obj, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := obj.Mesh(); !errors.Is(err, ErrBadIndex) {
			t.Errorf("err = %v, want ErrBadIndex", err)
		}
	})
}

func TestNormalizeIndex(t *testing.T) {
	tests := []struct {
		idx, count int
		want       int
		wantErr    bool
	}{
		{1, 0, 0, false},
		{3, 5, 2, false},
		{8, 5, 7, false},
		{-1, 5, 4, false},
		{-3, 5, 2, false},
		{-2, 5, 3, false},
		{-5, 5, 0, false},
		{-3, 1, 0, true},
		{-1, 0, 0, true},
		{0, 5, 0, true},
	}
	for _, tc := range tests {
		got, err := NormalizeIndex(tc.idx, tc.count)
		if tc.wantErr {
			if !errors.Is(err, ErrBadIndex) {
				t.Errorf("NormalizeIndex(%d, %d) err = %v, want ErrBadIndex", tc.idx, tc.count, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("NormalizeIndex(%d, %d) = %d, %v; want %d", tc.idx, tc.count, got, err, tc.want)
		}
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/model.obj"); err == nil {
		t.Error("expected error for missing file")
	}
}
