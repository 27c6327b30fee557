package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/raster/pkg/bmp"
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/render"
)

const quadOBJ = `# unit quad facing +Z
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
`

func writeQuad(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		path         string
		frame, total int
		want         string
	}{
		{"out.bmp", 0, 1, "out.bmp"},
		{"out.bmp", 3, 12, "out_003.bmp"},
		{"dir/spin.png", 11, 12, "dir/spin_011.png"},
	}
	for _, tc := range tests {
		if got := framePath(tc.path, tc.frame, tc.total); got != tc.want {
			t.Errorf("framePath(%q, %d, %d) = %q, want %q", tc.path, tc.frame, tc.total, got, tc.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("size", func(t *testing.T) {
		w, h, err := parseSize("640x480")
		if err != nil || w != 640 || h != 480 {
			t.Errorf("parseSize = %d, %d, %v", w, h, err)
		}
		for _, bad := range []string{"640", "0x10", "axb"} {
			if _, _, err := parseSize(bad); err == nil {
				t.Errorf("parseSize(%q) should fail", bad)
			}
		}
	})

	t.Run("vec3", func(t *testing.T) {
		v, err := parseVec3("1,-2.5,3")
		if err != nil || v != math3d.V3(1, -2.5, 3) {
			t.Errorf("parseVec3 = %v, %v", v, err)
		}
		if _, err := parseVec3("1,2"); err == nil {
			t.Error("parseVec3 with two values should fail")
		}
	})

	t.Run("color", func(t *testing.T) {
		if got, err := parseColor("30,30,40"); err != nil || got != render.RGB(30, 30, 40) {
			t.Errorf("parseColor = %v, %v", got, err)
		}
		if got, err := parseColor("0,255,0"); err != nil || got != render.RGB(0, 255, 0) {
			t.Errorf("parseColor at the channel limits = %v, %v", got, err)
		}
		for _, bad := range []string{"300,0,0", "0,-1,0", "1,2", "red", ""} {
			if _, err := parseColor(bad); err == nil {
				t.Errorf("parseColor(%q) should fail", bad)
			}
		}
	})
}

func TestTurntable(t *testing.T) {
	spin := newTurntable(30)
	first := spin.Step(1)
	if first <= 0 || first >= 1 {
		t.Errorf("first step = %v, want strictly between 0 and 1", first)
	}
	for range 300 {
		spin.Step(1)
	}
	if math.Abs(spin.Yaw-1) > 1e-6 {
		t.Errorf("yaw settled at %v, want 1", spin.Yaw)
	}

	spin.Yaw = math.Pi / 2
	eye := spin.Eye(math3d.V3(0, 1, 3))
	if eye.Sub(math3d.V3(3, 1, 0)).Len() > 1e-9 {
		t.Errorf("Eye = %v, want (3, 1, 0)", eye)
	}

	if got := turntableAngle(3, 4); math.Abs(got-1.5*math.Pi) > 1e-12 {
		t.Errorf("turntableAngle(3, 4) = %v", got)
	}
}

func TestLoadScene(t *testing.T) {
	path := writeQuad(t)

	if _, err := loadScene(path, sceneOptions{shader: "phong"}); err == nil {
		t.Error("unknown shader should fail")
	}
	if _, err := loadScene(path, sceneOptions{shader: "normalmap"}); err == nil {
		t.Error("normalmap without a normal map should fail")
	}
	if _, err := loadScene(filepath.Join(t.TempDir(), "model.stl"), sceneOptions{shader: "flat"}); err == nil {
		t.Error("unsupported model format should fail")
	}

	sc, err := loadScene(path, sceneOptions{shader: "gouraud", ambient: 0.2})
	if err != nil {
		t.Fatalf("loadScene() error = %v", err)
	}
	if sc.mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", sc.mesh.TriangleCount())
	}
	// Generated normals face the camera.
	for _, v := range sc.mesh.Vertices() {
		if v.Normal.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
			t.Fatalf("vertex normal = %v, want +Z", v.Normal)
		}
	}
}

func TestSceneDraw(t *testing.T) {
	path := writeQuad(t)
	for _, shader := range shaders {
		if shader == "normalmap" {
			continue
		}
		t.Run(shader, func(t *testing.T) {
			sc, err := loadScene(path, sceneOptions{shader: shader, ambient: 0.2})
			if err != nil {
				t.Fatal(err)
			}
			r := render.NewRenderer(32, 32)
			cam := render.NewCamera(math3d.V3(0, 0, 3), 32, 32)
			r.Clear(render.ColorBlack)
			if err := sc.draw(context.Background(), r, cam, 2); err != nil {
				t.Fatalf("draw() error = %v", err)
			}
			lit := 0
			for _, p := range r.Color().Pixels() {
				if p != render.ColorBlack {
					lit++
				}
			}
			if lit == 0 {
				t.Error("nothing was drawn")
			}
			if shader != "wireframe" && r.Stats().Fragments == 0 {
				t.Error("no fragments counted")
			}
		})
	}

	t.Run("culled when behind the camera", func(t *testing.T) {
		sc, err := loadScene(path, sceneOptions{shader: "flat"})
		if err != nil {
			t.Fatal(err)
		}
		r := render.NewRenderer(16, 16)
		cam := render.NewCamera(math3d.V3(0, 0, 3), 16, 16)
		cam.SetTarget(math3d.V3(0, 0, 6))
		if err := sc.draw(context.Background(), r, cam, 1); err != nil {
			t.Fatal(err)
		}
		if st := r.Stats(); st.Triangles != 0 {
			t.Errorf("drew %d triangles of a culled model", st.Triangles)
		}
	})
}

func TestSaveImage(t *testing.T) {
	img := render.FilledImage(2, 2, render.ColorRed)
	dir := t.TempDir()

	bmpPath := filepath.Join(dir, "out.bmp")
	if err := saveImage(img, bmpPath); err != nil {
		t.Fatalf("saveImage(.bmp) error = %v", err)
	}
	got, err := bmp.Load(bmpPath)
	if err != nil || got.At(1, 1) != render.ColorRed {
		t.Errorf("bmp round trip = %v, %v", got, err)
	}

	if err := saveImage(img, filepath.Join(dir, "out.PNG")); err != nil {
		t.Errorf("saveImage(.PNG) error = %v", err)
	}
	if err := saveImage(img, filepath.Join(dir, "out.gif")); err == nil {
		t.Error("saveImage(.gif) should fail")
	}
}
