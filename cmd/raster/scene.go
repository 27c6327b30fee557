package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/raster/pkg/bmp"
	"github.com/taigrr/raster/pkg/models"
	"github.com/taigrr/raster/pkg/render"
)

type sceneOptions struct {
	shader      string
	diffusePath string
	normalPath  string
	ambient     float64
}

// scene is a loaded model plus everything its shader needs.
type scene struct {
	mesh     *models.Mesh[models.Vert]
	tangents *models.Mesh[models.TanVert] // normalmap only
	bounds   render.AABB
	shader   string
	uniforms render.Uniforms
}

var shaders = []string{"flat", "gouraud", "textured", "normalmap", "checker", "wireframe"}

func loadScene(modelPath string, opts sceneOptions) (*scene, error) {
	if !slices.Contains(shaders, opts.shader) {
		return nil, fmt.Errorf("unknown shader %q (use %s)", opts.shader, strings.Join(shaders, ", "))
	}

	var diffuse *render.Image[render.Color]
	if opts.diffusePath != "" {
		img, err := loadImage(opts.diffusePath)
		if err != nil {
			return nil, err
		}
		diffuse = img
	}

	var mesh *models.Mesh[models.Vert]
	var err error
	switch ext := strings.ToLower(filepath.Ext(modelPath)); ext {
	case ".glb", ".gltf":
		var embedded image.Image
		mesh, embedded, err = models.LoadGLBWithTexture(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		// Use embedded texture if no explicit texture and one exists
		if diffuse == nil && embedded != nil {
			diffuse = render.FromImage(embedded)
			fmt.Printf("Using embedded texture: %dx%d\n", diffuse.Width(), diffuse.Height())
		}
	case ".obj":
		mesh, err = models.LoadOBJMesh(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}

	if !models.HasNormals(mesh) {
		mesh = models.SmoothNormals(mesh)
	}
	if mesh, err = models.Fit(mesh); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	sc := &scene{
		mesh:   mesh,
		bounds: render.NewAABB(mesh.Bounds()),
		shader: opts.shader,
		uniforms: render.Uniforms{
			Light:   render.DefaultLight,
			Ambient: opts.ambient,
			Color:   render.RGB(200, 200, 200),
			Diffuse: diffuse,
		},
	}

	if sc.shader == "normalmap" {
		if opts.normalPath == "" {
			return nil, fmt.Errorf("shader normalmap needs -normal")
		}
		img, err := loadImage(opts.normalPath)
		if err != nil {
			return nil, err
		}
		sc.uniforms.Normals = render.NormalMap(img)
		if sc.tangents, err = models.ComputeTangentSpace(mesh); err != nil {
			return nil, fmt.Errorf("tangent space: %w", err)
		}
	}
	return sc, nil
}

// loadImage reads a texture, using the bitmap codec for .bmp files.
func loadImage(path string) (*render.Image[render.Color], error) {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Load(path)
	}
	return render.LoadTexture(path)
}

// draw renders the scene as seen from cam into r. Models entirely outside
// the view are skipped.
func (sc *scene) draw(ctx context.Context, r *render.Renderer, cam *render.Camera, workers int) error {
	if !cam.Frustum().IntersectAABB(sc.bounds) {
		return nil
	}
	u := sc.uniforms
	u.Transform = cam.Transform()

	switch sc.shader {
	case "flat":
		return render.DrawMeshParallel(ctx, r, sc.mesh, render.FlatShader{}, &u, workers)
	case "gouraud":
		return render.DrawMeshParallel(ctx, r, sc.mesh, render.GouraudShader{}, &u, workers)
	case "normalmap":
		return render.DrawMeshParallel(ctx, r, sc.tangents, render.NormalMapShader{}, &u, workers)
	case "checker":
		checker := render.Checkerboard{Even: render.ColorWhite, Odd: render.RGB(64, 64, 64), Size: 8}
		return render.DrawMeshParallel(ctx, r, sc.mesh, checker, &u, workers)
	case "wireframe":
		render.Wireframe(r, sc.mesh, u.Transform, render.RGB(0, 255, 128))
		return nil
	default:
		return render.DrawMeshParallel(ctx, r, sc.mesh, render.TexturedShader{}, &u, workers)
	}
}
