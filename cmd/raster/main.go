// raster - software renderer for OBJ and GLB models
// Renders a model to a BMP or PNG file, or previews it in the terminal.
//
// Shaders:
//
//	flat       - Uniform color, unlit
//	gouraud    - Per-vertex lighting
//	textured   - Diffuse texture with per-pixel lighting
//	normalmap  - Diffuse texture lit through a tangent-space normal map
//	checker    - Procedural checkerboard over the texture coordinates
//	wireframe  - Mesh edges only
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/taigrr/raster/pkg/bmp"
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/render"
)

var (
	diffusePath = flag.String("diffuse", "", "Path to diffuse texture (PNG/JPG/BMP)")
	normalPath  = flag.String("normal", "", "Path to tangent-space normal map")
	outPath     = flag.String("o", "out.bmp", "Output image (.bmp or .png)")
	depthPath   = flag.String("depth", "", "Also write the depth buffer as grayscale")
	sizeFlag    = flag.String("size", "800x800", "Output size (WxH)")
	shaderName  = flag.String("shader", "textured", "Shader: flat, gouraud, textured, normalmap, checker, wireframe")
	workers     = flag.Int("workers", 0, "Rasterizer goroutines (0 = GOMAXPROCS)")
	eyeFlag     = flag.String("eye", "0,0,3", "Camera position (X,Y,Z)")
	distance    = flag.Float64("distance", 0, "Camera distance from the origin (0 = keep -eye)")
	ambient     = flag.Float64("ambient", 0.2, "Ambient light added to the diffuse term")
	bgColor     = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	frames      = flag.Int("frames", 1, "Turntable frames to render")
	preview     = flag.Bool("preview", false, "Show the model in the terminal instead of writing files")
	targetFPS   = flag.Int("fps", 30, "Preview and turntable frame rate")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raster - software renderer for 3D models\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raster [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview controls:\n")
		fmt.Fprintf(os.Stderr, "  A/D, Left/Right - Turn the model\n")
		fmt.Fprintf(os.Stderr, "  Space           - Pause the turntable\n")
		fmt.Fprintf(os.Stderr, "  +/-             - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Esc             - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, modelPath string) error {
	width, height, err := parseSize(*sizeFlag)
	if err != nil {
		return err
	}
	eye, err := parseVec3(*eyeFlag)
	if err != nil {
		return fmt.Errorf("invalid -eye: %w", err)
	}
	dir, err := eye.Unit()
	if err != nil {
		return fmt.Errorf("invalid -eye: %w", err)
	}
	if *distance > 0 {
		eye = dir.Scale(*distance)
	}
	if *frames < 1 {
		return fmt.Errorf("invalid -frames %d", *frames)
	}
	if *targetFPS < 1 {
		return fmt.Errorf("invalid -fps %d", *targetFPS)
	}
	bg, err := parseColor(*bgColor)
	if err != nil {
		return err
	}

	sc, err := loadScene(modelPath, sceneOptions{
		shader:      *shaderName,
		diffusePath: *diffusePath,
		normalPath:  *normalPath,
		ambient:     *ambient,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Loaded: %s (%d vertices, %d triangles)\n",
		filepath.Base(modelPath), sc.mesh.VertexCount(), sc.mesh.TriangleCount())

	if *preview {
		return runPreview(ctx, sc, eye, bg)
	}
	return renderFrames(ctx, sc, eye, bg, width, height)
}

// renderFrames writes one image per turntable frame.
func renderFrames(ctx context.Context, sc *scene, eye math3d.Vec3, bg render.Color, width, height int) error {
	r := render.NewRenderer(width, height)
	cam := render.NewCamera(eye, width, height)
	spin := newTurntable(*targetFPS)

	for i := range *frames {
		spin.Step(turntableAngle(i, *frames))
		cam.SetEye(spin.Eye(eye))

		r.Clear(bg)
		r.ResetStats()
		start := time.Now()
		if err := sc.draw(ctx, r, cam, *workers); err != nil {
			return err
		}
		elapsed := time.Since(start)

		out := framePath(*outPath, i, *frames)
		if err := saveImage(r.Color(), out); err != nil {
			return err
		}
		st := r.Stats()
		fmt.Printf("Wrote %s: %d triangles, %d fragments, %d depth-rejected in %v\n",
			out, st.Triangles, st.Fragments, st.DepthRejected, elapsed.Round(time.Millisecond))

		if *depthPath != "" {
			dp := framePath(*depthPath, i, *frames)
			if err := saveImage(r.DepthImage(), dp); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", dp)
		}
	}
	return nil
}

// saveImage picks the encoder from the file extension.
func saveImage(img *render.Image[render.Color], path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		return bmp.Save(img, path)
	case ".png":
		return render.SavePNG(img, path)
	default:
		return fmt.Errorf("unsupported output format: %q (use .bmp or .png)", ext)
	}
}

// framePath numbers path when more than one frame is rendered.
func framePath(path string, frame, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), frame, ext)
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid -size %q: %w", s, err)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("invalid -size %q", s)
	}
	return w, h, nil
}

func parseVec3(s string) (math3d.Vec3, error) {
	var v math3d.Vec3
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &v.X, &v.Y, &v.Z); err != nil {
		return v, err
	}
	return v, nil
}

// parseColor reads "R,G,B" with each channel in 0..255.
func parseColor(s string) (render.Color, error) {
	var c [3]int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &c[0], &c[1], &c[2]); err != nil {
		return render.Color{}, fmt.Errorf("invalid -bg %q: %w", s, err)
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return render.Color{}, fmt.Errorf("invalid -bg %q: channel %d out of range 0..255", s, v)
		}
	}
	return render.RGB(uint8(c[0]), uint8(c[1]), uint8(c[2])), nil
}
