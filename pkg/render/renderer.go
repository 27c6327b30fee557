package render

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/chewxy/math32"

	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// clearDepth is the depth every pixel starts at. Larger depth is nearer,
// so the first fragment written to a pixel always wins.
var clearDepth float32 = -math32.MaxFloat32

// Stats counts rasterization work since the last ResetStats.
type Stats struct {
	Triangles     int // triangles submitted
	Fragments     int // fragments that passed the depth test and were written
	DepthRejected int // covered pixels that failed the depth test
}

func (s *Stats) add(o Stats) {
	s.Triangles += o.Triangles
	s.Fragments += o.Fragments
	s.DepthRejected += o.DepthRejected
}

// Renderer owns a color buffer and a depth buffer of the same size and
// draws triangles into them.
type Renderer struct {
	color *Image[Color]
	depth *Image[float32]
	stats Stats
}

// NewRenderer creates a renderer with a black color buffer and a cleared
// depth buffer.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		color: NewImage[Color](width, height),
		depth: FilledImage[float32](width, height, clearDepth),
	}
}

// Width returns the framebuffer width.
func (r *Renderer) Width() int { return r.color.width }

// Height returns the framebuffer height.
func (r *Renderer) Height() int { return r.color.height }

// Color returns the color buffer.
func (r *Renderer) Color() *Image[Color] { return r.color }

// Depth returns the depth buffer.
func (r *Renderer) Depth() *Image[float32] { return r.depth }

// DepthImage renders the depth buffer as grayscale, white nearest. Pixels
// never written stay black.
func (r *Renderer) DepthImage() *Image[Color] {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, z := range r.depth.pix {
		if z == clearDepth {
			continue
		}
		lo = math32.Min(lo, z)
		hi = math32.Max(hi, z)
	}
	out := NewImage[Color](r.depth.width, r.depth.height)
	span := hi - lo
	for i, z := range r.depth.pix {
		if z == clearDepth {
			continue
		}
		g := float32(1)
		if span > 0 {
			g = (z - lo) / span
		}
		v := uint8(math32.Round(g * 255))
		out.pix[i] = Color{v, v, v}
	}
	return out
}

// Stats returns the counters accumulated since the last reset.
func (r *Renderer) Stats() Stats { return r.stats }

// ResetStats zeroes the counters.
func (r *Renderer) ResetStats() { r.stats = Stats{} }

// Clear fills the color buffer with bg and resets the depth buffer.
func (r *Renderer) Clear(bg Color) {
	r.color.Fill(bg)
	r.depth.Fill(clearDepth)
}

// Line draws a line on the color buffer without depth testing.
func (r *Renderer) Line(x0, y0, x1, y1 int, c Color) {
	r.color.Line(x0, y0, x1, y1, c)
}

// Draw paints the color buffer onto a terminal screen with half blocks.
func (r *Renderer) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawImage(scr, area, r.color)
}

// Triangle fills a screen-space triangle with a flat color, depth tested.
// X and Y are pixel coordinates and are truncated; Z is the depth, larger
// being nearer.
func (r *Renderer) Triangle(a, b, c math3d.Vec3, col Color) {
	r.stats.Triangles++
	p0, p1, p2 := truncXY(a), truncXY(b), truncXY(c)
	box, ok := clampBox(r.color.width, r.color.height, p0, p1, p2)
	if !ok {
		return
	}
	zs := math3d.V3(a.Z, b.Z, c.Z)
	for y := box.Min.Y; y <= box.Max.Y; y++ {
		for x := box.Min.X; x <= box.Max.X; x++ {
			bc := math3d.Barycentric(p0, p1, p2, math3d.V2(float64(x), float64(y)))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			i := y*r.color.width + x
			z := float32(bc.Dot(zs))
			if z <= r.depth.pix[i] {
				r.stats.DepthRejected++
				continue
			}
			r.depth.pix[i] = z
			r.color.pix[i] = col
			r.stats.Fragments++
		}
	}
}

// DrawTriangle runs the shader over one triangle and rasterizes it.
func DrawTriangle[V, U any, O models.Vertex[O]](r *Renderer, s Shader[V, U, O], u *U, a, b, c V) {
	r.stats.Triangles++
	t, ok := shadeVertices(s, u, a, b, c)
	if !ok {
		return
	}
	rasterize(r, s, u, &t, 0, r.color.height-1, &r.stats)
}

// DrawMesh draws every triangle of mesh in order.
func DrawMesh[V models.Vertex[V], U any, O models.Vertex[O]](r *Renderer, mesh *models.Mesh[V], s Shader[V, U, O], u *U) {
	for i := range mesh.TriangleCount() {
		a, b, c := mesh.Corners(i)
		DrawTriangle(r, s, u, a, b, c)
	}
}

// screenTri is a triangle after the vertex stage: truncated pixel
// positions, screen depth, reciprocal clip w and the three varyings.
type screenTri[O any] struct {
	pts  [3]math3d.Vec2
	z    math3d.Vec3
	invW math3d.Vec3
	out  [3]O
	minY int
	maxY int
}

// shadeVertices runs the vertex stage on the three corners. ok is false
// when a corner has w == 0, which has no screen position.
func shadeVertices[V, U any, O models.Vertex[O]](s Shader[V, U, O], u *U, a, b, c V) (t screenTri[O], ok bool) {
	var z, w [3]float64
	for i, v := range [3]V{a, b, c} {
		clip, out := s.Vertex(v, u)
		if clip.W == 0 {
			return t, false
		}
		p := clip.PerspectiveDivide()
		t.pts[i] = truncXY(p)
		t.out[i] = out
		z[i], w[i] = p.Z, clip.W
	}
	t.z = math3d.V3(z[0], z[1], z[2])
	t.invW = math3d.V3(1/w[0], 1/w[1], 1/w[2])
	t.minY = int(min(t.pts[0].Y, t.pts[1].Y, t.pts[2].Y))
	t.maxY = int(max(t.pts[0].Y, t.pts[1].Y, t.pts[2].Y))
	return t, true
}

// rasterize scans t over rows y0..y1 (inclusive) of r, calling the
// fragment stage for every covered pixel that passes the depth test.
// Only pixels in those rows are read or written.
func rasterize[V, U any, O models.Vertex[O]](r *Renderer, s Shader[V, U, O], u *U, t *screenTri[O], y0, y1 int, st *Stats) {
	box, ok := clampBox(r.color.width, r.color.height, t.pts[0], t.pts[1], t.pts[2])
	if !ok {
		return
	}
	box.Min.Y = max(box.Min.Y, y0)
	box.Max.Y = min(box.Max.Y, y1)

	for y := box.Min.Y; y <= box.Max.Y; y++ {
		for x := box.Min.X; x <= box.Max.X; x++ {
			bc := math3d.Barycentric(t.pts[0], t.pts[1], t.pts[2], math3d.V2(float64(x), float64(y)))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			// Depth is linear in screen space; attributes are not.
			i := y*r.color.width + x
			z := float32(bc.Dot(t.z))
			if z <= r.depth.pix[i] {
				st.DepthRejected++
				continue
			}
			clip := bc.Mul(t.invW)
			clip = clip.Div(clip.X + clip.Y + clip.Z)

			in := t.out[0].Interpolate(clip, t.out[1], t.out[2])
			r.depth.pix[i] = z
			r.color.pix[i] = s.Fragment(in, u)
			st.Fragments++
		}
	}
}

func truncXY(p math3d.Vec3) math3d.Vec2 {
	return math3d.V2(float64(int(p.X)), float64(int(p.Y)))
}
