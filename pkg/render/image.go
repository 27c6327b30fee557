// Package render rasterizes triangle meshes on the CPU into an Image using
// programmable vertex and fragment shaders and a depth buffer.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/taigrr/raster/pkg/math3d"
)

// Image is a width x height grid of pixels stored row-major, with (0, 0)
// at the top-left. Pixel access outside the grid panics.
type Image[P any] struct {
	width  int
	height int
	pix    []P
}

// NewImage creates an image filled with the zero value of P.
func NewImage[P any](width, height int) *Image[P] {
	return &Image[P]{
		width:  width,
		height: height,
		pix:    make([]P, width*height),
	}
}

// FilledImage creates an image with every pixel set to fill.
func FilledImage[P any](width, height int, fill P) *Image[P] {
	img := NewImage[P](width, height)
	img.Fill(fill)
	return img
}

// ImageFromPixels wraps a copy of pix, which must hold exactly
// width*height row-major pixels.
func ImageFromPixels[P any](width, height int, pix []P) *Image[P] {
	if len(pix) != width*height {
		panic(fmt.Sprintf("render: %d pixels for a %dx%d image", len(pix), width, height))
	}
	img := NewImage[P](width, height)
	copy(img.pix, pix)
	return img
}

// Width returns the width in pixels.
func (img *Image[P]) Width() int { return img.width }

// Height returns the height in pixels.
func (img *Image[P]) Height() int { return img.height }

// Pixels returns the row-major backing slice.
func (img *Image[P]) Pixels() []P { return img.pix }

// InBounds reports whether (x, y) lies inside the image.
func (img *Image[P]) InBounds(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

func (img *Image[P]) offset(x, y int) int {
	if !img.InBounds(x, y) {
		panic(fmt.Sprintf("render: pixel (%d, %d) outside %dx%d image", x, y, img.width, img.height))
	}
	return y*img.width + x
}

// At returns the pixel at (x, y).
func (img *Image[P]) At(x, y int) P {
	return img.pix[img.offset(x, y)]
}

// Set sets the pixel at (x, y).
func (img *Image[P]) Set(x, y int, v P) {
	img.pix[img.offset(x, y)] = v
}

// Fill sets every pixel to v.
func (img *Image[P]) Fill(v P) {
	for i := range img.pix {
		img.pix[i] = v
	}
}

// Clone returns a deep copy.
func (img *Image[P]) Clone() *Image[P] {
	return ImageFromPixels(img.width, img.height, img.pix)
}

// Line draws from (x0, y0) to (x1, y1) inclusive with Bresenham's
// algorithm. Points falling outside the image are skipped.
func (img *Image[P]) Line(x0, y0, x1, y1 int, v P) {
	steep := abs(x0-x1) < abs(y0-y1)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror := abs(y1-y0) * 2
	yoff := -1
	if y1 > y0 {
		yoff = 1
	}

	errAcc := 0
	y := y0
	for x := x0; x <= x1; x++ {
		px, py := x, y
		if steep {
			px, py = y, x
		}
		if img.InBounds(px, py) {
			img.pix[py*img.width+px] = v
		}
		errAcc += derror
		if errAcc > dx {
			y += yoff
			errAcc -= dx * 2
		}
	}
}

// Triangle fills the triangle with corners a, b and c (pixel coordinates,
// truncated to integers) with v, without depth testing. Pixels on an edge
// are filled.
func (img *Image[P]) Triangle(a, b, c math3d.Vec2, v P) {
	p0 := math3d.V2(float64(int(a.X)), float64(int(a.Y)))
	p1 := math3d.V2(float64(int(b.X)), float64(int(b.Y)))
	p2 := math3d.V2(float64(int(c.X)), float64(int(c.Y)))

	box, ok := clampBox(img.width, img.height, p0, p1, p2)
	if !ok {
		return
	}
	for y := box.Min.Y; y <= box.Max.Y; y++ {
		for x := box.Min.X; x <= box.Max.X; x++ {
			bc := math3d.Barycentric(p0, p1, p2, math3d.V2(float64(x), float64(y)))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			img.pix[y*img.width+x] = v
		}
	}
}

// clampBox returns the inclusive bounding box of the points clamped to a
// width x height grid. ok is false when the box does not touch the grid.
func clampBox(width, height int, pts ...math3d.Vec2) (box image.Rectangle, ok bool) {
	minX, minY := int(pts[0].X), int(pts[0].Y)
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, int(p.X))
		minY = min(minY, int(p.Y))
		maxX = max(maxX, int(p.X))
		maxY = max(maxY, int(p.Y))
	}
	if maxX < 0 || maxY < 0 || minX >= width || minY >= height {
		return image.Rectangle{}, false
	}
	box = image.Rect(max(minX, 0), max(minY, 0), min(maxX, width-1), min(maxY, height-1))
	return box, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToRGBA converts the image to a standard library image.RGBA.
func ToRGBA(img *Image[Color]) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		for x := range img.width {
			c := img.pix[y*img.width+x]
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// FromImage converts any image.Image to an Image[Color], dropping alpha.
func FromImage(src image.Image) *Image[Color] {
	b := src.Bounds()
	img := NewImage[Color](b.Dx(), b.Dy())
	for y := range img.height {
		for x := range img.width {
			img.pix[y*img.width+x] = toColor(src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return img
}

// SavePNG saves the image as a PNG file.
func SavePNG(img *Image[Color], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, ToRGBA(img)); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
