package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"

	"github.com/taigrr/raster/pkg/math3d"
)

// Blender is a pixel type that can be blended linearly. Color and the
// math3d vectors satisfy it.
type Blender[P any] interface {
	Scale(f float64) P
	Add(o P) P
}

// SampleClamp samples img at texture coordinates (u, v) with bilinear
// filtering. Coordinates are clamped to [0, 1]; (0, 0) is the bottom-left
// corner and (1, 1) the top-right. img must not be empty.
//
// Color images are blended in floating point and rounded once per channel.
func SampleClamp[P Blender[P]](img *Image[P], u, v float64) P {
	if ci, ok := any(img).(*Image[Color]); ok {
		return any(sampleColor(ci, u, v)).(P)
	}
	x0, x1, y0, y1, tx, ty := footprint(img.width, img.height, u, v)
	top := img.At(x0, y0).Scale(1 - tx).Add(img.At(x1, y0).Scale(tx))
	bot := img.At(x0, y1).Scale(1 - tx).Add(img.At(x1, y1).Scale(tx))
	return top.Scale(1 - ty).Add(bot.Scale(ty))
}

func sampleColor(img *Image[Color], u, v float64) Color {
	x0, x1, y0, y1, tx, ty := footprint(img.width, img.height, u, v)
	c00, c10 := img.At(x0, y0), img.At(x1, y0)
	c01, c11 := img.At(x0, y1), img.At(x1, y1)
	channel := func(a, b, c, d uint8) uint8 {
		top := float64(a)*(1-tx) + float64(b)*tx
		bot := float64(c)*(1-tx) + float64(d)*tx
		return uint8(math.Round(min(max(top*(1-ty)+bot*ty, 0), 255)))
	}
	return Color{
		channel(c00.R, c10.R, c01.R, c11.R),
		channel(c00.G, c10.G, c01.G, c11.G),
		channel(c00.B, c10.B, c01.B, c11.B),
	}
}

// footprint returns the four texels around (u, v) and the blend weights
// toward x1 and y1.
func footprint(width, height int, u, v float64) (x0, x1, y0, y1 int, tx, ty float64) {
	u = clamp01(u)
	v = 1 - clamp01(v)

	fx := u * float64(width-1)
	fy := v * float64(height-1)
	x0, x1 = int(math.Floor(fx)), int(math.Ceil(fx))
	y0, y1 = int(math.Floor(fy)), int(math.Ceil(fy))
	return x0, x1, y0, y1, fx - float64(x0), fy - float64(y0)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	}
	return x
}

// LoadTexture loads a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Image[Color], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Image[Color] {
	tex := NewImage[Color](width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.pix[y*width+x] = c1
			} else {
				tex.pix[y*width+x] = c2
			}
		}
	}
	return tex
}

// Resize scales img to width x height with Catmull-Rom filtering.
func Resize(img *Image[Color], width, height int) *Image[Color] {
	src := ToRGBA(img)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// NormalMap decodes a tangent-space normal map: each channel c maps to
// (c-128)/128, so the neutral color (128, 128, 255) is roughly +Z.
func NormalMap(img *Image[Color]) *Image[math3d.Vec3] {
	out := NewImage[math3d.Vec3](img.width, img.height)
	for i, c := range img.pix {
		out.pix[i] = math3d.V3(
			(float64(c.R)-128)/128,
			(float64(c.G)-128)/128,
			(float64(c.B)-128)/128,
		)
	}
	return out
}
