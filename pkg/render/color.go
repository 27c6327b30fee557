package render

import (
	"image/color"
	"math"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{255, 255, 255}
	ColorRed     = Color{255, 0, 0}
	ColorGreen   = Color{0, 255, 0}
	ColorBlue    = Color{0, 0, 255}
	ColorYellow  = Color{255, 255, 0}
	ColorCyan    = Color{0, 255, 255}
	ColorMagenta = Color{255, 0, 255}
	ColorGray    = Color{128, 128, 128}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// FloatRGB maps channels in [0, 1] to bytes, rounding to nearest.
// Values outside the range are clamped.
func FloatRGB(r, g, b float64) Color {
	return Color{unitToByte(r), unitToByte(g), unitToByte(b)}
}

func unitToByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Add returns the per-channel sum, saturating at 255.
func (c Color) Add(o Color) Color {
	return Color{satAdd(c.R, o.R), satAdd(c.G, o.G), satAdd(c.B, o.B)}
}

func satAdd(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 255 {
		return uint8(s)
	}
	return 255
}

// Scale multiplies every channel by f, clamping to [0, 255] and truncating.
func (c Color) Scale(f float64) Color {
	return Color{scaleByte(c.R, f), scaleByte(c.G, f), scaleByte(c.B, f)}
}

func scaleByte(b uint8, f float64) uint8 {
	v := float64(b) * f
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Mul tints c by o, treating each channel as a fixed-point fraction of 256:
// (a*b)>>8. White does not leave a color unchanged; it darkens by 1/256.
func (c Color) Mul(o Color) Color {
	return Color{fixMul(c.R, o.R), fixMul(c.G, o.G), fixMul(c.B, o.B)}
}

// Tint applies the same fixed-point product as Mul with one factor for all channels.
func (c Color) Tint(s uint8) Color {
	return Color{fixMul(c.R, s), fixMul(c.G, s), fixMul(c.B, s)}
}

func fixMul(a, b uint8) uint8 {
	return uint8((uint16(a) * uint16(b)) >> 8)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ColorModel converts any color.Color to Color, dropping alpha.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return toColor(c)
})

func toColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}
