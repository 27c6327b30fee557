// Package bmp reads and writes uncompressed 24-bit Windows bitmaps.
package bmp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	xbmp "golang.org/x/image/bmp"

	"github.com/taigrr/raster/pkg/render"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	pixelOffset    = fileHeaderSize + infoHeaderSize

	bitsPerPixel   = 24
	bytesPerPixel  = bitsPerPixel / 8
	pixelsPerM     = 2835 // 72 DPI
	compressionRGB = 0
)

// FormatError reports a bitmap this package does not handle.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "bmp: " + e.Msg
}

// rowSize is the stored width of one row, padded to four bytes.
func rowSize(width int) int {
	return (width*bytesPerPixel + 3) &^ 3
}

// Encode writes img as a bottom-up 24-bit bitmap.
func Encode(w io.Writer, img *render.Image[render.Color]) error {
	width, height := img.Width(), img.Height()
	stride := rowSize(width)
	dataSize := stride * height

	var hdr [pixelOffset]byte
	le := binary.LittleEndian
	hdr[0], hdr[1] = 'B', 'M'
	le.PutUint32(hdr[2:], uint32(pixelOffset+dataSize))
	// 6..9 reserved
	le.PutUint32(hdr[10:], pixelOffset)
	le.PutUint32(hdr[14:], infoHeaderSize)
	le.PutUint32(hdr[18:], uint32(width))
	le.PutUint32(hdr[22:], uint32(height))
	le.PutUint16(hdr[26:], 1) // planes
	le.PutUint16(hdr[28:], bitsPerPixel)
	le.PutUint32(hdr[30:], compressionRGB)
	le.PutUint32(hdr[34:], uint32(dataSize))
	le.PutUint32(hdr[38:], pixelsPerM)
	le.PutUint32(hdr[42:], pixelsPerM)
	// 46..53: palette sizes, zero

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	row := make([]byte, stride)
	pix := img.Pixels()
	for y := height - 1; y >= 0; y-- {
		for x, c := range pix[y*width : (y+1)*width] {
			row[x*3] = c.B
			row[x*3+1] = c.G
			row[x*3+2] = c.R
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a 24-bit uncompressed bitmap.
func Decode(r io.Reader) (*render.Image[render.Color], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	img, err := xbmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bmp: decode pixels: %w", err)
	}
	return render.FromImage(img), nil
}

func checkHeader(data []byte) error {
	if len(data) < pixelOffset {
		return &FormatError{Msg: fmt.Sprintf("short header (%d bytes)", len(data))}
	}
	if string(data[:2]) != "BM" {
		return &FormatError{Msg: "missing BM signature"}
	}
	le := binary.LittleEndian
	if n := le.Uint32(data[14:]); n != infoHeaderSize {
		return &FormatError{Msg: fmt.Sprintf("unsupported info header size %d", n)}
	}
	if bpp := le.Uint16(data[28:]); bpp != bitsPerPixel {
		return &FormatError{Msg: fmt.Sprintf("unsupported bit depth %d", bpp)}
	}
	if c := le.Uint32(data[30:]); c != compressionRGB {
		return &FormatError{Msg: fmt.Sprintf("unsupported compression %d", c)}
	}
	return nil
}

// Save writes img to path.
func Save(img *render.Image[render.Color], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bitmap: %w", err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode bitmap: %w", err)
	}
	return f.Close()
}

// Load reads the bitmap at path.
func Load(path string) (*render.Image[render.Color], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
