package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawImage paints img onto a terminal screen using half-block cells:
// each terminal row shows two image rows, the upper as the foreground of
// "▀" and the lower as its background. The image height should be twice
// the area height; rows and columns past the image edge are left alone.
func DrawImage(scr uv.Screen, area uv.Rectangle, img *Image[Color]) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= img.height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= img.width {
				break
			}

			style := uv.Style{Fg: img.pix[topY*img.width+x]}
			if botY < img.height {
				style.Bg = img.pix[botY*img.width+x]
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style:   style,
			})
		}
	}
}
