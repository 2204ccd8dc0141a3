package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock packs two vertical pixels into one terminal cell: foreground
// is the top pixel, background the bottom.
const halfBlock = "▀"

// Draw paints the framebuffer into area, two framebuffer rows per
// terminal row. The buffer should be area.Dx() wide and 2*area.Dy() tall.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		y := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.Pixel(x, y)),
					Bg: cellColor(fb.Pixel(x, y+1)),
				},
			})
		}
	}
}

// TerminalSize returns the framebuffer size that fills area.
func TerminalSize(area uv.Rectangle) (width, height int) {
	return area.Dx(), area.Dy() * 2
}

func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
