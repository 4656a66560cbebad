package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// FramebufferSize returns the framebuffer dimensions that exactly fill a
// terminal of cols x rows using half-block cells.
func FramebufferSize(cols, rows int) (width, height int) {
	return max(cols, 0), max(rows, 0) * 2
}

// Draw renders the last published frame (see Swap) into the screen area.
//
// Each terminal cell shows two vertically stacked pixels with the upper
// half block: foreground is the top pixel, background the bottom one.
// Draw implements uv.Drawable.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	fb.mu.RLock()
	defer fb.mu.RUnlock()

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.frontPixel(x, topY)),
					Bg: rgbaToColor(fb.frontPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
