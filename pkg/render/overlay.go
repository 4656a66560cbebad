package render

import (
	"image"
	"math"
)

// Overlay primitives draw straight into the color buffer. They ignore and
// never touch depth, so they sit on top of whatever is already there.

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// Lines entirely to one side of the framebuffer are skipped without walking.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= fb.Width && x1 >= fb.Width) || (y0 >= fb.Height && y1 >= fb.Height) {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPolyline connects consecutive points; closed also joins last to first.
func (fb *Framebuffer) DrawPolyline(pts []image.Point, closed bool, c Color) {
	for i := 1; i < len(pts); i++ {
		fb.DrawLine(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, c)
	}
	if closed && len(pts) > 2 {
		last := pts[len(pts)-1]
		fb.DrawLine(last.X, last.Y, pts[0].X, pts[0].Y, c)
	}
}

// DrawBurst draws rays from (cx, cy) out to radius, one every stepDeg
// degrees. Used for the warp effect.
func (fb *Framebuffer) DrawBurst(cx, cy, radius, stepDeg int, c Color) {
	if radius <= 0 || stepDeg <= 0 {
		return
	}
	for deg := 0; deg < 360; deg += stepDeg {
		sin, cos := math.Sincos(float64(deg) * math.Pi / 180)
		x := cx + int(cos*float64(radius))
		y := cy + int(sin*float64(radius))
		fb.DrawLine(cx, cy, x, y, c)
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	for py := max(y, 0); py < min(y+h, fb.Height); py++ {
		for px := max(x, 0); px < min(x+w, fb.Width); px++ {
			fb.Pixels[py*fb.Width+px] = c
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
