// Package render is the CPU rasterization core: a color and depth
// framebuffer, an edge-function triangle rasterizer with per-fragment
// shading callbacks, and helpers to present finished frames.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"
)

// farDepth is the value every depth cell holds after Clear.
const farDepth = math.MaxFloat64

// Framebuffer holds the color and depth targets for one frame.
//
// Pixels and depth are row-major and always the same length. Rasterizers
// write into them; presentation reads the image published by Swap, so a
// frame can be drawn while the previous one is still on screen.
//
// Height is twice the terminal row count when presenting with half-blocks.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA

	depth []float64

	mu    sync.RWMutex
	front *image.RGBA
}

// NewFramebuffer creates a framebuffer with the given dimensions.
// Non-positive dimensions produce an empty framebuffer that ignores writes.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		depth:  make([]float64, width*height),
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	fb.ClearDepth()
	return fb
}

// Clear fills the color buffer with c and resets depth to far.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// copy-doubling is markedly faster than a per-element loop
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth cell to far without touching color.
func (fb *Framebuffer) ClearDepth() {
	n := len(fb.depth)
	if n == 0 {
		return
	}
	fb.depth[0] = farDepth
	for i := 1; i < n; i *= 2 {
		copy(fb.depth[i:], fb.depth[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color, ignoring depth.
// Out-of-bounds writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// depthAt returns the stored depth at (x, y), or far when out of bounds.
func (fb *Framebuffer) depthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return farDepth
	}
	return fb.depth[y*fb.Width+x]
}

// Swap publishes the current color buffer as the front image.
// The back buffer is left intact so overlays can still be drawn on it.
func (fb *Framebuffer) Swap() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x, c := range row {
			fb.front.SetRGBA(x, y, c)
		}
	}
}

// Front returns a copy of the last published frame.
func (fb *Framebuffer) Front() *image.RGBA {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	img := image.NewRGBA(fb.front.Rect)
	copy(img.Pix, fb.front.Pix)
	return img
}

// frontPixel reads one published pixel under the read lock held by the caller.
func (fb *Framebuffer) frontPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.front.RGBAAt(x, y)
}

// ToImage converts the back buffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
