package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"github.com/taigrr/orrery/pkg/noise"
	"golang.org/x/image/draw"
)

// Background paints the color buffer before any geometry is drawn.
// Implementations must not touch depth.
type Background interface {
	Paint(fb *Framebuffer)
}

// Solid is a flat background color.
type Solid Color

// Paint fills the color buffer.
func (s Solid) Paint(fb *Framebuffer) {
	fb.DrawRect(0, 0, fb.Width, fb.Height, Color(s))
}

// Skybox stretches an image over the whole framebuffer with
// nearest-neighbour sampling. The scaled copy is cached per size.
type Skybox struct {
	src *image.RGBA

	mu     sync.Mutex
	scaled *image.RGBA
}

// skyboxDecoders picks a decoder by extension. TGA has no magic number,
// so image.Decode cannot tell it apart from other formats.
var skyboxDecoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  tga.Decode,
}

// LoadSkybox decodes a PNG, JPEG or TGA file into a Skybox.
func LoadSkybox(path string) (*Skybox, error) {
	format := strings.ToLower(filepath.Ext(path))
	decode, ok := skyboxDecoders[format]
	if !ok {
		return nil, fmt.Errorf("skybox %q: %w", format, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skybox: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode skybox: %w", err)
	}
	Logger().Info("skybox loaded",
		"path", path,
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return NewSkybox(img), nil
}

// NewSkybox wraps an already decoded image.
func NewSkybox(img image.Image) *Skybox {
	b := img.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	return &Skybox{src: src}
}

// Paint copies the (scaled) skybox into the color buffer.
func (s *Skybox) Paint(fb *Framebuffer) {
	if s == nil || s.src.Bounds().Empty() || fb.Width == 0 || fb.Height == 0 {
		return
	}

	s.mu.Lock()
	if s.scaled == nil || s.scaled.Bounds().Dx() != fb.Width || s.scaled.Bounds().Dy() != fb.Height {
		s.scaled = image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
		draw.NearestNeighbor.Scale(s.scaled, s.scaled.Bounds(), s.src, s.src.Bounds(), draw.Src, nil)
	}
	scaled := s.scaled
	s.mu.Unlock()

	for y := range fb.Height {
		for x := range fb.Width {
			fb.Pixels[y*fb.Width+x] = scaled.RGBAAt(x, y)
		}
	}
}

// Starfield is a procedural background: a base color sprinkled with
// stars whose positions come from a lattice hash, so the field is stable
// from frame to frame.
type Starfield struct {
	Base    Color
	Density float64 // fraction of pixels that hold a star, 0..1
	Seed    int
}

// Paint fills the color buffer with the star field.
func (s Starfield) Paint(fb *Framebuffer) {
	for y := range fb.Height {
		for x := range fb.Width {
			c := s.Base
			if h := noise.Hash3(x, y, s.Seed); h < s.Density {
				// brightness from a second, independent hash
				b := 0.35 + 0.65*noise.Hash3(x, y, s.Seed+1)
				c = Color{
					R: blendChannel(s.Base.R, b),
					G: blendChannel(s.Base.G, b),
					B: blendChannel(s.Base.B, math.Min(1, b*1.1)),
					A: 255,
				}
			}
			fb.Pixels[y*fb.Width+x] = c
		}
	}
}

// blendChannel moves a channel toward white by t.
func blendChannel(base uint8, t float64) uint8 {
	v := float64(base) + (255-float64(base))*t
	return uint8(math.Round(math.Min(255, v)))
}
