// Package shade holds the per-body fragment shaders.
//
// Every body kind is a Uniforms value; Shade dispatches on it once per
// fragment. Shaders read the fragment's object-space position for noise
// lookups (so patterns stick to the rotating surface) and its view-space
// normal for lighting. They are pure functions of their inputs and safe to
// call from several tiles at once.
package shade

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// Kind identifies a body shader.
type Kind int

const (
	KindStar Kind = iota
	KindRockyPlanet
	KindGasGiant
	KindMoon
	KindRing
	KindHull
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindRockyPlanet:
		return "rocky"
	case KindGasGiant:
		return "gas"
	case KindMoon:
		return "moon"
	case KindRing:
		return "ring"
	case KindHull:
		return "hull"
	default:
		return "unknown"
	}
}

// Uniforms is the closed set of per-object shader inputs: Star,
// RockyPlanet, GasGiant, Moon, Ring and Hull.
type Uniforms interface {
	Kind() Kind
	uniforms()
}

// DefaultLight is the view-space key light used when no star is visible:
// up, right and toward the viewer.
var DefaultLight = math3d.V3(0.3, 0.4, 1).Normalize()

// missing is returned for unknown uniforms so gaps are obvious on screen.
var missing = render.RGB(255, 0, 255)

// Shade computes the color of f for the body described by u.
func Shade(f *render.Fragment, u Uniforms) render.Color {
	switch u := u.(type) {
	case Star:
		return u.shade(f)
	case RockyPlanet:
		return u.shade(f)
	case GasGiant:
		return u.shade(f)
	case Moon:
		return u.shade(f)
	case Ring:
		return u.shade(f)
	case Hull:
		return u.shade(f)
	default:
		return missing
	}
}

// For binds u into a render.ShadeFunc.
func For(u Uniforms) render.ShadeFunc {
	return func(f *render.Fragment) render.Color {
		return Shade(f, u)
	}
}

// Lambert returns the diffuse term max(0, n.l). Neither vector has to be
// normalized.
func Lambert(n, l math3d.Vec3) float64 {
	return math.Max(0, n.Normalize().Dot(l.Normalize()))
}

// lightOr falls back to DefaultLight for a zero light vector.
// latitude is the sine of p's latitude on the unit sphere, or 0 at the
// origin.
func latitude(p math3d.Vec3) float64 {
	if l := p.Len(); l > 0 {
		return p.Y / l
	}
	return 0
}

func lightOr(l math3d.Vec3) math3d.Vec3 {
	if l.LenSq() == 0 {
		return DefaultLight
	}
	return l
}

func rgb(r, g, b float64) colorful.Color {
	return colorful.Color{R: r, G: g, B: b}
}

func scale(c colorful.Color, s float64) colorful.Color {
	return colorful.Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

func add(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

// toRGBA clamps c into gamut and converts it to an opaque pixel.
func toRGBA(c colorful.Color) render.Color {
	r, g, b := c.Clamped().RGB255()
	return render.Color{R: r, G: g, B: b, A: 255}
}
