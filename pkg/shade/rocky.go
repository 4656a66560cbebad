package shade

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// Palette selects the surface style of a rocky planet.
type Palette int

const (
	// Terran has oceans, green and brown land and snowy poles.
	Terran Palette = iota
	// Azure is a water world with ice caps and heavy cloud.
	Azure
	// Crimson is basalt broken by glowing lava fissures.
	Crimson
)

func (p Palette) String() string {
	switch p {
	case Terran:
		return "terran"
	case Azure:
		return "azure"
	case Crimson:
		return "crimson"
	default:
		return "unknown"
	}
}

// RockyPlanet is a solid planet lit by Light (view space, pointing from the
// surface toward the light). A zero Light uses DefaultLight.
type RockyPlanet struct {
	Palette Palette
	Light   math3d.Vec3
}

func (RockyPlanet) Kind() Kind { return KindRockyPlanet }
func (RockyPlanet) uniforms()  {}

var (
	terranGreen   = rgb(0.2, 0.6, 0.2)
	terranBrown   = rgb(0.4, 0.3, 0.2)
	terranSnow    = rgb(0.9, 0.9, 0.95)
	terranDeep    = rgb(0.0, 0.2, 0.5)
	terranShallow = rgb(0.2, 0.4, 0.7)

	azureAbyss  = rgb(0.02, 0.18, 0.4)
	azureLagoon = rgb(0.18, 0.66, 0.96)
	azureAurora = rgb(0.5, 0.9, 1.0)
	azureCloud  = rgb(0.85, 0.95, 1.0)

	crimsonBasalt = rgb(0.2, 0.05, 0.05)
	crimsonEmber  = rgb(0.74, 0.16, 0.08)
	crimsonCore   = rgb(1.0, 0.42, 0.18)
)

// landLevel is the continent noise value above which terran terrain is land.
const landLevel = 0.52

func (r RockyPlanet) shade(f *render.Fragment) render.Color {
	intensity := Lambert(f.Normal, lightOr(r.Light))
	switch r.Palette {
	case Azure:
		return azure(f, intensity)
	case Crimson:
		return crimson(f, intensity)
	default:
		return terran(f, intensity)
	}
}

func terran(f *render.Fragment, intensity float64) render.Color {
	p := f.Position

	var c colorful.Color
	if noise.Octaves(p.Scale(2), 4) > landLevel {
		elevation := noise.Octaves(p.Scale(4), 3)*0.5 + 0.5
		// polar angle as a fraction: 0 at the north pole, 1 at the south
		climate := math.Acos(math3d.Clamp(latitude(p), -1, 1)) / math.Pi
		switch {
		case climate < 0.15 || climate > 0.85:
			c = terranGreen.BlendRgb(terranSnow, 0.7)
		case climate > 0.35 && climate < 0.65:
			c = terranGreen.BlendRgb(terranBrown, 0.2)
		default:
			c = terranGreen.BlendRgb(terranBrown, elevation*0.5)
		}
	} else {
		depth := noise.Octaves(p.Scale(3), 3)*0.3 + 0.7
		c = terranShallow.BlendRgb(terranDeep, depth)
	}
	return toRGBA(scale(c, intensity*0.8+0.2))
}

func azure(f *render.Fragment, intensity float64) render.Color {
	p := f.Position
	polar := noise.Octaves(p.Scale(4), 4)
	ocean := noise.Octaves(p.Scale(2.5), 3)

	ice := math3d.Clamp01(math.Pow(math.Abs(latitude(p)), 4) + polar*0.3)
	water := azureAbyss.BlendRgb(azureLagoon, math3d.Clamp01(ocean*1.2-0.2))
	clouds := math.Pow(noise.Octaves(p.Scale(6), 5), 3)
	mixed := water.BlendRgb(azureCloud, clouds)

	iceColor := scale(azureAurora, 0.6+ice*0.4)
	base := mixed.BlendRgb(iceColor, ice)

	n := f.Normal.Normalize()
	h := math.Pow(n.Y*0.5+0.5, 8) * 0.3
	return toRGBA(add(scale(base, intensity*0.75+0.25), rgb(h, h, h*0.8)))
}

func crimson(f *render.Fragment, intensity float64) render.Color {
	p := f.Position
	basalt := noise.Octaves(p.Scale(3.5), 4)
	fissure := noise.Octaves(p.Scale(8), 5)

	crater := math.Abs(basalt - 0.45)
	lava := math.Pow(math3d.Clamp01(fissure*1.4-0.5), 1.6)

	surface := crimsonBasalt.BlendRgb(crimsonEmber, lava)
	molten := surface.BlendRgb(crimsonCore, lava)
	base := scale(surface, 0.5+crater*0.4).BlendRgb(molten, lava)

	n := f.Normal.Normalize()
	rim := math.Pow(n.Y*0.5+0.5, 8) * 0.3
	g := lava * 0.4
	c := add(scale(base, intensity*0.8+0.2), rgb(g+rim, g*0.6+rim*0.4, g*0.4))
	return toRGBA(c)
}
