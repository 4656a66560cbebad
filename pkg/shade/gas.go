package shade

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// GasGiant is a banded planet with a storm spot. Time advects the
// turbulence that bends the bands.
type GasGiant struct {
	Time  float64
	Light math3d.Vec3
}

func (GasGiant) Kind() Kind { return KindGasGiant }
func (GasGiant) uniforms()  {}

var (
	gasDark  = rgb(0.5, 0.3, 0.2)
	gasLight = rgb(0.8, 0.7, 0.6)
	gasSpot  = rgb(0.8, 0.3, 0.2)

	// spotCenter is in object space, so the storm turns with the planet.
	spotCenter = math3d.V3(0, 0.3, 0.8)
)

const (
	bandFrequency = 8.0
	spotRadius    = 0.3
)

func (g GasGiant) shade(f *render.Fragment) render.Color {
	p := f.Position
	flow := math3d.V3(g.Time*0.06, 0, g.Time*0.02)
	turbulence := noise.Octaves(p.Scale(3).Add(flow), 4)
	variation := noise.Octaves(p.Scale(5).Sub(flow), 3) * 0.2

	lat := latitude(p) + (turbulence-0.5)*0.08
	band := math.Sin(lat*bandFrequency)*0.5 + 0.5
	swirl := (turbulence*2 - 1) * 0.3

	c := gasDark.BlendRgb(gasLight, band)
	c = add(c, rgb(swirl, swirl*0.5, -swirl*0.3))
	c = add(c, rgb(variation, variation*0.5, -variation*0.3))

	if d := p.Normalize().Distance(spotCenter); d < spotRadius {
		t := 1 - d/spotRadius
		c = c.BlendRgb(gasSpot, t*t*0.4)
	}

	intensity := Lambert(f.Normal, lightOr(g.Light))
	return toRGBA(scale(c, intensity*0.7+0.3))
}
