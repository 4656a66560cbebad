package shade

import (
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// Ring is a dusty planetary ring. UV.Y runs from the inner edge (0) to the
// outer edge (1); gaps between ringlets are drawn in a flat shadow color.
type Ring struct {
	Light math3d.Vec3
}

func (Ring) Kind() Kind { return KindRing }
func (Ring) uniforms()  {}

var (
	ringInner  = rgb(0.4, 0.35, 0.3)
	ringOuter  = rgb(0.5, 0.45, 0.4)
	ringShadow = rgb(0.12, 0.1, 0.09)
)

// division is the radial band left empty regardless of noise.
var division = [2]float64{0.62, 0.66}

func (r Ring) shade(f *render.Fragment) render.Color {
	radial := math3d.Clamp01(f.UV.Y)
	if isGap(radial) {
		return toRGBA(ringShadow)
	}

	c := ringInner.BlendRgb(ringOuter, radial)
	v := noise.Octaves(f.Position.Scale(10), 2) * 0.1
	c = add(c, rgb(v, v, v))

	intensity := Lambert(f.Normal, lightOr(r.Light))
	return toRGBA(scale(c, intensity*0.6+0.4))
}

// isGap reports whether the radial coordinate falls between ringlets.
// Density only depends on the radius, so gaps are concentric.
func isGap(radial float64) bool {
	if radial >= division[0] && radial <= division[1] {
		return true
	}
	density := noise.FBM(math3d.V3(radial*18, 0.37, 0.71), 2, noise.DefaultLacunarity, noise.DefaultGain)
	return density < -0.3
}
