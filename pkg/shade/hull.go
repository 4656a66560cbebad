package shade

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// Hull is paneled metal for the ship mesh.
type Hull struct {
	Light math3d.Vec3
}

func (Hull) Kind() Kind { return KindHull }
func (Hull) uniforms()  {}

// HullLight is the fixed key light the ship is drawn with: from the upper
// right, slightly behind the viewer.
var HullLight = math3d.V3(0.3, 0.8, 0.5).Normalize()

var (
	hullPlate = rgb(0.58, 0.6, 0.63)
	hullDark  = rgb(0.25, 0.27, 0.3)
)

func (h Hull) shade(f *render.Fragment) render.Color {
	p := f.Position
	n := f.Normal.Normalize()

	panel := math3d.Clamp01(noise.Octaves(p.Scale(7), 3))
	c := hullDark.BlendRgb(hullPlate, panel)

	edge := math.Pow(n.Y*0.5+0.5, 6) * 0.25
	engine := math.Abs(math.Sin(p.Y*0.4)) * 0.05
	spec := math.Pow(math.Max(n.Z, 0), 6) * 0.5

	intensity := Lambert(n, lightOr(h.Light))
	lit := scale(c, intensity*0.65+0.35)
	extra := edge + spec + engine
	return toRGBA(add(lit, rgb(extra, extra, extra)))
}
