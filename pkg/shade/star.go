package shade

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// Star is an emissive body: a hot orange base pushed toward white at the
// disc center, with slowly boiling granulation. It ignores scene lighting.
type Star struct {
	Time float64 // seconds; drives the surface churn
}

func (Star) Kind() Kind { return KindStar }
func (Star) uniforms()  {}

func (s Star) shade(f *render.Fragment) render.Color {
	n := f.Normal.Normalize()
	drift := math3d.V3(s.Time*0.15, -s.Time*0.1, s.Time*0.05)
	variation := 0.1 * noise.Octaves(f.Position.Scale(5).Add(drift), 3)

	// distance from the disc center as seen by the viewer
	rim := math.Min(math.Hypot(n.X, n.Y), 1)
	glow := (1 - rim) * (1 - rim) * 0.3
	flare := math.Pow(n.Z*0.5+0.5, 3) * 0.2

	return toRGBA(rgb(
		1.0+variation+glow+flare,
		0.7+variation*0.5+glow*0.8+flare*0.9,
		0.3+variation*0.3+glow*0.5,
	))
}
