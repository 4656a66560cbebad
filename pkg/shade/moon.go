package shade

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
	"github.com/taigrr/orrery/pkg/render"
)

// Moon is cratered gray rock.
type Moon struct {
	Light math3d.Vec3
}

func (Moon) Kind() Kind { return KindMoon }
func (Moon) uniforms()  {}

func (m Moon) shade(f *render.Fragment) render.Color {
	craters := noise.Octaves(f.Position.Scale(8), 4)
	depth := math.Abs(craters-0.5) * 2

	gray := 0.5
	if depth > 0.7 {
		gray -= depth * 0.3
	}
	gray = math3d.Clamp(gray, 0.2, 0.8)

	gray *= Lambert(f.Normal, lightOr(m.Light))*0.9 + 0.1
	return toRGBA(rgb(gray, gray, gray))
}
