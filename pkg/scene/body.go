package scene

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

// Surface picks the mesh and shader of a body.
type Surface int

const (
	SurfaceStar Surface = iota
	SurfaceTerran
	SurfaceAzure
	SurfaceCrimson
	SurfaceGas
)

func (s Surface) String() string {
	switch s {
	case SurfaceStar:
		return "star"
	case SurfaceTerran:
		return "terran"
	case SurfaceAzure:
		return "azure"
	case SurfaceCrimson:
		return "crimson"
	case SurfaceGas:
		return "gas"
	default:
		return "unknown"
	}
}

// uniforms returns the shader inputs for a body at time t lit from light
// (view space).
func (s Surface) uniforms(t float64, light math3d.Vec3) shade.Uniforms {
	switch s {
	case SurfaceStar:
		return shade.Star{Time: t}
	case SurfaceTerran:
		return shade.RockyPlanet{Palette: shade.Terran, Light: light}
	case SurfaceAzure:
		return shade.RockyPlanet{Palette: shade.Azure, Light: light}
	case SurfaceCrimson:
		return shade.RockyPlanet{Palette: shade.Crimson, Light: light}
	default:
		return shade.GasGiant{Time: t, Light: light}
	}
}

// Moon orbits its parent body on a horizontal circle.
type Moon struct {
	OrbitRadius   float64
	OrbitSpeed    float64 // radians per second
	RotationSpeed float64
	Scale         float64
	Phase         float64
}

// Ring is a flat annulus around its parent body.
type Ring struct {
	RotationSpeed float64
	Scale         float64
}

// Ring annulus in object units, before Scale.
const (
	RingInner = 1.2
	RingOuter = 2.4
)

// Body is a star or planet. Bodies orbit the origin on the xz plane.
type Body struct {
	Name    string
	Surface Surface

	OrbitRadius   float64
	OrbitSpeed    float64 // radians per second
	RotationSpeed float64
	Scale         float64 // radius in world units
	Phase         float64

	OrbitColor render.Color
	// CollisionRadius keeps the camera out of the body.
	CollisionRadius float64

	Moon *Moon
	Ring *Ring
}

// Position returns the body's center at time t.
func (b *Body) Position(t float64) math3d.Vec3 {
	a := t*b.OrbitSpeed + b.Phase
	sin, cos := math.Sincos(a)
	return math3d.V3(b.OrbitRadius*cos, 0, b.OrbitRadius*sin)
}

// MoonPosition returns the moon's center at time t, or false when the body
// has no moon.
func (b *Body) MoonPosition(t float64) (math3d.Vec3, bool) {
	if b.Moon == nil {
		return math3d.Vec3{}, false
	}
	a := t*b.Moon.OrbitSpeed + b.Moon.Phase
	sin, cos := math.Sincos(a)
	return b.Position(t).Add(math3d.V3(b.Moon.OrbitRadius*cos, 0, b.Moon.OrbitRadius*sin)), true
}

// Rotation returns the body's Euler angles at time t.
func (b *Body) Rotation(t float64) math3d.Vec3 {
	return math3d.V3(0, b.RotationSpeed*t, b.RotationSpeed*0.3)
}

func (m *Moon) rotation(t float64) math3d.Vec3 {
	return math3d.V3(t*m.RotationSpeed, t*m.RotationSpeed*0.5, 0)
}

func (r *Ring) rotation(t float64) math3d.Vec3 {
	return math3d.V3(math.Pi/4*0.3, 0, t*r.RotationSpeed)
}

func hex(v uint32) render.Color {
	return render.RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// DefaultBodies returns the star and its five planets.
func DefaultBodies() []Body {
	return []Body{
		{
			Name: "Helios", Surface: SurfaceStar,
			RotationSpeed: 0.25, Scale: 140,
			OrbitColor: hex(0xFFAA44), CollisionRadius: 160,
		},
		{
			Name: "Azura", Surface: SurfaceAzure,
			OrbitRadius: 240, OrbitSpeed: 0.62, RotationSpeed: 0.95, Scale: 60, Phase: 0.35,
			OrbitColor: hex(0x55D0FF), CollisionRadius: 80,
		},
		{
			Name: "Aurelia", Surface: SurfaceTerran,
			OrbitRadius: 340, OrbitSpeed: 0.46, RotationSpeed: 1.0, Scale: 80, Phase: 1.0,
			OrbitColor: hex(0x66FFCC), CollisionRadius: 95,
			Moon: &Moon{OrbitRadius: 140, OrbitSpeed: 1.5, RotationSpeed: 0.6, Scale: 28, Phase: 0.6},
		},
		{
			Name: "Zephyrus", Surface: SurfaceGas,
			OrbitRadius: 500, OrbitSpeed: 0.32, RotationSpeed: 0.4, Scale: 130, Phase: 2.2,
			OrbitColor: hex(0xCC8844), CollisionRadius: 170,
			Ring: &Ring{RotationSpeed: 0.15, Scale: 150},
		},
		{
			Name: "Pyra", Surface: SurfaceCrimson,
			OrbitRadius: 640, OrbitSpeed: 0.29, RotationSpeed: 1.1, Scale: 78, Phase: 0.7,
			OrbitColor: hex(0xFF4433), CollisionRadius: 100,
			Moon: &Moon{OrbitRadius: 125, OrbitSpeed: 1.6, RotationSpeed: 0.8, Scale: 26, Phase: 1.2},
		},
		{
			Name: "Cryon", Surface: SurfaceGas,
			OrbitRadius: 820, OrbitSpeed: 0.18, RotationSpeed: 0.5, Scale: 110, Phase: 3.4,
			OrbitColor: hex(0x55CCFF), CollisionRadius: 140,
		},
	}
}
