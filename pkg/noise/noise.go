// Package noise provides deterministic lattice value noise and fractal
// Brownian motion for procedural shading.
//
// All functions are pure: the same input always yields the same output,
// there is no package state and nothing allocates. They are safe to call
// from any number of rasterizer goroutines at once.
package noise

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Default fBM parameters: each octave doubles frequency and halves amplitude.
const (
	DefaultLacunarity = 2.0
	DefaultGain       = 0.5
)

// Hash3 maps an integer lattice point to a pseudo-random value in [0, 1).
func Hash3(ix, iy, iz int) float64 {
	h := uint64(int64(ix))*0x9E3779B185EBCA87 ^
		uint64(int64(iy))*0xC2B2AE3D27D4EB4F ^
		uint64(int64(iz))*0x165667B19E3779F9
	// splitmix64 finalizer
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11) / (1 << 53)
}

// lattice returns the signed corner value at an integer point, in [-1, 1).
func lattice(ix, iy, iz int) float64 {
	return 2*Hash3(ix, iy, iz) - 1
}

// fade is the quintic ease 6t^5 - 15t^4 + 10t^3. Its first and second
// derivatives vanish at 0 and 1, so the noise is C2 across cell borders.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Noise3 returns smooth value noise at p, in [-1, 1].
//
// Corner values come from Hash3 and are blended trilinearly with quintic
// weights. The result is continuous everywhere and equals the corner value
// exactly at integer coordinates.
func Noise3(p math3d.Vec3) float64 {
	fx, fy, fz := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	ix, iy, iz := int(fx), int(fy), int(fz)
	u := fade(p.X - fx)
	v := fade(p.Y - fy)
	w := fade(p.Z - fz)

	x00 := lerp(lattice(ix, iy, iz), lattice(ix+1, iy, iz), u)
	x10 := lerp(lattice(ix, iy+1, iz), lattice(ix+1, iy+1, iz), u)
	x01 := lerp(lattice(ix, iy, iz+1), lattice(ix+1, iy, iz+1), u)
	x11 := lerp(lattice(ix, iy+1, iz+1), lattice(ix+1, iy+1, iz+1), u)

	y0 := lerp(x00, x10, v)
	y1 := lerp(x01, x11, v)

	return lerp(y0, y1, w)
}

// Offsets that decorrelate the three channels of Vec3Noise.
var (
	offsetY = math3d.V3(31.416, -47.853, 12.793)
	offsetZ = math3d.V3(-19.19, 73.156, -52.235)
)

// Vec3Noise returns three decorrelated Noise3 samples around p, each in
// [-1, 1]. Useful for domain warping.
func Vec3Noise(p math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		Noise3(p),
		Noise3(p.Add(offsetY)),
		Noise3(p.Add(offsetZ)),
	)
}
